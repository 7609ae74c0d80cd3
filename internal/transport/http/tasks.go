package http

import (
	"net/http"

	"github.com/YusovID/kanban-service/internal/domain"
)

func (s *Server) listAssignedTasks(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.listAssignedTasks"

	tasks, err := s.tasks.ListAssignedToMe(r.Context(), actor)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, newTaskResponses(tasks))
}

func (s *Server) listReviewingTasks(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.listReviewingTasks"

	tasks, err := s.tasks.ListReviewing(r.Context(), actor)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, newTaskResponses(tasks))
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.createTask"

	var req taskRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	in, err := req.toDomain()
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	task, err := s.tasks.Create(r.Context(), actor, in)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, newTaskResponse(*task))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.updateTask"

	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req taskPatchRequest
	present, err := s.decodePatch(w, r, &req)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	patch, err := req.toDomain(present)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	task, err := s.tasks.Update(r.Context(), actor, taskID, patch)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, newTaskResponse(*task))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.deleteTask"

	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.tasks.Delete(r.Context(), actor, taskID); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusNoContent, nil)
}
