package http

import (
	"net/http"

	"github.com/YusovID/kanban-service/internal/domain"
)

func (s *Server) listComments(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.listComments"

	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	comments, err := s.comments.List(r.Context(), actor, taskID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resp := make([]commentResponse, len(comments))
	for i, c := range comments {
		resp[i] = newCommentResponse(c)
	}

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.createComment"

	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req commentRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	comment, err := s.comments.Create(r.Context(), actor, taskID, domain.CommentInput{Content: req.Content})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, newCommentResponse(*comment))
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.deleteComment"

	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	commentID, err := pathID(r, "commentID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.comments.Delete(r.Context(), actor, taskID, commentID); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusNoContent, nil)
}
