package http

import (
	"net/http"

	"github.com/YusovID/kanban-service/internal/domain"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.register"

	var req registrationRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	session, err := s.auth.Register(r.Context(), req.toDomain())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, newSessionResponse(session))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.login"

	var req loginRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, newSessionResponse(session))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.logout"

	if err := s.auth.Logout(r.Context(), actor); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.deleteUser"

	userID, err := pathID(r, "userID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.auth.DeleteUser(r.Context(), actor, userID); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) checkEmail(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.checkEmail"

	user, err := s.auth.CheckEmail(r.Context(), actor, r.URL.Query().Get("email"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, newUserResponse(*user))
}
