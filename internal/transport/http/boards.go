package http

import (
	"net/http"

	"github.com/YusovID/kanban-service/internal/domain"
)

func (s *Server) listBoards(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.listBoards"

	boards, err := s.boards.List(r.Context(), actor)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resp := make([]boardSummaryResponse, len(boards))
	for i, b := range boards {
		resp[i] = newBoardSummaryResponse(b)
	}

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) createBoard(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.createBoard"

	var req boardRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	board, err := s.boards.Create(r.Context(), actor, req.toDomain())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, newBoardSummaryResponse(*board))
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.getBoard"

	boardID, err := pathID(r, "boardID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	board, err := s.boards.Get(r.Context(), actor, boardID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, newBoardDetailResponse(board))
}

func (s *Server) updateBoard(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.updateBoard"

	boardID, err := pathID(r, "boardID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req boardPatchRequest
	present, err := s.decodePatch(w, r, &req)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	board, err := s.boards.Update(r.Context(), actor, boardID, req.toDomain(present))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, newBoardUpdateResponse(board))
}

func (s *Server) deleteBoard(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	const op = "internal.transport.http.deleteBoard"

	boardID, err := pathID(r, "boardID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.boards.Delete(r.Context(), actor, boardID); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusNoContent, nil)
}
