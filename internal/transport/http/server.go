// Package http implements the HTTP transport layer for the service.
// It authenticates requests, decodes them, calls the appropriate service methods,
// and encodes the responses.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/service"
	"github.com/YusovID/kanban-service/internal/validation"
	"github.com/YusovID/kanban-service/pkg/logger/sl"
	"github.com/YusovID/kanban-service/swagger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const (
	maxBodyBytes  = 1 << 20
	healthTimeout = 2 * time.Second
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the business services the handlers call into.
type Services struct {
	Auth     service.AuthService
	Boards   service.BoardService
	Tasks    service.TaskService
	Comments service.CommentService
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	log         *slog.Logger
	db          Pinger
	auth        service.AuthService
	boards      service.BoardService
	tasks       service.TaskService
	comments    service.CommentService
	corsOrigins []string
}

// NewServer creates a new instance of the HTTP server. CORS headers are only
// emitted when corsOrigins is not empty.
func NewServer(log *slog.Logger, db Pinger, svc Services, corsOrigins []string) *Server {
	return &Server{
		log:         log,
		db:          db,
		auth:        svc.Auth,
		boards:      svc.Boards,
		tasks:       svc.Tasks,
		comments:    svc.Comments,
		corsOrigins: corsOrigins,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.StripSlashes)
	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)
	mux.Use(middleware.Recoverer)

	if len(s.corsOrigins) > 0 {
		mux.Use(cors.New(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			},
			AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
		}).Handler)
	}

	mux.Handle("/metrics", promhttp.Handler())
	mux.Mount("/swagger", http.StripPrefix("/swagger", swagger.Handler()))
	mux.Get("/healthz", s.healthz)

	mux.Route("/api", func(r chi.Router) {
		r.Post("/registration", s.register)
		r.Post("/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Post("/logout", s.withActor(s.logout))
			r.Delete("/users/{userID}", s.withActor(s.deleteUser))
			r.Get("/email-check", s.withActor(s.checkEmail))

			r.Route("/boards", func(r chi.Router) {
				r.Get("/", s.withActor(s.listBoards))
				r.Post("/", s.withActor(s.createBoard))
				r.Get("/{boardID}", s.withActor(s.getBoard))
				r.Patch("/{boardID}", s.withActor(s.updateBoard))
				r.Put("/{boardID}", s.withActor(s.updateBoard))
				r.Delete("/{boardID}", s.withActor(s.deleteBoard))
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/assigned-to-me", s.withActor(s.listAssignedTasks))
				r.Get("/reviewing", s.withActor(s.listReviewingTasks))
				r.Post("/", s.withActor(s.createTask))
				r.Patch("/{taskID}", s.withActor(s.updateTask))
				r.Delete("/{taskID}", s.withActor(s.deleteTask))

				r.Get("/{taskID}/comments", s.withActor(s.listComments))
				r.Post("/{taskID}/comments", s.withActor(s.createComment))
				r.Delete("/{taskID}/comments/{commentID}", s.withActor(s.deleteComment))
			})
		})
	})

	return mux
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.log.Error("health check failed", sl.Err(err))
		s.respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respond encodes data to JSON and writes it to the response.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	if data == nil {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", sl.Err(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, code int, errCode, message string, fields map[string]string) {
	s.respond(w, code, errorResponse{Error: errorBody{
		Code:    errCode,
		Message: message,
		Fields:  fields,
	}})
}

// decodeAndValidate deserializes a JSON request body into v and runs the
// struct tag checks on it.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return validation.ValidateStruct(v)
}

// decodePatch is decodeAndValidate that also reports which top-level keys
// were present, so that an explicit null can be told apart from an absent field.
func (s *Server) decodePatch(w http.ResponseWriter, r *http.Request, v interface{}) (map[string]json.RawMessage, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(body, &present); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	if err := validation.ValidateStruct(v); err != nil {
		return nil, err
	}

	return present, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return body, nil
}

// pathID parses a numeric route parameter. Anything that is not a positive
// integer cannot name an existing row.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", name, chi.URLParam(r, name), apperrors.ErrNotFound)
	}

	return id, nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the error and maps it to a client-facing HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := s.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)

	var validationErr *apperrors.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Info("request rejected", sl.Err(err))
		s.respondError(w, http.StatusBadRequest, codeValidation, apperrors.ErrValidation.Error(), validationErr.Fields)
	case errors.Is(err, apperrors.ErrInvalidRequest):
		log.Info("request rejected", sl.Err(err))
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, apperrors.ErrInvalidRequest.Error(), nil)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		log.Info("request rejected", sl.Err(err))
		s.respondError(w, http.StatusBadRequest, codeInvalidCredentials, apperrors.ErrInvalidCredentials.Error(), nil)
	case errors.Is(err, apperrors.ErrUserInactive):
		log.Info("request rejected", sl.Err(err))
		s.respondError(w, http.StatusBadRequest, codeUserInactive, apperrors.ErrUserInactive.Error(), nil)
	case errors.Is(err, apperrors.ErrUnauthenticated):
		log.Info("request rejected", sl.Err(err))
		w.Header().Set("WWW-Authenticate", "Token")
		s.respondError(w, http.StatusUnauthorized, codeUnauthenticated, apperrors.ErrUnauthenticated.Error(), nil)
	case errors.Is(err, apperrors.ErrNotFound):
		log.Info("request rejected", sl.Err(err))
		s.respondError(w, http.StatusNotFound, codeNotFound, apperrors.ErrNotFound.Error(), nil)
	case errors.Is(err, apperrors.ErrForbidden):
		log.Info("request rejected", sl.Err(err))
		s.respondError(w, http.StatusForbidden, codeForbidden, apperrors.ErrForbidden.Error(), nil)
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		log.Info("request rejected", sl.Err(err))
		s.respondError(w, http.StatusConflict, codeConflict, apperrors.ErrConflict.Error(), nil)
	default:
		log.Error("service error occurred", sl.Err(err))
		s.respondError(w, http.StatusInternalServerError, codeInternal, "internal server error", nil)
	}
}
