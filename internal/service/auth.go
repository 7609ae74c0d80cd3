package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/authz"
	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/YusovID/kanban-service/internal/repository"
	"github.com/YusovID/kanban-service/internal/validation"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, in domain.Registration) (*domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Resolve(ctx context.Context, token string) (domain.Actor, error)
	Logout(ctx context.Context, actor domain.Actor) error
	CheckEmail(ctx context.Context, actor domain.Actor, email string) (*domain.UserSummary, error)
	DeleteUser(ctx context.Context, actor domain.Actor, userID int64) error
}

type AuthServiceImpl struct {
	BaseService
	users      repository.UserRepository
	tokens     repository.TokenRepository
	bcryptCost int
}

func NewAuthService(
	db Transactor,
	log *slog.Logger,
	users repository.UserRepository,
	tokens repository.TokenRepository,
	bcryptCost int,
) *AuthServiceImpl {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthServiceImpl{
		BaseService: NewBaseService(db, log),
		users:       users,
		tokens:      tokens,
		bcryptCost:  bcryptCost,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, in domain.Registration) (*domain.Session, error) {
	const op = "internal.service.auth.Register"

	in.Email = strings.TrimSpace(in.Email)
	in.Fullname = strings.TrimSpace(in.Fullname)

	if err := validation.ValidateRules(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.NewFieldError("password", "ensure this field has no more than 72 bytes")
		}

		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	var session *domain.Session

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		user, err := s.users.CreateUser(ctx, tx, &domain.User{
			Email:        in.Email,
			Fullname:     in.Fullname,
			PasswordHash: string(hash),
			IsActive:     true,
		})
		if err != nil {
			var existsErr *apperrors.EmailAlreadyExistsError
			if errors.As(err, &existsErr) {
				return apperrors.NewFieldError("email", "a user with this email already exists")
			}

			return fmt.Errorf("%s: failed to create user: %w", op, err)
		}

		token, err := s.tokens.GetOrCreateToken(ctx, tx, user.ID)
		if err != nil {
			return fmt.Errorf("%s: failed to issue token: %w", op, err)
		}

		session = newSession(user, token)

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", slog.String("op", op), slog.Int64("user_id", session.UserID))

	return session, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	const op = "internal.service.auth.Login"
	log := s.log.With(slog.String("op", op))

	var session *domain.Session

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		user, err := s.users.GetUserByEmail(ctx, tx, strings.TrimSpace(email))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrInvalidCredentials
			}

			return fmt.Errorf("%s: failed to get user: %w", op, err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			log.Debug("password mismatch", slog.Int64("user_id", user.ID))
			return apperrors.ErrInvalidCredentials
		}

		if !user.IsActive {
			return apperrors.ErrUserInactive
		}

		token, err := s.tokens.GetOrCreateToken(ctx, tx, user.ID)
		if err != nil {
			return fmt.Errorf("%s: failed to issue token: %w", op, err)
		}

		session = newSession(user, token)

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("user logged in", slog.Int64("user_id", session.UserID))

	return session, nil
}

func (s *AuthServiceImpl) Resolve(ctx context.Context, token string) (domain.Actor, error) {
	const op = "internal.service.auth.Resolve"

	if token == "" {
		return domain.Actor{}, apperrors.ErrUnauthenticated
	}

	var actor domain.Actor

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		user, err := s.tokens.GetUserByToken(ctx, tx, token)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrUnauthenticated
			}

			return fmt.Errorf("%s: failed to resolve token: %w", op, err)
		}

		if !user.IsActive {
			return apperrors.ErrUnauthenticated
		}

		actor = user.Actor()

		return nil
	})
	if err != nil {
		return domain.Actor{}, err
	}

	return actor, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, actor domain.Actor) error {
	const op = "internal.service.auth.Logout"

	return s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if err := s.tokens.DeleteUserTokens(ctx, tx, actor.ID); err != nil {
			return fmt.Errorf("%s: failed to delete tokens: %w", op, err)
		}

		return nil
	})
}

func (s *AuthServiceImpl) CheckEmail(ctx context.Context, _ domain.Actor, email string) (*domain.UserSummary, error) {
	const op = "internal.service.auth.CheckEmail"

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.NewFieldError("email", "this field is required")
	}

	var summary domain.UserSummary

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		user, err := s.users.GetUserByEmail(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		summary = user.Summary()

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (s *AuthServiceImpl) DeleteUser(ctx context.Context, actor domain.Actor, userID int64) error {
	const op = "internal.service.auth.DeleteUser"
	log := s.log.With(slog.String("op", op), slog.Int64("actor_id", actor.ID), slog.Int64("user_id", userID))

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		_, err := s.users.GetUserByID(ctx, tx, userID)
		if err = authorize(op, err, func() bool { return authz.CanDeleteUser(actor, userID) }); err != nil {
			return err
		}

		if err := s.users.DeleteUser(ctx, tx, userID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("user deleted")

	return nil
}

func newSession(user *domain.User, token string) *domain.Session {
	return &domain.Session{
		Token:    token,
		UserID:   user.ID,
		Email:    user.Email,
		Fullname: user.Fullname,
	}
}
