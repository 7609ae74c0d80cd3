package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/YusovID/kanban-service/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var userColumns = []string{"id", "email", "fullname", "password_hash", "is_active", "is_staff", "created_at"}

type UserRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewUserRepository(log *slog.Logger) *UserRepository {
	return &UserRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (ur *UserRepository) CreateUser(ctx context.Context, tx *sqlx.Tx, user *domain.User) (*domain.User, error) {
	const op = "internal.repository.postgres.CreateUser"

	query, args, err := ur.sq.Insert("users").
		Columns("email", "fullname", "password_hash", "is_active", "is_staff").
		Values(user.Email, user.Fullname, user.PasswordHash, user.IsActive, user.IsStaff).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.User
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if isUniqueViolation(err) {
			return nil, &apperrors.EmailAlreadyExistsError{Email: user.Email}
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (ur *UserRepository) GetUserByEmail(ctx context.Context, ext sqlx.ExtContext, email string) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByEmail"

	query, args, err := ur.sq.Select(userColumns...).
		From("users").
		Where(sq.Expr("LOWER(email) = LOWER(?)", email)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user domain.User
	if err := sqlx.GetContext(ctx, ext, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with email '%s'", op, apperrors.ErrNotFound, email)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &user, nil
}

func (ur *UserRepository) GetUserByID(ctx context.Context, ext sqlx.ExtContext, userID int64) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByID"

	query, args, err := ur.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user domain.User
	if err := sqlx.GetContext(ctx, ext, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with id %d", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &user, nil
}

func (ur *UserRepository) ExistingUserIDs(ctx context.Context, ext sqlx.ExtContext, ids []int64) ([]int64, error) {
	const op = "internal.repository.postgres.ExistingUserIDs"

	if len(ids) == 0 {
		return []int64{}, nil
	}

	query, args, err := ur.sq.Select("id").
		From("users").
		Where(sq.Expr("id = ANY(?)", pq.Array(ids))).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	existing := []int64{}
	if err := sqlx.SelectContext(ctx, ext, &existing, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return existing, nil
}

func (ur *UserRepository) DeleteUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	const op = "internal.repository.postgres.DeleteUser"
	log := ur.log.With(slog.String("op", op), slog.Int64("user_id", userID))

	if _, err := execDelete(ctx, tx, ur.sq.Delete("auth_tokens").Where(sq.Eq{"user_id": userID})); err != nil {
		return fmt.Errorf("%s: tokens: %w", op, err)
	}

	query, args, err := ur.sq.Select("id").
		From("boards").
		Where(sq.Eq{"owner_id": userID}).
		Suffix(repository.LockUpdate.Suffix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build owned boards query: %w", op, err)
	}

	var ownedBoards []int64
	if err := tx.SelectContext(ctx, &ownedBoards, query, args...); err != nil {
		return fmt.Errorf("%s: failed to select owned boards: %w", op, err)
	}

	if _, err := deleteBoards(ctx, tx, ur.sq, ownedBoards); err != nil {
		return fmt.Errorf("%s: owned boards: %w", op, err)
	}

	createdTasks, err := deleteTasks(ctx, tx, ur.sq, "created_by_id", userID)
	if err != nil {
		return fmt.Errorf("%s: created tasks: %w", op, err)
	}

	comments, err := execDelete(ctx, tx, ur.sq.Delete("comments").Where(sq.Eq{"author_id": userID}))
	if err != nil {
		return fmt.Errorf("%s: authored comments: %w", op, err)
	}

	for _, column := range []string{"assignee_id", "reviewer_id"} {
		query, args, err := ur.sq.Update("tasks").
			Set(column, nil).
			Where(sq.Eq{column: userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%s: failed to build %s reset query: %w", op, column, err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: failed to reset %s: %w", op, column, err)
		}
	}

	if _, err := execDelete(ctx, tx, ur.sq.Delete("board_members").Where(sq.Eq{"user_id": userID})); err != nil {
		return fmt.Errorf("%s: memberships: %w", op, err)
	}

	affected, err := execDelete(ctx, tx, ur.sq.Delete("users").Where(sq.Eq{"id": userID}))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w: user with id %d", op, apperrors.ErrNotFound, userID)
	}

	log.Info("user deleted",
		slog.Int("owned_boards", len(ownedBoards)),
		slog.Int64("created_tasks", createdTasks),
		slog.Int64("comments", comments),
	)

	return nil
}
