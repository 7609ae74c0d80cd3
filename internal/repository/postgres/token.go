package postgres

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

const tokenBytes = 20

type TokenRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTokenRepository(log *slog.Logger) *TokenRepository {
	return &TokenRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func generateKey() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// GetOrCreateToken inserts a fresh key; on conflict the existing row wins and
// its key is returned unchanged.
func (tr *TokenRepository) GetOrCreateToken(ctx context.Context, tx *sqlx.Tx, userID int64) (string, error) {
	const op = "internal.repository.postgres.GetOrCreateToken"

	key, err := generateKey()
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate key: %w", op, err)
	}

	query, args, err := tr.sq.Insert("auth_tokens").
		Columns("key", "user_id").
		Values(key, userID).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id RETURNING key").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}

	var stored string
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&stored); err != nil {
		return "", fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	return stored, nil
}

func (tr *TokenRepository) GetUserByToken(ctx context.Context, ext sqlx.ExtContext, key string) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByToken"

	query, args, err := tr.sq.Select(
		"u.id", "u.email", "u.fullname", "u.password_hash", "u.is_active", "u.is_staff", "u.created_at",
	).
		From("auth_tokens t").
		Join("users u ON u.id = t.user_id").
		Where(sq.Eq{"t.key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user domain.User
	if err := sqlx.GetContext(ctx, ext, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: token", op, apperrors.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &user, nil
}

func (tr *TokenRepository) DeleteUserTokens(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	const op = "internal.repository.postgres.DeleteUserTokens"

	if _, err := execDelete(ctx, tx, tr.sq.Delete("auth_tokens").Where(sq.Eq{"user_id": userID})); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
