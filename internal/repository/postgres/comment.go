package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type CommentRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewCommentRepository(log *slog.Logger) *CommentRepository {
	return &CommentRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (cr *CommentRepository) commentSelect() sq.SelectBuilder {
	return cr.sq.Select("c.id", "c.task_id", "c.author_id", "u.fullname AS author_name", "c.content", "c.created_at").
		From("comments c").
		Join("users u ON u.id = c.author_id")
}

func (cr *CommentRepository) ListComments(ctx context.Context, ext sqlx.ExtContext, taskID int64) ([]domain.Comment, error) {
	const op = "internal.repository.postgres.ListComments"

	query, args, err := cr.commentSelect().
		Where(sq.Eq{"c.task_id": taskID}).
		OrderBy("c.created_at", "c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	comments := []domain.Comment{}
	if err := sqlx.SelectContext(ctx, ext, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return comments, nil
}

func (cr *CommentRepository) CreateComment(ctx context.Context, tx *sqlx.Tx, comment *domain.Comment) (*domain.Comment, error) {
	const op = "internal.repository.postgres.CreateComment"

	query, args, err := cr.sq.Insert("comments").
		Columns("task_id", "author_id", "content").
		Values(comment.TaskID, comment.AuthorID, comment.Content).
		Suffix(`RETURNING
            comments.id,
            comments.task_id,
            comments.author_id,
            (SELECT fullname FROM users WHERE id = comments.author_id) AS author_name,
            comments.content,
            comments.created_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Comment
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (cr *CommentRepository) GetComment(ctx context.Context, ext sqlx.ExtContext, taskID, commentID int64) (*domain.Comment, error) {
	const op = "internal.repository.postgres.GetComment"

	query, args, err := cr.commentSelect().
		Where(sq.Eq{"c.id": commentID, "c.task_id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var comment domain.Comment
	if err := sqlx.GetContext(ctx, ext, &comment, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: comment with id %d on task %d", op, apperrors.ErrNotFound, commentID, taskID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &comment, nil
}

func (cr *CommentRepository) DeleteComment(ctx context.Context, tx *sqlx.Tx, commentID int64) error {
	const op = "internal.repository.postgres.DeleteComment"

	affected, err := execDelete(ctx, tx, cr.sq.Delete("comments").Where(sq.Eq{"id": commentID}))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w: comment with id %d", op, apperrors.ErrNotFound, commentID)
	}

	return nil
}
