package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/YusovID/kanban-service/internal/authz"
	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/YusovID/kanban-service/internal/repository"
	"github.com/YusovID/kanban-service/internal/validation"
	"github.com/jmoiron/sqlx"
)

type CommentService interface {
	List(ctx context.Context, actor domain.Actor, taskID int64) ([]domain.Comment, error)
	Create(ctx context.Context, actor domain.Actor, taskID int64, in domain.CommentInput) (*domain.Comment, error)
	Delete(ctx context.Context, actor domain.Actor, taskID, commentID int64) error
}

type CommentServiceImpl struct {
	BaseService
	comments repository.CommentRepository
	tasks    repository.TaskRepository
	boards   repository.BoardRepository
}

func NewCommentService(
	db Transactor,
	log *slog.Logger,
	comments repository.CommentRepository,
	tasks repository.TaskRepository,
	boards repository.BoardRepository,
) *CommentServiceImpl {
	return &CommentServiceImpl{
		BaseService: NewBaseService(db, log),
		comments:    comments,
		tasks:       tasks,
		boards:      boards,
	}
}

func (s *CommentServiceImpl) List(ctx context.Context, actor domain.Actor, taskID int64) ([]domain.Comment, error) {
	const op = "internal.service.comment.List"

	var comments []domain.Comment

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		task, board, err := loadTaskChain(ctx, tx, s.tasks, s.boards, taskID, repository.LockNone)
		if err = authorize(op, err, func() bool { return authz.CanViewTaskComments(actor, task, board) }); err != nil {
			return err
		}

		comments, err = s.comments.ListComments(ctx, tx, taskID)
		if err != nil {
			return fmt.Errorf("%s: failed to list comments: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return comments, nil
}

func (s *CommentServiceImpl) Create(ctx context.Context, actor domain.Actor, taskID int64, in domain.CommentInput) (*domain.Comment, error) {
	const op = "internal.service.comment.Create"
	log := s.log.With(slog.String("op", op), slog.Int64("actor_id", actor.ID), slog.Int64("task_id", taskID))

	in.Content = strings.TrimSpace(in.Content)

	var comment *domain.Comment

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		task, board, err := loadTaskChain(ctx, tx, s.tasks, s.boards, taskID, repository.LockShare)
		if err = authorize(op, err, func() bool { return authz.CanViewTaskComments(actor, task, board) }); err != nil {
			return err
		}

		if err := validation.ValidateRules(in); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		comment, err = s.comments.CreateComment(ctx, tx, &domain.Comment{
			TaskID:   taskID,
			AuthorID: actor.ID,
			Content:  in.Content,
		})
		if err != nil {
			return fmt.Errorf("%s: failed to create comment: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("comment created", slog.Int64("comment_id", comment.ID))

	return comment, nil
}

// Delete is allowed to the comment author only; board ownership grants nothing here.
func (s *CommentServiceImpl) Delete(ctx context.Context, actor domain.Actor, taskID, commentID int64) error {
	const op = "internal.service.comment.Delete"
	log := s.log.With(slog.String("op", op), slog.Int64("actor_id", actor.ID), slog.Int64("comment_id", commentID))

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if _, _, err := loadTaskChain(ctx, tx, s.tasks, s.boards, taskID, repository.LockShare); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		comment, err := s.comments.GetComment(ctx, tx, taskID, commentID)
		if err = authorize(op, err, func() bool { return authz.CanDeleteComment(actor, comment) }); err != nil {
			return err
		}

		if err := s.comments.DeleteComment(ctx, tx, commentID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("comment deleted")

	return nil
}
