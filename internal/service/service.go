package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/authz"
	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/YusovID/kanban-service/internal/repository"
	"github.com/YusovID/kanban-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
)

type Transactor interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type BaseService struct {
	db  Transactor
	log *slog.Logger
}

func NewBaseService(db Transactor, log *slog.Logger) BaseService {
	return BaseService{
		db:  db,
		log: log,
	}
}

func (s *BaseService) transaction(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Error("failed to rollback transaction", slog.String("op", op), sl.Err(err))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}

// authorize combines the result of loading a resource with a permission
// predicate. A missing resource is reported before a denied one; allowed is
// only evaluated once the resource is known to exist.
func authorize(op string, lookupErr error, allowed func() bool) error {
	found := lookupErr == nil
	if !found && !errors.Is(lookupErr, apperrors.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, lookupErr)
	}

	outcome := authz.Decide(found, found && allowed())

	switch outcome {
	case authz.NotFound:
		return fmt.Errorf("%s: %w", op, lookupErr)
	case authz.Forbidden:
		return fmt.Errorf("%s: %w", op, outcome.Err())
	default:
		return nil
	}
}

// loadTaskChain reads a task and its board, locking the board FOR SHARE and
// then the task with taskLock. The board is always locked before the task.
// A task deleted between the two reads yields apperrors.ErrNotFound.
func loadTaskChain(
	ctx context.Context,
	tx *sqlx.Tx,
	tasks repository.TaskRepository,
	boards repository.BoardRepository,
	taskID int64,
	taskLock repository.LockMode,
) (*domain.Task, *domain.Board, error) {
	task, err := tasks.GetTask(ctx, tx, taskID, repository.LockNone)
	if err != nil {
		return nil, nil, err
	}

	board, err := boards.GetBoard(ctx, tx, task.BoardID, repository.LockShare)
	if err != nil {
		return nil, nil, err
	}

	if taskLock == repository.LockNone {
		return task, board, nil
	}

	task, err = tasks.GetTask(ctx, tx, taskID, taskLock)
	if err != nil {
		return nil, nil, err
	}

	return task, board, nil
}
