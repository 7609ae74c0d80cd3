package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/authz"
	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/YusovID/kanban-service/internal/repository"
	"github.com/YusovID/kanban-service/internal/validation"
	"github.com/jmoiron/sqlx"
)

const (
	msgNotBoardMember = "must be the owner or a member of the board"
	msgUnknownUser    = "user does not exist"
	msgBoardImmutable = "the board of a task cannot be changed"
	msgUnknownBoard   = "board does not exist"
)

type TaskService interface {
	Create(ctx context.Context, actor domain.Actor, in domain.TaskInput) (*domain.TaskView, error)
	Update(ctx context.Context, actor domain.Actor, taskID int64, patch domain.TaskPatch) (*domain.TaskView, error)
	Delete(ctx context.Context, actor domain.Actor, taskID int64) error
	ListAssignedToMe(ctx context.Context, actor domain.Actor) ([]domain.TaskView, error)
	ListReviewing(ctx context.Context, actor domain.Actor) ([]domain.TaskView, error)
}

type TaskServiceImpl struct {
	BaseService
	tasks  repository.TaskRepository
	boards repository.BoardRepository
	users  repository.UserRepository
}

func NewTaskService(
	db Transactor,
	log *slog.Logger,
	tasks repository.TaskRepository,
	boards repository.BoardRepository,
	users repository.UserRepository,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		BaseService: NewBaseService(db, log),
		tasks:       tasks,
		boards:      boards,
		users:       users,
	}
}

func (s *TaskServiceImpl) Create(ctx context.Context, actor domain.Actor, in domain.TaskInput) (*domain.TaskView, error) {
	const op = "internal.service.task.Create"
	log := s.log.With(slog.String("op", op), slog.Int64("actor_id", actor.ID), slog.Int64("board_id", in.BoardID))

	in.Normalize()
	if err := validation.ValidateRules(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var view *domain.TaskView

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		board, err := s.boards.GetBoard(ctx, tx, in.BoardID, repository.LockShare)
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewFieldError("board", msgUnknownBoard)
		}

		if err = authorize(op, err, func() bool { return authz.CanCreateTask(actor, board) }); err != nil {
			return err
		}

		if err := s.checkPeople(ctx, tx, board, in.AssigneeID, in.ReviewerID); err != nil {
			return err
		}

		task, err := s.tasks.CreateTask(ctx, tx, &domain.Task{
			BoardID:     board.ID,
			Title:       in.Title,
			Description: in.Description,
			Status:      in.Status,
			Priority:    in.Priority,
			AssigneeID:  in.AssigneeID,
			ReviewerID:  in.ReviewerID,
			DueDate:     in.DueDate,
			CreatedByID: actor.ID,
		})
		if err != nil {
			return fmt.Errorf("%s: failed to create task: %w", op, err)
		}

		view, err = s.tasks.GetTaskView(ctx, tx, task.ID)
		if err != nil {
			return fmt.Errorf("%s: failed to load task: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task created", slog.Int64("task_id", view.ID))

	return view, nil
}

func (s *TaskServiceImpl) Update(ctx context.Context, actor domain.Actor, taskID int64, patch domain.TaskPatch) (*domain.TaskView, error) {
	const op = "internal.service.task.Update"
	log := s.log.With(slog.String("op", op), slog.Int64("actor_id", actor.ID), slog.Int64("task_id", taskID))

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}

	var view *domain.TaskView

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		task, board, err := loadTaskChain(ctx, tx, s.tasks, s.boards, taskID, repository.LockUpdate)
		if err = authorize(op, err, func() bool { return authz.CanMutateTask(actor, task, board) }); err != nil {
			return err
		}

		if err := validation.ValidateRules(patch); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if patch.BoardID != nil && *patch.BoardID != task.BoardID {
			return apperrors.NewFieldError("board", msgBoardImmutable)
		}

		var assigneeID, reviewerID *int64
		if patch.AssigneeSet {
			assigneeID = patch.AssigneeID
		}

		if patch.ReviewerSet {
			reviewerID = patch.ReviewerID
		}

		if err := s.checkPeople(ctx, tx, board, assigneeID, reviewerID); err != nil {
			return err
		}

		patch.Apply(task)

		if _, err := s.tasks.UpdateTask(ctx, tx, task); err != nil {
			return fmt.Errorf("%s: failed to update task: %w", op, err)
		}

		view, err = s.tasks.GetTaskView(ctx, tx, taskID)
		if err != nil {
			return fmt.Errorf("%s: failed to load task: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task updated")

	return view, nil
}

func (s *TaskServiceImpl) Delete(ctx context.Context, actor domain.Actor, taskID int64) error {
	const op = "internal.service.task.Delete"
	log := s.log.With(slog.String("op", op), slog.Int64("actor_id", actor.ID), slog.Int64("task_id", taskID))

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		task, board, err := loadTaskChain(ctx, tx, s.tasks, s.boards, taskID, repository.LockUpdate)
		if err = authorize(op, err, func() bool { return authz.CanDeleteTask(actor, task, board) }); err != nil {
			return err
		}

		if err := s.tasks.DeleteTask(ctx, tx, taskID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("task deleted")

	return nil
}

// ListAssignedToMe matches on the assignee only. Board membership is not re-checked.
func (s *TaskServiceImpl) ListAssignedToMe(ctx context.Context, actor domain.Actor) ([]domain.TaskView, error) {
	const op = "internal.service.task.ListAssignedToMe"

	return s.list(ctx, op, func(tx *sqlx.Tx) ([]domain.TaskView, error) {
		return s.tasks.ListTaskViewsByAssignee(ctx, tx, actor.ID)
	})
}

// ListReviewing matches on the reviewer only. Board membership is not re-checked.
func (s *TaskServiceImpl) ListReviewing(ctx context.Context, actor domain.Actor) ([]domain.TaskView, error) {
	const op = "internal.service.task.ListReviewing"

	return s.list(ctx, op, func(tx *sqlx.Tx) ([]domain.TaskView, error) {
		return s.tasks.ListTaskViewsByReviewer(ctx, tx, actor.ID)
	})
}

func (s *TaskServiceImpl) list(ctx context.Context, op string, fetch func(tx *sqlx.Tx) ([]domain.TaskView, error)) ([]domain.TaskView, error) {
	var views []domain.TaskView

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		views, err = fetch(tx)
		if err != nil {
			return fmt.Errorf("%s: failed to list tasks: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

// checkPeople verifies that the assignee and reviewer, when given, are the
// owner or a member of board. Offending fields are reported together.
func (s *TaskServiceImpl) checkPeople(ctx context.Context, tx *sqlx.Tx, board *domain.Board, assigneeID, reviewerID *int64) error {
	candidates := map[string]*int64{"assignee": assigneeID, "reviewer": reviewerID}

	ineligible := make(map[string]int64)

	for field, id := range candidates {
		if id != nil && !authz.IsEligibleAssignee(*id, board) {
			ineligible[field] = *id
		}
	}

	if len(ineligible) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(ineligible))
	for _, id := range ineligible {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	existing, err := s.users.ExistingUserIDs(ctx, tx, ids)
	if err != nil {
		return fmt.Errorf("failed to check users: %w", err)
	}

	known := make(map[int64]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	fields := make(map[string]string, len(ineligible))

	for field, id := range ineligible {
		if known[id] {
			fields[field] = msgNotBoardMember
		} else {
			fields[field] = msgUnknownUser
		}
	}

	return &apperrors.ValidationError{Fields: fields}
}
