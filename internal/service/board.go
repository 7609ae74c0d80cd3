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

type BoardService interface {
	Create(ctx context.Context, actor domain.Actor, in domain.BoardInput) (*domain.BoardSummary, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.BoardSummary, error)
	Get(ctx context.Context, actor domain.Actor, boardID int64) (*domain.BoardDetail, error)
	Update(ctx context.Context, actor domain.Actor, boardID int64, patch domain.BoardPatch) (*domain.BoardDetail, error)
	Delete(ctx context.Context, actor domain.Actor, boardID int64) error
}

type BoardServiceImpl struct {
	BaseService
	boards repository.BoardRepository
	users  repository.UserRepository
	tasks  repository.TaskRepository
}

func NewBoardService(
	db Transactor,
	log *slog.Logger,
	boards repository.BoardRepository,
	users repository.UserRepository,
	tasks repository.TaskRepository,
) *BoardServiceImpl {
	return &BoardServiceImpl{
		BaseService: NewBaseService(db, log),
		boards:      boards,
		users:       users,
		tasks:       tasks,
	}
}

func (s *BoardServiceImpl) Create(ctx context.Context, actor domain.Actor, in domain.BoardInput) (*domain.BoardSummary, error) {
	const op = "internal.service.board.Create"
	log := s.log.With(slog.String("op", op), slog.Int64("actor_id", actor.ID))

	in.Title = strings.TrimSpace(in.Title)
	if err := validation.ValidateRules(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var summary *domain.BoardSummary

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		board, err := s.boards.CreateBoard(ctx, tx, &domain.Board{Title: in.Title, OwnerID: actor.ID})
		if err != nil {
			return fmt.Errorf("%s: failed to create board: %w", op, err)
		}

		if err := s.replaceMembers(ctx, tx, board.ID, in.MemberIDs); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		summary, err = s.boards.GetBoardSummary(ctx, tx, board.ID)
		if err != nil {
			return fmt.Errorf("%s: failed to load board summary: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("board created", slog.Int64("board_id", summary.ID), slog.Int("members", summary.MemberCount))

	return summary, nil
}

func (s *BoardServiceImpl) List(ctx context.Context, actor domain.Actor) ([]domain.BoardSummary, error) {
	const op = "internal.service.board.List"

	var summaries []domain.BoardSummary

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		summaries, err = s.boards.ListBoardSummaries(ctx, tx, actor.ID)
		if err != nil {
			return fmt.Errorf("%s: failed to list boards: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

func (s *BoardServiceImpl) Get(ctx context.Context, actor domain.Actor, boardID int64) (*domain.BoardDetail, error) {
	const op = "internal.service.board.Get"

	var detail *domain.BoardDetail

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		board, err := s.boards.GetBoard(ctx, tx, boardID, repository.LockNone)
		if err = authorize(op, err, func() bool { return authz.CanViewBoard(actor, board) }); err != nil {
			return err
		}

		detail, err = s.loadDetail(ctx, tx, board)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *BoardServiceImpl) Update(ctx context.Context, actor domain.Actor, boardID int64, patch domain.BoardPatch) (*domain.BoardDetail, error) {
	const op = "internal.service.board.Update"
	log := s.log.With(slog.String("op", op), slog.Int64("actor_id", actor.ID), slog.Int64("board_id", boardID))

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}

	if err := validation.ValidateRules(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var detail *domain.BoardDetail

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		board, err := s.boards.GetBoard(ctx, tx, boardID, repository.LockUpdate)
		if err = authorize(op, err, func() bool { return authz.CanMutateBoardContents(actor, board) }); err != nil {
			return err
		}

		if patch.Title != nil {
			if err := s.boards.UpdateBoardTitle(ctx, tx, boardID, *patch.Title); err != nil {
				return fmt.Errorf("%s: failed to update title: %w", op, err)
			}
		}

		if patch.MembersSet {
			if err := s.replaceMembers(ctx, tx, boardID, patch.MemberIDs); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		board, err = s.boards.GetBoard(ctx, tx, boardID, repository.LockNone)
		if err != nil {
			return fmt.Errorf("%s: failed to reload board: %w", op, err)
		}

		detail, err = s.loadDetail(ctx, tx, board)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("board updated", slog.Bool("members_replaced", patch.MembersSet))

	return detail, nil
}

func (s *BoardServiceImpl) Delete(ctx context.Context, actor domain.Actor, boardID int64) error {
	const op = "internal.service.board.Delete"
	log := s.log.With(slog.String("op", op), slog.Int64("actor_id", actor.ID), slog.Int64("board_id", boardID))

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		board, err := s.boards.GetBoard(ctx, tx, boardID, repository.LockUpdate)
		if err = authorize(op, err, func() bool { return authz.CanDeleteBoard(actor, board) }); err != nil {
			return err
		}

		if err := s.boards.DeleteBoard(ctx, tx, boardID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("board deleted")

	return nil
}

// replaceMembers sets the member set to the ids that belong to existing users.
// Unknown ids are dropped silently.
func (s *BoardServiceImpl) replaceMembers(ctx context.Context, tx *sqlx.Tx, boardID int64, memberIDs []int64) error {
	existing, err := s.users.ExistingUserIDs(ctx, tx, memberIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve members: %w", err)
	}

	if err := s.boards.SetBoardMembers(ctx, tx, boardID, existing); err != nil {
		return fmt.Errorf("failed to set members: %w", err)
	}

	return nil
}

func (s *BoardServiceImpl) loadDetail(ctx context.Context, tx *sqlx.Tx, board *domain.Board) (*domain.BoardDetail, error) {
	summary, err := s.boards.GetBoardSummary(ctx, tx, board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load counts: %w", err)
	}

	owner, err := s.users.GetUserByID(ctx, tx, board.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}

	members, err := s.boards.GetBoardMembers(ctx, tx, board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	tasks, err := s.tasks.ListTaskViewsByBoard(ctx, tx, board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	return &domain.BoardDetail{
		Board:       *board,
		BoardCounts: summary.BoardCounts,
		Owner:       owner.Summary(),
		Members:     members,
		Tasks:       tasks,
	}, nil
}
