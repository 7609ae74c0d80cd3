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
	"github.com/YusovID/kanban-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

// boardCountColumns derive the board counters from the current rows of
// board_members and tasks. Nothing here is ever stored.
var boardCountColumns = []string{
	"(SELECT COUNT(*) FROM board_members bm WHERE bm.board_id = b.id) AS member_count",
	"(SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id) AS ticket_count",
	fmt.Sprintf("(SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id AND t.status = '%s') AS tasks_to_do_count", domain.TaskStatusToDo),
	fmt.Sprintf("(SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id AND t.priority = '%s') AS tasks_high_prio_count", domain.TaskPriorityHigh),
}

type BoardRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewBoardRepository(log *slog.Logger) *BoardRepository {
	return &BoardRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (br *BoardRepository) CreateBoard(ctx context.Context, tx *sqlx.Tx, board *domain.Board) (*domain.Board, error) {
	const op = "internal.repository.postgres.CreateBoard"

	query, args, err := br.sq.Insert("boards").
		Columns("title", "owner_id").
		Values(board.Title, board.OwnerID).
		Suffix("RETURNING id, title, owner_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Board
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (br *BoardRepository) UpdateBoardTitle(ctx context.Context, tx *sqlx.Tx, boardID int64, title string) error {
	const op = "internal.repository.postgres.UpdateBoardTitle"

	query, args, err := br.sq.Update("boards").
		Set("title", title).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": boardID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w: board with id %d", op, apperrors.ErrNotFound, boardID)
	}

	return nil
}

func (br *BoardRepository) SetBoardMembers(ctx context.Context, tx *sqlx.Tx, boardID int64, userIDs []int64) error {
	const op = "internal.repository.postgres.SetBoardMembers"

	if _, err := execDelete(ctx, tx, br.sq.Delete("board_members").Where(sq.Eq{"board_id": boardID})); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(userIDs) == 0 {
		return nil
	}

	insertBuilder := br.sq.Insert("board_members").
		Columns("board_id", "user_id")

	for _, userID := range userIDs {
		insertBuilder = insertBuilder.Values(boardID, userID)
	}

	query, args, err := insertBuilder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (br *BoardRepository) GetBoard(ctx context.Context, ext sqlx.ExtContext, boardID int64, lock repository.LockMode) (*domain.Board, error) {
	const op = "internal.repository.postgres.GetBoard"

	builder := br.sq.Select("id", "title", "owner_id", "created_at", "updated_at").
		From("boards").
		Where(sq.Eq{"id": boardID})

	if lock != repository.LockNone {
		builder = builder.Suffix(lock.Suffix())
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var board domain.Board
	if err := sqlx.GetContext(ctx, ext, &board, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: board with id %d", op, apperrors.ErrNotFound, boardID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	membersQuery, args, err := br.sq.Select("user_id").
		From("board_members").
		Where(sq.Eq{"board_id": boardID}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build members query: %w", op, err)
	}

	board.MemberIDs = []int64{}
	if err := sqlx.SelectContext(ctx, ext, &board.MemberIDs, membersQuery, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select member ids: %w", op, err)
	}

	return &board, nil
}

func (br *BoardRepository) summarySelect() sq.SelectBuilder {
	columns := append([]string{"b.id", "b.title", "b.owner_id"}, boardCountColumns...)

	return br.sq.Select(columns...).From("boards b")
}

func (br *BoardRepository) GetBoardSummary(ctx context.Context, ext sqlx.ExtContext, boardID int64) (*domain.BoardSummary, error) {
	const op = "internal.repository.postgres.GetBoardSummary"

	query, args, err := br.summarySelect().
		Where(sq.Eq{"b.id": boardID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var summary domain.BoardSummary
	if err := sqlx.GetContext(ctx, ext, &summary, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: board with id %d", op, apperrors.ErrNotFound, boardID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &summary, nil
}

func (br *BoardRepository) ListBoardSummaries(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.BoardSummary, error) {
	const op = "internal.repository.postgres.ListBoardSummaries"

	query, args, err := br.summarySelect().
		Where(sq.Or{
			sq.Eq{"b.owner_id": userID},
			sq.Expr("EXISTS (SELECT 1 FROM board_members m WHERE m.board_id = b.id AND m.user_id = ?)", userID),
		}).
		OrderBy("b.created_at DESC", "b.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	summaries := []domain.BoardSummary{}
	if err := sqlx.SelectContext(ctx, ext, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return summaries, nil
}

func (br *BoardRepository) GetBoardMembers(ctx context.Context, ext sqlx.ExtContext, boardID int64) ([]domain.UserSummary, error) {
	const op = "internal.repository.postgres.GetBoardMembers"

	query, args, err := br.sq.Select("u.id", "u.email", "u.fullname").
		From("board_members bm").
		Join("users u ON u.id = bm.user_id").
		Where(sq.Eq{"bm.board_id": boardID}).
		OrderBy("u.email").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	members := []domain.UserSummary{}
	if err := sqlx.SelectContext(ctx, ext, &members, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return members, nil
}

func (br *BoardRepository) DeleteBoard(ctx context.Context, tx *sqlx.Tx, boardID int64) error {
	const op = "internal.repository.postgres.DeleteBoard"

	affected, err := deleteBoards(ctx, tx, br.sq, []int64{boardID})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w: board with id %d", op, apperrors.ErrNotFound, boardID)
	}

	br.log.Debug("board deleted", slog.String("op", op), slog.Int64("board_id", boardID))

	return nil
}
