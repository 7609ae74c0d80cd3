package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// deleteBoards removes the boards with their tasks, the comments of those
// tasks and the member rows, children first. It returns the number of board
// rows removed.
func deleteBoards(ctx context.Context, tx *sqlx.Tx, b sq.StatementBuilderType, boardIDs []int64) (int64, error) {
	if len(boardIDs) == 0 {
		return 0, nil
	}

	ids := pq.Array(boardIDs)

	steps := []sq.DeleteBuilder{
		b.Delete("comments").Where(sq.Expr("task_id IN (SELECT id FROM tasks WHERE board_id = ANY(?))", ids)),
		b.Delete("tasks").Where(sq.Expr("board_id = ANY(?)", ids)),
		b.Delete("board_members").Where(sq.Expr("board_id = ANY(?)", ids)),
	}

	for _, step := range steps {
		if _, err := execDelete(ctx, tx, step); err != nil {
			return 0, err
		}
	}

	return execDelete(ctx, tx, b.Delete("boards").Where(sq.Expr("id = ANY(?)", ids)))
}

// deleteTasks removes the tasks whose column equals value, with their comments.
// column is always a constant from this package.
func deleteTasks(ctx context.Context, tx *sqlx.Tx, b sq.StatementBuilderType, column string, value int64) (int64, error) {
	comments := b.Delete("comments").
		Where(sq.Expr(fmt.Sprintf("task_id IN (SELECT id FROM tasks WHERE %s = ?)", column), value))

	if _, err := execDelete(ctx, tx, comments); err != nil {
		return 0, err
	}

	return execDelete(ctx, tx, b.Delete("tasks").Where(sq.Eq{column: value}))
}

func execDelete(ctx context.Context, tx *sqlx.Tx, builder sq.DeleteBuilder) (int64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}
