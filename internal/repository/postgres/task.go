package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/YusovID/kanban-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

var taskColumns = []string{
	"id", "board_id", "title", "description", "status", "priority",
	"assignee_id", "reviewer_id", "due_date", "created_by_id", "created_at", "updated_at",
}

type taskRow struct {
	ID          int64               `db:"id"`
	BoardID     int64               `db:"board_id"`
	Title       string              `db:"title"`
	Description string              `db:"description"`
	Status      domain.TaskStatus   `db:"status"`
	Priority    domain.TaskPriority `db:"priority"`
	AssigneeID  sql.NullInt64       `db:"assignee_id"`
	ReviewerID  sql.NullInt64       `db:"reviewer_id"`
	DueDate     sql.NullTime        `db:"due_date"`
	CreatedByID int64               `db:"created_by_id"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`
}

func (r taskRow) toDomain() *domain.Task {
	task := &domain.Task{
		ID:          r.ID,
		BoardID:     r.BoardID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		CreatedByID: r.CreatedByID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	if r.AssigneeID.Valid {
		id := r.AssigneeID.Int64
		task.AssigneeID = &id
	}

	if r.ReviewerID.Valid {
		id := r.ReviewerID.Int64
		task.ReviewerID = &id
	}

	if r.DueDate.Valid {
		d := r.DueDate.Time
		task.DueDate = &d
	}

	return task
}

type taskViewRow struct {
	taskRow
	AssigneeEmail    sql.NullString `db:"assignee_email"`
	AssigneeFullname sql.NullString `db:"assignee_fullname"`
	ReviewerEmail    sql.NullString `db:"reviewer_email"`
	ReviewerFullname sql.NullString `db:"reviewer_fullname"`
	CommentsCount    int            `db:"comments_count"`
}

func (r taskViewRow) toDomain() domain.TaskView {
	view := domain.TaskView{
		Task:          *r.taskRow.toDomain(),
		CommentsCount: r.CommentsCount,
	}

	if r.AssigneeID.Valid && r.AssigneeEmail.Valid {
		view.Assignee = &domain.UserSummary{
			ID:       r.AssigneeID.Int64,
			Email:    r.AssigneeEmail.String,
			Fullname: r.AssigneeFullname.String,
		}
	}

	if r.ReviewerID.Valid && r.ReviewerEmail.Valid {
		view.Reviewer = &domain.UserSummary{
			ID:       r.ReviewerID.Int64,
			Email:    r.ReviewerEmail.String,
			Fullname: r.ReviewerFullname.String,
		}
	}

	return view
}

type TaskRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTaskRepository(log *slog.Logger) *TaskRepository {
	return &TaskRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (tr *TaskRepository) CreateTask(ctx context.Context, tx *sqlx.Tx, task *domain.Task) (*domain.Task, error) {
	const op = "internal.repository.postgres.CreateTask"

	query, args, err := tr.sq.Insert("tasks").
		Columns("board_id", "title", "description", "status", "priority",
			"assignee_id", "reviewer_id", "due_date", "created_by_id").
		Values(task.BoardID, task.Title, task.Description, task.Status, task.Priority,
			task.AssigneeID, task.ReviewerID, task.DueDate, task.CreatedByID).
		Suffix("RETURNING " + strings.Join(taskColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var row taskRow
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return row.toDomain(), nil
}

func (tr *TaskRepository) UpdateTask(ctx context.Context, tx *sqlx.Tx, task *domain.Task) (*domain.Task, error) {
	const op = "internal.repository.postgres.UpdateTask"

	query, args, err := tr.sq.Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("status", task.Status).
		Set("priority", task.Priority).
		Set("assignee_id", task.AssigneeID).
		Set("reviewer_id", task.ReviewerID).
		Set("due_date", task.DueDate).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": task.ID}).
		Suffix("RETURNING " + strings.Join(taskColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var row taskRow
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: task with id %d", op, apperrors.ErrNotFound, task.ID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return row.toDomain(), nil
}

func (tr *TaskRepository) GetTask(ctx context.Context, ext sqlx.ExtContext, taskID int64, lock repository.LockMode) (*domain.Task, error) {
	const op = "internal.repository.postgres.GetTask"

	builder := tr.sq.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID})

	if lock != repository.LockNone {
		builder = builder.Suffix(lock.Suffix())
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row taskRow
	if err := sqlx.GetContext(ctx, ext, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: task with id %d", op, apperrors.ErrNotFound, taskID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return row.toDomain(), nil
}

func (tr *TaskRepository) viewSelect() sq.SelectBuilder {
	columns := make([]string, 0, len(taskColumns)+5)
	for _, c := range taskColumns {
		columns = append(columns, "t."+c)
	}

	columns = append(columns,
		"a.email AS assignee_email",
		"a.fullname AS assignee_fullname",
		"r.email AS reviewer_email",
		"r.fullname AS reviewer_fullname",
		"(SELECT COUNT(*) FROM comments c WHERE c.task_id = t.id) AS comments_count",
	)

	return tr.sq.Select(columns...).
		From("tasks t").
		LeftJoin("users a ON a.id = t.assignee_id").
		LeftJoin("users r ON r.id = t.reviewer_id")
}

func (tr *TaskRepository) GetTaskView(ctx context.Context, ext sqlx.ExtContext, taskID int64) (*domain.TaskView, error) {
	const op = "internal.repository.postgres.GetTaskView"

	query, args, err := tr.viewSelect().
		Where(sq.Eq{"t.id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row taskViewRow
	if err := sqlx.GetContext(ctx, ext, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: task with id %d", op, apperrors.ErrNotFound, taskID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	view := row.toDomain()

	return &view, nil
}

func (tr *TaskRepository) listViews(ctx context.Context, ext sqlx.ExtContext, op string, where sq.Eq) ([]domain.TaskView, error) {
	query, args, err := tr.viewSelect().
		Where(where).
		OrderBy("t.created_at DESC", "t.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []taskViewRow
	if err := sqlx.SelectContext(ctx, ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	views := make([]domain.TaskView, len(rows))
	for i, row := range rows {
		views[i] = row.toDomain()
	}

	return views, nil
}

func (tr *TaskRepository) ListTaskViewsByBoard(ctx context.Context, ext sqlx.ExtContext, boardID int64) ([]domain.TaskView, error) {
	return tr.listViews(ctx, ext, "internal.repository.postgres.ListTaskViewsByBoard", sq.Eq{"t.board_id": boardID})
}

func (tr *TaskRepository) ListTaskViewsByAssignee(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.TaskView, error) {
	return tr.listViews(ctx, ext, "internal.repository.postgres.ListTaskViewsByAssignee", sq.Eq{"t.assignee_id": userID})
}

func (tr *TaskRepository) ListTaskViewsByReviewer(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.TaskView, error) {
	return tr.listViews(ctx, ext, "internal.repository.postgres.ListTaskViewsByReviewer", sq.Eq{"t.reviewer_id": userID})
}

func (tr *TaskRepository) DeleteTask(ctx context.Context, tx *sqlx.Tx, taskID int64) error {
	const op = "internal.repository.postgres.DeleteTask"

	affected, err := deleteTasks(ctx, tx, tr.sq, "id", taskID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w: task with id %d", op, apperrors.ErrNotFound, taskID)
	}

	return nil
}
