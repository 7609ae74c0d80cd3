// Package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the service layer.
//
// Read methods take a sqlx.ExtContext so they can run inside a transaction (*sqlx.Tx)
// or directly on a connection (*sqlx.DB). Write methods always take a *sqlx.Tx.
// Every cascade described on a Delete method runs inside the caller's transaction.
package repository

import (
	"context"

	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

// LockMode selects the row lock taken by a locking read.
type LockMode int

const (
	LockNone LockMode = iota
	LockShare
	LockUpdate
)

// Suffix returns the SQL locking clause for the mode.
func (m LockMode) Suffix() string {
	switch m {
	case LockShare:
		return "FOR SHARE"
	case LockUpdate:
		return "FOR UPDATE"
	default:
		return ""
	}
}

// UserRepository defines the contract for user account data.
type UserRepository interface {
	// CreateUser inserts a new user and returns it with its generated id.
	// It returns *apperrors.EmailAlreadyExistsError if the email is taken (case-insensitive).
	CreateUser(ctx context.Context, tx *sqlx.Tx, user *domain.User) (*domain.User, error)

	// GetUserByEmail looks the email up case-insensitively.
	// It returns apperrors.ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, ext sqlx.ExtContext, email string) (*domain.User, error)

	// GetUserByID returns apperrors.ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, ext sqlx.ExtContext, userID int64) (*domain.User, error)

	// ExistingUserIDs returns the subset of ids that belong to existing users, ascending and without duplicates.
	ExistingUserIDs(ctx context.Context, ext sqlx.ExtContext, ids []int64) ([]int64, error)

	// DeleteUser removes the user with its tokens, authored comments, created tasks, owned boards
	// and memberships. Assignee and reviewer references to the user are cleared.
	// It returns apperrors.ErrNotFound if the user does not exist.
	DeleteUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

// TokenRepository defines the contract for opaque authentication tokens.
type TokenRepository interface {
	// GetOrCreateToken returns the user's token, creating one if the user has none.
	GetOrCreateToken(ctx context.Context, tx *sqlx.Tx, userID int64) (string, error)

	// GetUserByToken resolves a token key to its user.
	// It returns apperrors.ErrNotFound if the key is unknown.
	GetUserByToken(ctx context.Context, ext sqlx.ExtContext, key string) (*domain.User, error)

	// DeleteUserTokens removes every token of the user. Missing tokens are not an error.
	DeleteUserTokens(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

// BoardRepository defines the contract for boards and their member sets.
type BoardRepository interface {
	// CreateBoard inserts the board row and returns it with id and timestamps filled.
	// MemberIDs is ignored; use SetBoardMembers.
	CreateBoard(ctx context.Context, tx *sqlx.Tx, board *domain.Board) (*domain.Board, error)

	// UpdateBoardTitle sets the title and bumps updated_at.
	UpdateBoardTitle(ctx context.Context, tx *sqlx.Tx, boardID int64, title string) error

	// SetBoardMembers replaces the member set of the board with userIDs.
	SetBoardMembers(ctx context.Context, tx *sqlx.Tx, boardID int64, userIDs []int64) error

	// GetBoard returns the board with its member ids, taking the row lock given by lock.
	// It returns apperrors.ErrNotFound if the board does not exist.
	GetBoard(ctx context.Context, ext sqlx.ExtContext, boardID int64, lock LockMode) (*domain.Board, error)

	// GetBoardSummary returns the board with its derived counts.
	// It returns apperrors.ErrNotFound if the board does not exist.
	GetBoardSummary(ctx context.Context, ext sqlx.ExtContext, boardID int64) (*domain.BoardSummary, error)

	// ListBoardSummaries returns the boards the user owns or is a member of, newest first.
	ListBoardSummaries(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.BoardSummary, error)

	// GetBoardMembers returns the member users of the board ordered by email.
	GetBoardMembers(ctx context.Context, ext sqlx.ExtContext, boardID int64) ([]domain.UserSummary, error)

	// DeleteBoard removes the board together with its tasks, their comments and the member rows.
	// It returns apperrors.ErrNotFound if the board does not exist.
	DeleteBoard(ctx context.Context, tx *sqlx.Tx, boardID int64) error
}

// TaskRepository defines the contract for tasks.
type TaskRepository interface {
	// CreateTask inserts the task and returns it with id and timestamps filled.
	CreateTask(ctx context.Context, tx *sqlx.Tx, task *domain.Task) (*domain.Task, error)

	// UpdateTask writes every mutable column of task. The board is never changed.
	// It returns apperrors.ErrNotFound if the task does not exist.
	UpdateTask(ctx context.Context, tx *sqlx.Tx, task *domain.Task) (*domain.Task, error)

	// GetTask returns the task, taking the row lock given by lock.
	// It returns apperrors.ErrNotFound if the task does not exist.
	GetTask(ctx context.Context, ext sqlx.ExtContext, taskID int64, lock LockMode) (*domain.Task, error)

	// GetTaskView returns the task with resolved assignee, reviewer and comment count.
	GetTaskView(ctx context.Context, ext sqlx.ExtContext, taskID int64) (*domain.TaskView, error)

	// ListTaskViewsByBoard returns the tasks of a board, newest first.
	ListTaskViewsByBoard(ctx context.Context, ext sqlx.ExtContext, boardID int64) ([]domain.TaskView, error)

	// ListTaskViewsByAssignee returns the tasks assigned to the user, newest first.
	ListTaskViewsByAssignee(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.TaskView, error)

	// ListTaskViewsByReviewer returns the tasks the user reviews, newest first.
	ListTaskViewsByReviewer(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.TaskView, error)

	// DeleteTask removes the task and its comments.
	// It returns apperrors.ErrNotFound if the task does not exist.
	DeleteTask(ctx context.Context, tx *sqlx.Tx, taskID int64) error
}

// CommentRepository defines the contract for task comments.
type CommentRepository interface {
	// ListComments returns the comments of a task, oldest first, with author names resolved.
	ListComments(ctx context.Context, ext sqlx.ExtContext, taskID int64) ([]domain.Comment, error)

	// CreateComment inserts the comment and returns it with id, timestamp and author name.
	CreateComment(ctx context.Context, tx *sqlx.Tx, comment *domain.Comment) (*domain.Comment, error)

	// GetComment finds a comment by id within the given task.
	// It returns apperrors.ErrNotFound if there is no such comment under that task.
	GetComment(ctx context.Context, ext sqlx.ExtContext, taskID, commentID int64) (*domain.Comment, error)

	// DeleteComment returns apperrors.ErrNotFound if the comment does not exist.
	DeleteComment(ctx context.Context, tx *sqlx.Tx, commentID int64) error
}
