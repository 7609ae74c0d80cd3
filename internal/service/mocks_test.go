package service

import (
	"context"
	"database/sql"

	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/YusovID/kanban-service/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type TransactorMock struct {
	mock.Mock
}

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	var tx *sqlx.Tx

	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		tx = args.Get(0).(*sqlx.Tx)
	}

	return tx, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) CreateUser(ctx context.Context, tx *sqlx.Tx, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, tx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, ext sqlx.ExtContext, email string) (*domain.User, error) {
	args := m.Called(ctx, ext, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, ext sqlx.ExtContext, userID int64) (*domain.User, error) {
	args := m.Called(ctx, ext, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) ExistingUserIDs(ctx context.Context, ext sqlx.ExtContext, ids []int64) ([]int64, error) {
	args := m.Called(ctx, ext, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]int64), args.Error(1)
}

func (m *UserRepositoryMock) DeleteUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

type TokenRepositoryMock struct {
	mock.Mock
}

var _ repository.TokenRepository = (*TokenRepositoryMock)(nil)

func (m *TokenRepositoryMock) GetOrCreateToken(ctx context.Context, tx *sqlx.Tx, userID int64) (string, error) {
	args := m.Called(ctx, tx, userID)
	return args.String(0), args.Error(1)
}

func (m *TokenRepositoryMock) GetUserByToken(ctx context.Context, ext sqlx.ExtContext, key string) (*domain.User, error) {
	args := m.Called(ctx, ext, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *TokenRepositoryMock) DeleteUserTokens(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

type BoardRepositoryMock struct {
	mock.Mock
}

var _ repository.BoardRepository = (*BoardRepositoryMock)(nil)

func (m *BoardRepositoryMock) CreateBoard(ctx context.Context, tx *sqlx.Tx, board *domain.Board) (*domain.Board, error) {
	args := m.Called(ctx, tx, board)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Board), args.Error(1)
}

func (m *BoardRepositoryMock) UpdateBoardTitle(ctx context.Context, tx *sqlx.Tx, boardID int64, title string) error {
	args := m.Called(ctx, tx, boardID, title)
	return args.Error(0)
}

func (m *BoardRepositoryMock) SetBoardMembers(ctx context.Context, tx *sqlx.Tx, boardID int64, userIDs []int64) error {
	args := m.Called(ctx, tx, boardID, userIDs)
	return args.Error(0)
}

func (m *BoardRepositoryMock) GetBoard(ctx context.Context, ext sqlx.ExtContext, boardID int64, lock repository.LockMode) (*domain.Board, error) {
	args := m.Called(ctx, ext, boardID, lock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Board), args.Error(1)
}

func (m *BoardRepositoryMock) GetBoardSummary(ctx context.Context, ext sqlx.ExtContext, boardID int64) (*domain.BoardSummary, error) {
	args := m.Called(ctx, ext, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.BoardSummary), args.Error(1)
}

func (m *BoardRepositoryMock) ListBoardSummaries(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.BoardSummary, error) {
	args := m.Called(ctx, ext, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.BoardSummary), args.Error(1)
}

func (m *BoardRepositoryMock) GetBoardMembers(ctx context.Context, ext sqlx.ExtContext, boardID int64) ([]domain.UserSummary, error) {
	args := m.Called(ctx, ext, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.UserSummary), args.Error(1)
}

func (m *BoardRepositoryMock) DeleteBoard(ctx context.Context, tx *sqlx.Tx, boardID int64) error {
	args := m.Called(ctx, tx, boardID)
	return args.Error(0)
}

type TaskRepositoryMock struct {
	mock.Mock
}

var _ repository.TaskRepository = (*TaskRepositoryMock)(nil)

func (m *TaskRepositoryMock) CreateTask(ctx context.Context, tx *sqlx.Tx, task *domain.Task) (*domain.Task, error) {
	args := m.Called(ctx, tx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskRepositoryMock) UpdateTask(ctx context.Context, tx *sqlx.Tx, task *domain.Task) (*domain.Task, error) {
	args := m.Called(ctx, tx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskRepositoryMock) GetTask(ctx context.Context, ext sqlx.ExtContext, taskID int64, lock repository.LockMode) (*domain.Task, error) {
	args := m.Called(ctx, ext, taskID, lock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskRepositoryMock) GetTaskView(ctx context.Context, ext sqlx.ExtContext, taskID int64) (*domain.TaskView, error) {
	args := m.Called(ctx, ext, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.TaskView), args.Error(1)
}

func (m *TaskRepositoryMock) ListTaskViewsByBoard(ctx context.Context, ext sqlx.ExtContext, boardID int64) ([]domain.TaskView, error) {
	args := m.Called(ctx, ext, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.TaskView), args.Error(1)
}

func (m *TaskRepositoryMock) ListTaskViewsByAssignee(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.TaskView, error) {
	args := m.Called(ctx, ext, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.TaskView), args.Error(1)
}

func (m *TaskRepositoryMock) ListTaskViewsByReviewer(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.TaskView, error) {
	args := m.Called(ctx, ext, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.TaskView), args.Error(1)
}

func (m *TaskRepositoryMock) DeleteTask(ctx context.Context, tx *sqlx.Tx, taskID int64) error {
	args := m.Called(ctx, tx, taskID)
	return args.Error(0)
}

type CommentRepositoryMock struct {
	mock.Mock
}

var _ repository.CommentRepository = (*CommentRepositoryMock)(nil)

func (m *CommentRepositoryMock) ListComments(ctx context.Context, ext sqlx.ExtContext, taskID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, ext, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *CommentRepositoryMock) CreateComment(ctx context.Context, tx *sqlx.Tx, comment *domain.Comment) (*domain.Comment, error) {
	args := m.Called(ctx, tx, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *CommentRepositoryMock) GetComment(ctx context.Context, ext sqlx.ExtContext, taskID, commentID int64) (*domain.Comment, error) {
	args := m.Called(ctx, ext, taskID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *CommentRepositoryMock) DeleteComment(ctx context.Context, tx *sqlx.Tx, commentID int64) error {
	args := m.Called(ctx, tx, commentID)
	return args.Error(0)
}
