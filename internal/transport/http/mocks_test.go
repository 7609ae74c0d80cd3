package http

import (
	"context"

	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/YusovID/kanban-service/internal/service"
	"github.com/stretchr/testify/mock"
)

var (
	_ service.AuthService    = (*AuthServiceMock)(nil)
	_ service.BoardService   = (*BoardServiceMock)(nil)
	_ service.TaskService    = (*TaskServiceMock)(nil)
	_ service.CommentService = (*CommentServiceMock)(nil)
	_ Pinger                 = (*PingerMock)(nil)
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, in domain.Registration) (*domain.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *AuthServiceMock) Resolve(ctx context.Context, token string) (domain.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Actor), args.Error(1)
}

func (m *AuthServiceMock) Logout(ctx context.Context, actor domain.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

func (m *AuthServiceMock) CheckEmail(ctx context.Context, actor domain.Actor, email string) (*domain.UserSummary, error) {
	args := m.Called(ctx, actor, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.UserSummary), args.Error(1)
}

func (m *AuthServiceMock) DeleteUser(ctx context.Context, actor domain.Actor, userID int64) error {
	args := m.Called(ctx, actor, userID)
	return args.Error(0)
}

type BoardServiceMock struct {
	mock.Mock
}

func (m *BoardServiceMock) Create(ctx context.Context, actor domain.Actor, in domain.BoardInput) (*domain.BoardSummary, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.BoardSummary), args.Error(1)
}

func (m *BoardServiceMock) List(ctx context.Context, actor domain.Actor) ([]domain.BoardSummary, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.BoardSummary), args.Error(1)
}

func (m *BoardServiceMock) Get(ctx context.Context, actor domain.Actor, boardID int64) (*domain.BoardDetail, error) {
	args := m.Called(ctx, actor, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.BoardDetail), args.Error(1)
}

func (m *BoardServiceMock) Update(ctx context.Context, actor domain.Actor, boardID int64, patch domain.BoardPatch) (*domain.BoardDetail, error) {
	args := m.Called(ctx, actor, boardID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.BoardDetail), args.Error(1)
}

func (m *BoardServiceMock) Delete(ctx context.Context, actor domain.Actor, boardID int64) error {
	args := m.Called(ctx, actor, boardID)
	return args.Error(0)
}

type TaskServiceMock struct {
	mock.Mock
}

func (m *TaskServiceMock) Create(ctx context.Context, actor domain.Actor, in domain.TaskInput) (*domain.TaskView, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.TaskView), args.Error(1)
}

func (m *TaskServiceMock) Update(ctx context.Context, actor domain.Actor, taskID int64, patch domain.TaskPatch) (*domain.TaskView, error) {
	args := m.Called(ctx, actor, taskID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.TaskView), args.Error(1)
}

func (m *TaskServiceMock) Delete(ctx context.Context, actor domain.Actor, taskID int64) error {
	args := m.Called(ctx, actor, taskID)
	return args.Error(0)
}

func (m *TaskServiceMock) ListAssignedToMe(ctx context.Context, actor domain.Actor) ([]domain.TaskView, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.TaskView), args.Error(1)
}

func (m *TaskServiceMock) ListReviewing(ctx context.Context, actor domain.Actor) ([]domain.TaskView, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.TaskView), args.Error(1)
}

type CommentServiceMock struct {
	mock.Mock
}

func (m *CommentServiceMock) List(ctx context.Context, actor domain.Actor, taskID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, actor, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *CommentServiceMock) Create(ctx context.Context, actor domain.Actor, taskID int64, in domain.CommentInput) (*domain.Comment, error) {
	args := m.Called(ctx, actor, taskID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *CommentServiceMock) Delete(ctx context.Context, actor domain.Actor, taskID, commentID int64) error {
	args := m.Called(ctx, actor, taskID, commentID)
	return args.Error(0)
}

type PingerMock struct {
	mock.Mock
}

func (m *PingerMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
