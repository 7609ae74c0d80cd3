package service

import (
	"context"
	"testing"

	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/domain"
	"github.com/YusovID/kanban-service/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type taskMocks struct {
	transactor *TransactorMock
	tasks      *TaskRepositoryMock
	boards     *BoardRepositoryMock
	users      *UserRepositoryMock
}

func newTaskMocks() taskMocks {
	return taskMocks{
		transactor: new(TransactorMock),
		tasks:      new(TaskRepositoryMock),
		boards:     new(BoardRepositoryMock),
		users:      new(UserRepositoryMock),
	}
}

func (m taskMocks) service() *TaskServiceImpl {
	return NewTaskService(m.transactor, logger, m.tasks, m.boards, m.users)
}

// expectChain wires the board-then-task locking reads for an existing task.
func (m taskMocks) expectChain(ctx context.Context, tx *sqlx.Tx, task *domain.Task, board *domain.Board, lock repository.LockMode) {
	m.tasks.On("GetTask", ctx, tx, task.ID, repository.LockNone).Return(task, nil).Once()
	m.boards.On("GetBoard", ctx, tx, board.ID, repository.LockShare).Return(board, nil).Once()
	m.tasks.On("GetTask", ctx, tx, task.ID, lock).Return(task, nil).Once()
}

func fixBugTask() *domain.Task {
	return &domain.Task{
		ID:          100,
		BoardID:     10,
		Title:       "Fix bug",
		Status:      domain.TaskStatusToDo,
		Priority:    domain.TaskPriorityHigh,
		CreatedByID: memberActor.ID,
	}
}

func TestTaskServiceImpl_Create(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		actor      domain.Actor
		input      domain.TaskInput
		setupMocks func(t *testing.T, m taskMocks)
		wantErr    error
		wantFields map[string]string
	}{
		{
			name:  "Member creates with defaults",
			actor: memberActor,
			input: domain.TaskInput{BoardID: 10, Title: "Fix bug", AssigneeID: ptr(ownerActor.ID)},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, true)
				m.boards.On("GetBoard", ctx, tx, int64(10), repository.LockShare).Return(sprintBoard(), nil).Once()
				m.tasks.On("CreateTask", ctx, tx, mock.MatchedBy(func(task *domain.Task) bool {
					return task.CreatedByID == memberActor.ID &&
						task.Status == domain.TaskStatusToDo &&
						task.Priority == domain.TaskPriorityMedium &&
						*task.AssigneeID == ownerActor.ID
				})).Return(&domain.Task{ID: 100}, nil).Once()
				m.tasks.On("GetTaskView", ctx, tx, int64(100)).
					Return(&domain.TaskView{Task: domain.Task{ID: 100, BoardID: 10}}, nil).Once()
			},
		},
		{
			name:  "Assignee outside the board",
			actor: ownerActor,
			input: domain.TaskInput{BoardID: 10, Title: "Fix bug", AssigneeID: ptr(int64(5))},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.boards.On("GetBoard", ctx, tx, int64(10), repository.LockShare).Return(sprintBoard(), nil).Once()
				m.users.On("ExistingUserIDs", ctx, tx, []int64{5}).Return([]int64{5}, nil).Once()
			},
			wantFields: map[string]string{"assignee": msgNotBoardMember},
		},
		{
			name:  "Unknown reviewer",
			actor: ownerActor,
			input: domain.TaskInput{BoardID: 10, Title: "Fix bug", ReviewerID: ptr(int64(404))},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.boards.On("GetBoard", ctx, tx, int64(10), repository.LockShare).Return(sprintBoard(), nil).Once()
				m.users.On("ExistingUserIDs", ctx, tx, []int64{404}).Return([]int64{}, nil).Once()
			},
			wantFields: map[string]string{"reviewer": msgUnknownUser},
		},
		{
			name:  "Outsider is forbidden",
			actor: outsiderActor,
			input: domain.TaskInput{BoardID: 10, Title: "Fix bug"},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.boards.On("GetBoard", ctx, tx, int64(10), repository.LockShare).Return(sprintBoard(), nil).Once()
			},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:  "Missing board",
			actor: ownerActor,
			input: domain.TaskInput{BoardID: 10, Title: "Fix bug"},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.boards.On("GetBoard", ctx, tx, int64(10), repository.LockShare).Return(nil, apperrors.ErrNotFound).Once()
			},
			wantFields: map[string]string{"board": "board does not exist"},
		},
		{
			name:       "Invalid status",
			actor:      ownerActor,
			input:      domain.TaskInput{BoardID: 10, Title: "Fix bug", Status: "blocked"},
			setupMocks: func(*testing.T, taskMocks) {},
			wantFields: map[string]string{"status": "must be a valid value"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTaskMocks()
			tc.setupMocks(t, m)

			view, err := m.service().Create(ctx, tc.actor, tc.input)

			switch {
			case tc.wantFields != nil:
				var validationErr *apperrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tc.wantFields, validationErr.Fields)
				m.tasks.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
				m.tasks.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
			default:
				require.NoError(t, err)
				assert.Equal(t, int64(100), view.ID)
			}

			m.tasks.AssertExpectations(t)
			m.boards.AssertExpectations(t)
			m.users.AssertExpectations(t)
		})
	}
}

func TestTaskServiceImpl_Update(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		actor      domain.Actor
		patch      domain.TaskPatch
		setupMocks func(t *testing.T, m taskMocks)
		wantErr    error
		wantField  string
	}{
		{
			name:  "Any member may edit any task",
			actor: ownerActor,
			patch: domain.TaskPatch{Status: ptr(domain.TaskStatusDone), AssigneeID: ptr(memberActor.ID), AssigneeSet: true},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, true)
				m.expectChain(ctx, tx, fixBugTask(), sprintBoard(), repository.LockUpdate)
				m.tasks.On("UpdateTask", ctx, tx, mock.MatchedBy(func(task *domain.Task) bool {
					return task.Status == domain.TaskStatusDone && *task.AssigneeID == memberActor.ID
				})).Return(fixBugTask(), nil).Once()
				m.tasks.On("GetTaskView", ctx, tx, int64(100)).
					Return(&domain.TaskView{Task: domain.Task{ID: 100, Status: domain.TaskStatusDone}}, nil).Once()
			},
		},
		{
			name:  "Explicit null clears the assignee",
			actor: memberActor,
			patch: domain.TaskPatch{AssigneeSet: true},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, true)
				task := fixBugTask()
				task.AssigneeID = ptr(memberActor.ID)
				m.expectChain(ctx, tx, task, sprintBoard(), repository.LockUpdate)
				m.tasks.On("UpdateTask", ctx, tx, mock.MatchedBy(func(task *domain.Task) bool {
					return task.AssigneeID == nil
				})).Return(task, nil).Once()
				m.tasks.On("GetTaskView", ctx, tx, int64(100)).Return(&domain.TaskView{Task: *task}, nil).Once()
			},
		},
		{
			name:  "Outsider is forbidden",
			actor: outsiderActor,
			patch: domain.TaskPatch{Status: ptr(domain.TaskStatusDone)},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.expectChain(ctx, tx, fixBugTask(), sprintBoard(), repository.LockUpdate)
			},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:  "Outsider with invalid body is forbidden",
			actor: outsiderActor,
			patch: domain.TaskPatch{Status: ptr(domain.TaskStatus("blocked")), Title: ptr("")},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.expectChain(ctx, tx, fixBugTask(), sprintBoard(), repository.LockUpdate)
			},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:  "Missing task with invalid body is not found",
			actor: ownerActor,
			patch: domain.TaskPatch{Status: ptr(domain.TaskStatus("blocked"))},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.tasks.On("GetTask", ctx, tx, int64(100), repository.LockNone).Return(nil, apperrors.ErrNotFound).Once()
			},
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:  "Member with invalid status",
			actor: memberActor,
			patch: domain.TaskPatch{Status: ptr(domain.TaskStatus("blocked"))},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.expectChain(ctx, tx, fixBugTask(), sprintBoard(), repository.LockUpdate)
			},
			wantField: "status",
		},
		{
			name:  "Task deleted while waiting for the lock",
			actor: ownerActor,
			patch: domain.TaskPatch{Status: ptr(domain.TaskStatusDone)},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.tasks.On("GetTask", ctx, tx, int64(100), repository.LockNone).Return(fixBugTask(), nil).Once()
				m.boards.On("GetBoard", ctx, tx, int64(10), repository.LockShare).Return(sprintBoard(), nil).Once()
				m.tasks.On("GetTask", ctx, tx, int64(100), repository.LockUpdate).Return(nil, apperrors.ErrNotFound).Once()
			},
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:  "Board cannot move",
			actor: ownerActor,
			patch: domain.TaskPatch{BoardID: ptr(int64(11))},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.expectChain(ctx, tx, fixBugTask(), sprintBoard(), repository.LockUpdate)
			},
			wantField: "board",
		},
		{
			name:  "Reviewer outside the board",
			actor: ownerActor,
			patch: domain.TaskPatch{ReviewerID: ptr(outsiderActor.ID), ReviewerSet: true},
			setupMocks: func(t *testing.T, m taskMocks) {
				tx := expectTx(t, m.transactor, false)
				m.expectChain(ctx, tx, fixBugTask(), sprintBoard(), repository.LockUpdate)
				m.users.On("ExistingUserIDs", ctx, tx, []int64{outsiderActor.ID}).Return([]int64{outsiderActor.ID}, nil).Once()
			},
			wantField: "reviewer",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTaskMocks()
			tc.setupMocks(t, m)

			view, err := m.service().Update(ctx, tc.actor, 100, tc.patch)

			switch {
			case tc.wantField != "":
				var validationErr *apperrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Contains(t, validationErr.Fields, tc.wantField)
				m.tasks.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
				m.tasks.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
			default:
				require.NoError(t, err)
				assert.Equal(t, int64(100), view.ID)
			}

			m.tasks.AssertExpectations(t)
			m.boards.AssertExpectations(t)
			m.users.AssertExpectations(t)
		})
	}
}

func TestTaskServiceImpl_Delete(t *testing.T) {
	ctx := context.Background()

	otherMember := domain.Actor{ID: 7}
	board := &domain.Board{ID: 10, OwnerID: ownerActor.ID, MemberIDs: []int64{memberActor.ID, otherMember.ID}}

	testCases := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{name: "Creator deletes", actor: memberActor},
		{name: "Board owner deletes", actor: ownerActor},
		{name: "Other member may edit but not delete", actor: otherMember, wantErr: apperrors.ErrForbidden},
		{name: "Outsider", actor: outsiderActor, wantErr: apperrors.ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTaskMocks()
			tx := expectTx(t, m.transactor, tc.wantErr == nil)
			m.expectChain(ctx, tx, fixBugTask(), board, repository.LockUpdate)

			if tc.wantErr == nil {
				m.tasks.On("DeleteTask", ctx, tx, int64(100)).Return(nil).Once()
			}

			err := m.service().Delete(ctx, tc.actor, 100)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				m.tasks.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}

			m.tasks.AssertExpectations(t)
		})
	}

	t.Run("Missing task", func(t *testing.T) {
		m := newTaskMocks()
		tx := expectTx(t, m.transactor, false)
		m.tasks.On("GetTask", ctx, tx, int64(100), repository.LockNone).Return(nil, apperrors.ErrNotFound).Once()

		err := m.service().Delete(ctx, outsiderActor, 100)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestTaskServiceImpl_Lists(t *testing.T) {
	ctx := context.Background()

	m := newTaskMocks()
	tx := expectTx(t, m.transactor, true)
	m.tasks.On("ListTaskViewsByAssignee", ctx, tx, memberActor.ID).
		Return([]domain.TaskView{{Task: domain.Task{ID: 1}}}, nil).Once()

	assigned, err := m.service().ListAssignedToMe(ctx, memberActor)
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	m = newTaskMocks()
	tx = expectTx(t, m.transactor, true)
	m.tasks.On("ListTaskViewsByReviewer", ctx, tx, memberActor.ID).Return([]domain.TaskView{}, nil).Once()

	reviewing, err := m.service().ListReviewing(ctx, memberActor)
	require.NoError(t, err)
	assert.Empty(t, reviewing)
}
