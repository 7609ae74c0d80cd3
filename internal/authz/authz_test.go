package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/domain"
)

var (
	owner    = domain.Actor{ID: 1}
	member   = domain.Actor{ID: 2}
	outsider = domain.Actor{ID: 3}
	staff    = domain.Actor{ID: 4, IsStaff: true}
)

func newBoard(memberIDs ...int64) *domain.Board {
	return &domain.Board{ID: 10, Title: "Sprint 1", OwnerID: owner.ID, MemberIDs: memberIDs}
}

func TestBoardPredicates(t *testing.T) {
	board := newBoard(member.ID)

	testCases := []struct {
		name      string
		actor     domain.Actor
		owner     bool
		member    bool
		canDelete bool
	}{
		{name: "Owner", actor: owner, owner: true, member: true, canDelete: true},
		{name: "Member", actor: member, owner: false, member: true, canDelete: false},
		{name: "Outsider", actor: outsider, owner: false, member: false, canDelete: false},
		{name: "Staff gets no board rights", actor: staff, owner: false, member: false, canDelete: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.owner, IsBoardOwner(tc.actor, board))
			assert.Equal(t, tc.member, IsBoardMember(tc.actor, board))
			assert.Equal(t, tc.member, CanViewBoard(tc.actor, board))
			assert.Equal(t, tc.member, CanMutateBoardContents(tc.actor, board))
			assert.Equal(t, tc.member, CanCreateTask(tc.actor, board))
			assert.Equal(t, tc.canDelete, CanDeleteBoard(tc.actor, board))
		})
	}
}

func TestCanViewBoard_OwnerNeedNotBeListed(t *testing.T) {
	board := newBoard()

	assert.True(t, CanViewBoard(owner, board))
	assert.False(t, CanViewBoard(member, board))

	board.MemberIDs = []int64{owner.ID, member.ID}
	assert.True(t, CanViewBoard(owner, board))
	assert.True(t, CanViewBoard(member, board))
}

func TestTaskPredicates(t *testing.T) {
	board := newBoard(member.ID, 5)
	task := &domain.Task{ID: 100, BoardID: board.ID, CreatedByID: member.ID}
	otherMembersTask := &domain.Task{ID: 101, BoardID: board.ID, CreatedByID: 5}

	// Broad mutate rights.
	assert.True(t, CanMutateTask(owner, task, board))
	assert.True(t, CanMutateTask(member, otherMembersTask, board))
	assert.False(t, CanMutateTask(outsider, task, board))

	// Narrow delete rights.
	assert.True(t, CanDeleteTask(member, task, board), "creator may delete")
	assert.True(t, CanDeleteTask(owner, task, board), "board owner may delete")
	assert.False(t, CanDeleteTask(member, otherMembersTask, board), "other members may not delete")
	assert.False(t, CanDeleteTask(outsider, task, board))

	assert.True(t, CanViewTaskComments(member, task, board))
	assert.False(t, CanViewTaskComments(outsider, task, board))
}

func TestCanDeleteTask_CreatorRemovedFromBoard(t *testing.T) {
	board := newBoard()
	task := &domain.Task{ID: 100, BoardID: board.ID, CreatedByID: member.ID}

	assert.True(t, CanDeleteTask(member, task, board))
	assert.False(t, CanMutateTask(member, task, board))
}

func TestCanDeleteComment(t *testing.T) {
	comment := &domain.Comment{ID: 1, TaskID: 100, AuthorID: member.ID}

	assert.True(t, CanDeleteComment(member, comment))
	assert.False(t, CanDeleteComment(owner, comment), "board owner must not delete others' comments")
	assert.False(t, CanDeleteComment(staff, comment))
}

func TestIsEligibleAssignee(t *testing.T) {
	board := newBoard(member.ID)

	assert.True(t, IsEligibleAssignee(owner.ID, board))
	assert.True(t, IsEligibleAssignee(member.ID, board))
	assert.False(t, IsEligibleAssignee(outsider.ID, board))
}

func TestCanDeleteUser(t *testing.T) {
	assert.True(t, CanDeleteUser(member, member.ID))
	assert.True(t, CanDeleteUser(staff, member.ID))
	assert.False(t, CanDeleteUser(outsider, member.ID))
}

func TestDecide(t *testing.T) {
	testCases := []struct {
		found, allowed bool
		want           Outcome
		wantErr        error
	}{
		{found: false, allowed: false, want: NotFound, wantErr: apperrors.ErrNotFound},
		{found: false, allowed: true, want: NotFound, wantErr: apperrors.ErrNotFound},
		{found: true, allowed: false, want: Forbidden, wantErr: apperrors.ErrForbidden},
		{found: true, allowed: true, want: Allowed, wantErr: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.want.String(), func(t *testing.T) {
			got := Decide(tc.found, tc.allowed)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantErr, got.Err())
		})
	}
}
