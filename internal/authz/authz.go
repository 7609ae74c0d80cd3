// Package authz holds the authorization and visibility rules for boards, tasks
// and comments.
//
// Every function is pure: callers load the target entity together with its
// owning board and pass the acting user explicitly. Membership gates reading
// and most writes; deletion rules are narrower and differ per entity.
package authz

import (
	"slices"

	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/domain"
)

func IsBoardOwner(actor domain.Actor, board *domain.Board) bool {
	return board.OwnerID == actor.ID
}

// IsBoardMember reports whether actor is the owner or in the member set.
func IsBoardMember(actor domain.Actor, board *domain.Board) bool {
	return IsBoardOwner(actor, board) || slices.Contains(board.MemberIDs, actor.ID)
}

func CanViewBoard(actor domain.Actor, board *domain.Board) bool {
	return IsBoardMember(actor, board)
}

func CanDeleteBoard(actor domain.Actor, board *domain.Board) bool {
	return IsBoardOwner(actor, board)
}

// CanMutateBoardContents covers title and member changes. Members may do both.
func CanMutateBoardContents(actor domain.Actor, board *domain.Board) bool {
	return IsBoardMember(actor, board)
}

func CanCreateTask(actor domain.Actor, board *domain.Board) bool {
	return IsBoardMember(actor, board)
}

// CanMutateTask lets any member of the task's board edit the task.
func CanMutateTask(actor domain.Actor, _ *domain.Task, board *domain.Board) bool {
	return IsBoardMember(actor, board)
}

// CanDeleteTask is limited to the task creator and the board owner.
func CanDeleteTask(actor domain.Actor, task *domain.Task, board *domain.Board) bool {
	return task.CreatedByID == actor.ID || IsBoardOwner(actor, board)
}

// CanViewTaskComments also gates commenting: read access is enough to comment.
func CanViewTaskComments(actor domain.Actor, _ *domain.Task, board *domain.Board) bool {
	return IsBoardMember(actor, board)
}

// CanDeleteComment is author-only. The board owner gets no override.
func CanDeleteComment(actor domain.Actor, comment *domain.Comment) bool {
	return comment.AuthorID == actor.ID
}

// IsEligibleAssignee checks a candidate assignee or reviewer against the board
// at assignment time.
func IsEligibleAssignee(userID int64, board *domain.Board) bool {
	return board.OwnerID == userID || slices.Contains(board.MemberIDs, userID)
}

func CanDeleteUser(actor domain.Actor, userID int64) bool {
	return actor.ID == userID || actor.IsStaff
}

type Outcome int

const (
	Allowed Outcome = iota
	NotFound
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case NotFound:
		return "not found"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decide resolves existence before permission, so a missing resource is never
// reported as forbidden.
func Decide(found, allowed bool) Outcome {
	switch {
	case !found:
		return NotFound
	case !allowed:
		return Forbidden
	default:
		return Allowed
	}
}

// Err maps the outcome onto the apperrors taxonomy. Allowed yields nil.
func (o Outcome) Err() error {
	switch o {
	case NotFound:
		return apperrors.ErrNotFound
	case Forbidden:
		return apperrors.ErrForbidden
	default:
		return nil
	}
}
