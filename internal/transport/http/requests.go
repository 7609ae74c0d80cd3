package http

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/YusovID/kanban-service/internal/apperrors"
	"github.com/YusovID/kanban-service/internal/domain"
)

const dateLayout = "2006-01-02"

type registrationRequest struct {
	Fullname         string `json:"fullname" validate:"notblank,max=150"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required"`
	RepeatedPassword string `json:"repeated_password" validate:"required"`
}

func (req registrationRequest) toDomain() domain.Registration {
	return domain.Registration{
		Fullname:         req.Fullname,
		Email:            req.Email,
		Password:         req.Password,
		RepeatedPassword: req.RepeatedPassword,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type boardRequest struct {
	Title   string  `json:"title" validate:"notblank,max=200"`
	Members []int64 `json:"members" validate:"omitempty,dive,min=1"`
}

func (req boardRequest) toDomain() domain.BoardInput {
	return domain.BoardInput{Title: req.Title, MemberIDs: req.Members}
}

type boardPatchRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Members []int64 `json:"members" validate:"omitempty,dive,min=1"`
}

// toDomain treats "members": null like an empty list.
func (req boardPatchRequest) toDomain(present map[string]json.RawMessage) domain.BoardPatch {
	_, membersSet := present["members"]

	return domain.BoardPatch{
		Title:      req.Title,
		MemberIDs:  req.Members,
		MembersSet: membersSet,
	}
}

type taskRequest struct {
	Board       int64   `json:"board" validate:"required,min=1"`
	Title       string  `json:"title" validate:"notblank,max=200"`
	Description string  `json:"description"`
	Status      string  `json:"status" validate:"omitempty,oneof=to-do in-progress review done"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssigneeID  *int64  `json:"assignee_id"`
	ReviewerID  *int64  `json:"reviewer_id"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (req taskRequest) toDomain() (domain.TaskInput, error) {
	due, err := parseDate(req.DueDate)
	if err != nil {
		return domain.TaskInput{}, err
	}

	return domain.TaskInput{
		BoardID:     req.Board,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AssigneeID:  req.AssigneeID,
		ReviewerID:  req.ReviewerID,
		DueDate:     due,
	}, nil
}

type taskPatchRequest struct {
	Board       *int64  `json:"board"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssigneeID  *int64  `json:"assignee_id"`
	ReviewerID  *int64  `json:"reviewer_id"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (req taskPatchRequest) toDomain(present map[string]json.RawMessage) (domain.TaskPatch, error) {
	due, err := parseDate(req.DueDate)
	if err != nil {
		return domain.TaskPatch{}, err
	}

	patch := domain.TaskPatch{
		BoardID:     req.Board,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		ReviewerID:  req.ReviewerID,
		DueDate:     due,
	}

	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}

	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}

	_, patch.AssigneeSet = present["assignee_id"]
	_, patch.ReviewerSet = present["reviewer_id"]
	_, patch.DueDateSet = present["due_date"]

	return patch, nil
}

type commentRequest struct {
	Content string `json:"content"`
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, apperrors.NewFieldError("due_date", fmt.Sprintf("date has wrong format, use %s", dateLayout))
	}

	return &t, nil
}
