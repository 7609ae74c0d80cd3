package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MaxTitleLength    = 200
	MaxFullnameLength = 150
	MinPasswordLength = 8
)

var (
	taskStatuses   = []interface{}{TaskStatusToDo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone}
	taskPriorities = []interface{}{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}
)

type Registration struct {
	Fullname         string `json:"fullname"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeated_password"`
}

func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Fullname, validation.Required, validation.Length(1, MaxFullnameLength)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 0)),
		validation.Field(&r.RepeatedPassword,
			validation.Required,
			validation.In(r.Password).Error("passwords do not match"),
		),
	)
}

type BoardInput struct {
	Title     string  `json:"title"`
	MemberIDs []int64 `json:"members"`
}

func (in BoardInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&in.MemberIDs, validation.Each(validation.Required, validation.Min(int64(1)))),
	)
}

// BoardPatch updates only what is set. A set MemberIDs replaces the whole member set.
type BoardPatch struct {
	Title      *string `json:"title"`
	MemberIDs  []int64 `json:"members"`
	MembersSet bool    `json:"-"`
}

func (p BoardPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, MaxTitleLength)),
		validation.Field(&p.MemberIDs, validation.Each(validation.Required, validation.Min(int64(1)))),
	)
}

type TaskInput struct {
	BoardID     int64        `json:"board"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *int64       `json:"assignee_id"`
	ReviewerID  *int64       `json:"reviewer_id"`
	DueDate     *time.Time   `json:"due_date"`
}

// Normalize fills defaults: status to-do, priority medium.
func (in *TaskInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)

	if in.Status == "" {
		in.Status = TaskStatusToDo
	}

	if in.Priority == "" {
		in.Priority = TaskPriorityMedium
	}
}

func (in TaskInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.BoardID, validation.Required),
		validation.Field(&in.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&in.Status, validation.Required, validation.In(taskStatuses...)),
		validation.Field(&in.Priority, validation.Required, validation.In(taskPriorities...)),
	)
}

// TaskPatch distinguishes an absent field from an explicit null for the
// nullable columns through the *Set flags.
type TaskPatch struct {
	BoardID     *int64        `json:"board"`
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	AssigneeID  *int64        `json:"assignee_id"`
	AssigneeSet bool          `json:"-"`
	ReviewerID  *int64        `json:"reviewer_id"`
	ReviewerSet bool          `json:"-"`
	DueDate     *time.Time    `json:"due_date"`
	DueDateSet  bool          `json:"-"`
}

func (p TaskPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, MaxTitleLength)),
		validation.Field(&p.Status, validation.NilOrNotEmpty, validation.In(taskStatuses...)),
		validation.Field(&p.Priority, validation.NilOrNotEmpty, validation.In(taskPriorities...)),
	)
}

// Apply copies the set fields of p onto t. BoardID is never applied.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}

	if p.Description != nil {
		t.Description = *p.Description
	}

	if p.Status != nil {
		t.Status = *p.Status
	}

	if p.Priority != nil {
		t.Priority = *p.Priority
	}

	if p.AssigneeSet {
		t.AssigneeID = p.AssigneeID
	}

	if p.ReviewerSet {
		t.ReviewerID = p.ReviewerID
	}

	if p.DueDateSet {
		t.DueDate = p.DueDate
	}
}

type CommentInput struct {
	Content string `json:"content"`
}

func (in CommentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Content, validation.Required),
	)
}
