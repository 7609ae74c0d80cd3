package domain

import (
	"time"
)

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	ID      int64
	IsStaff bool
}

type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	Fullname     string    `db:"fullname"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	IsStaff      bool      `db:"is_staff"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, IsStaff: u.IsStaff}
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Fullname: u.Fullname}
}

type UserSummary struct {
	ID       int64  `db:"id"`
	Email    string `db:"email"`
	Fullname string `db:"fullname"`
}

// Session is what the identity provider hands out on registration and login.
type Session struct {
	Token    string
	UserID   int64
	Email    string
	Fullname string
}

type Board struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	OwnerID   int64     `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	MemberIDs []int64
}

// BoardCounts are derived on every read and never stored.
type BoardCounts struct {
	MemberCount            int `db:"member_count"`
	TicketCount            int `db:"ticket_count"`
	TasksToDoCount         int `db:"tasks_to_do_count"`
	TasksHighPriorityCount int `db:"tasks_high_prio_count"`
}

type BoardSummary struct {
	ID      int64  `db:"id"`
	Title   string `db:"title"`
	OwnerID int64  `db:"owner_id"`
	BoardCounts
}

type BoardDetail struct {
	Board
	BoardCounts
	Owner   UserSummary
	Members []UserSummary
	Tasks   []TaskView
}

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "to-do"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          int64
	BoardID     int64
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	AssigneeID  *int64
	ReviewerID  *int64
	DueDate     *time.Time
	CreatedByID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskView is a task as presented to clients: resolved people and comment count.
type TaskView struct {
	Task
	Assignee      *UserSummary
	Reviewer      *UserSummary
	CommentsCount int
}

type Comment struct {
	ID         int64     `db:"id"`
	TaskID     int64     `db:"task_id"`
	AuthorID   int64     `db:"author_id"`
	AuthorName string    `db:"author_name"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}
