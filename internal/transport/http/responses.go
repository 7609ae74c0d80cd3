package http

import (
	"time"

	"github.com/YusovID/kanban-service/internal/domain"
)

const (
	codeValidation         = "VALIDATION_ERROR"
	codeInvalidRequest     = "INVALID_REQUEST"
	codeUnauthenticated    = "UNAUTHENTICATED"
	codeForbidden          = "FORBIDDEN"
	codeNotFound           = "NOT_FOUND"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeUserInactive       = "USER_INACTIVE"
	codeConflict           = "CONFLICT"
	codeInternal           = "INTERNAL"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	UserID   int64  `json:"user_id"`
}

func newSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		Token:    s.Token,
		Fullname: s.Fullname,
		Email:    s.Email,
		UserID:   s.UserID,
	}
}

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
}

func newUserResponse(u domain.UserSummary) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Fullname: u.Fullname}
}

func newUserResponses(users []domain.UserSummary) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = newUserResponse(u)
	}

	return out
}

type boardSummaryResponse struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	MemberCount        int    `json:"member_count"`
	TicketCount        int    `json:"ticket_count"`
	TasksToDoCount     int    `json:"tasks_to_do_count"`
	TasksHighPrioCount int    `json:"tasks_high_prio_count"`
	OwnerID            int64  `json:"owner_id"`
}

func newBoardSummaryResponse(b domain.BoardSummary) boardSummaryResponse {
	return boardSummaryResponse{
		ID:                 b.ID,
		Title:              b.Title,
		MemberCount:        b.MemberCount,
		TicketCount:        b.TicketCount,
		TasksToDoCount:     b.TasksToDoCount,
		TasksHighPrioCount: b.TasksHighPriorityCount,
		OwnerID:            b.OwnerID,
	}
}

type boardDetailResponse struct {
	ID      int64          `json:"id"`
	Title   string         `json:"title"`
	OwnerID int64          `json:"owner_id"`
	Members []userResponse `json:"members"`
	Tasks   []taskResponse `json:"tasks"`
}

func newBoardDetailResponse(b *domain.BoardDetail) boardDetailResponse {
	return boardDetailResponse{
		ID:      b.ID,
		Title:   b.Title,
		OwnerID: b.OwnerID,
		Members: newUserResponses(b.Members),
		Tasks:   newTaskResponses(b.Tasks),
	}
}

// boardUpdateResponse is the shape returned after PATCH/PUT on a board.
type boardUpdateResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	OwnerData   userResponse   `json:"owner_data"`
	MembersData []userResponse `json:"members_data"`
}

func newBoardUpdateResponse(b *domain.BoardDetail) boardUpdateResponse {
	return boardUpdateResponse{
		ID:          b.ID,
		Title:       b.Title,
		OwnerData:   newUserResponse(b.Owner),
		MembersData: newUserResponses(b.Members),
	}
}

type taskResponse struct {
	ID            int64         `json:"id"`
	Board         int64         `json:"board"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Status        string        `json:"status"`
	Priority      string        `json:"priority"`
	Assignee      *userResponse `json:"assignee"`
	Reviewer      *userResponse `json:"reviewer"`
	DueDate       *string       `json:"due_date"`
	CommentsCount int           `json:"comments_count"`
}

func newTaskResponse(t domain.TaskView) taskResponse {
	resp := taskResponse{
		ID:            t.ID,
		Board:         t.BoardID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      string(t.Priority),
		CommentsCount: t.CommentsCount,
	}

	if t.Assignee != nil {
		u := newUserResponse(*t.Assignee)
		resp.Assignee = &u
	}

	if t.Reviewer != nil {
		u := newUserResponse(*t.Reviewer)
		resp.Reviewer = &u
	}

	if t.DueDate != nil {
		d := t.DueDate.Format(dateLayout)
		resp.DueDate = &d
	}

	return resp
}

func newTaskResponses(tasks []domain.TaskView) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = newTaskResponse(t)
	}

	return out
}

type commentResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
}

func newCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Author:    c.AuthorName,
		Content:   c.Content,
	}
}
