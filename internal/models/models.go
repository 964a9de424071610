package models

import (
	"errors"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Postcode     string    `json:"postcode,omitempty"`
	PetType      string    `json:"petType,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	JoinedAt     time.Time `json:"joinedAt"`
}

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	IsTask    bool      `json:"isTask"`
	LikeCount int32     `json:"likeCount"`
	CreatedBy int64     `json:"createdBy"`
	Author    string    `json:"author,omitempty"`
	Image     string    `json:"image,omitempty"`
	Created   time.Time `json:"created"`
}

type Reply struct {
	ID        int64   `json:"id"`
	PostID    int64   `json:"post"`
	Author    int64   `json:"author"`
	ParentID  *int64  `json:"parent,omitempty"`
	Content   string  `json:"content"`
	LikeCount int32   `json:"likeCount"`
	Children  []Reply `json:"children,omitempty"`
	Created   time.Time `json:"created"`
}

const (
	TaskStatusOpen   = "open"
	TaskStatusClosed = "closed"
)

// Task разделяет идентификатор с постом, у которого выставлен isTask.
type Task struct {
	PostID     int64  `json:"post"`
	Status     string `json:"status"`
	AssignedTo *int64 `json:"assignedTo,omitempty"`
}

type WaitingListEntry struct {
	TaskID    int64     `json:"task"`
	UserID    int64     `json:"user"`
	Username  string    `json:"username,omitempty"`
	Message   string    `json:"message,omitempty"`
	AppliedAt time.Time `json:"appliedAt"`
}

type Activity struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user"`
	Action       string    `json:"action"`
	TargetUserID *int64    `json:"targetUser,omitempty"`
	Created      time.Time `json:"created"`
}

type Session struct {
	ID        string    `json:"-"`
	UserID    int64     `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// PostDetails то, что отдаёт страница поста: сам пост, дерево ответов и,
// если пост является задачей, её состояние вместе со списком ожидания.
type PostDetails struct {
	Post        *Post              `json:"post"`
	Replies     []Reply            `json:"replies"`
	Task        *Task              `json:"task,omitempty"`
	WaitingList []WaitingListEntry `json:"waitingList,omitempty"`
}

type SearchResult struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Author   string `json:"author"`
	Category string `json:"category,omitempty"`
	IsTask   bool   `json:"isTask"`
}

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrUserConflict   = errors.New("username or email already taken")
	ErrBadCredentials = errors.New("invalid username or password")
	ErrNotOwner       = errors.New("not the owner")
	ErrParentMismatch = errors.New("parent reply belongs to another post")
	ErrAlreadyApplied = errors.New("already applied to this task")
	ErrTaskClosed     = errors.New("task is closed")
)
