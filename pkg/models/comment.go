package models

import "time"

// Comment is an append-only note on a task.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	TaskID    int64     `json:"taskId" db:"task_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CommentWithUser is a comment joined with its author for display.
type CommentWithUser struct {
	Comment
	User User `json:"user"`
}
