package models

import "time"

type TaskPriority string

const (
	LowPriority    TaskPriority = "low"
	MediumPriority TaskPriority = "medium"
	HighPriority   TaskPriority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p TaskPriority) Valid() bool {
	switch p {
	case LowPriority, MediumPriority, HighPriority:
		return true
	}
	return false
}

// Task is an ordered work item within a column; the unit moved during
// drag-and-drop. Order values are stored exactly as supplied and siblings are
// sorted by order, then id, at read time.
type Task struct {
	ID          int64        `json:"id" db:"id"`
	ColumnID    int64        `json:"columnId" db:"column_id"`
	Title       string       `json:"title" db:"title"`
	Description *string      `json:"description,omitempty" db:"description"`
	Priority    TaskPriority `json:"priority" db:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty" db:"due_date"`
	Order       int          `json:"order" db:"order"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

// TaskUpdate carries the fields of a partial task update. Nil fields are left
// untouched. A move is expressed as an update of ColumnID and Order only.
type TaskUpdate struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	ColumnID    *int64        `json:"columnId,omitempty"`
	Order       *int          `json:"order,omitempty"`
}
