package models

// Subtask is a checklist item under a task.
type Subtask struct {
	ID        int64  `json:"id" db:"id"`
	TaskID    int64  `json:"taskId" db:"task_id"`
	Title     string `json:"title" db:"title"`
	Completed bool   `json:"completed" db:"completed"`
	Order     int    `json:"order" db:"order"`
}

// SubtaskUpdate carries the fields of a partial subtask update.
type SubtaskUpdate struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Order     *int    `json:"order,omitempty"`
}
