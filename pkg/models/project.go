package models

import "time"

// Project is a Kanban board scoped to a workspace.
type Project struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	WorkspaceID int64     `json:"workspaceId" db:"workspace_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// BoardColumn is a column hydrated with its tasks, sorted by position.
type BoardColumn struct {
	Column
	Tasks []Task `json:"tasks"`
}

// Board is the fully hydrated view of a project that the Kanban client
// renders: the project plus its columns and each column's tasks.
type Board struct {
	Project
	Columns []BoardColumn `json:"columns"`
}
