package models

import "time"

// Column is an ordered stage within a project. The order value is an
// advisory sort key among siblings: duplicates and gaps are legal, and reads
// break ties by ascending id.
type Column struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ProjectID int64     `json:"projectId" db:"project_id"`
	Order     int       `json:"order" db:"order"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ColumnUpdate carries the fields of a partial column update. Nil fields are
// left untouched.
type ColumnUpdate struct {
	Name  *string `json:"name,omitempty"`
	Order *int    `json:"order,omitempty"`
}
