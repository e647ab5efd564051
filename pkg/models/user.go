package models

import "time"

// User is an authenticated principal. IDs are text UUIDs so they can be
// embedded directly in session claims.
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	FirstName *string   `json:"firstName,omitempty" db:"first_name"`
	LastName  *string   `json:"lastName,omitempty" db:"last_name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
