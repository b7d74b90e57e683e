package models

import "time"

// Table represents a restaurant table. Tables double as customer accounts:
// the optional credential pair lets guests at the table log in and follow
// their own orders. Orders reference tables but are never owned by them.
type Table struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name" binding:"required"`
	Type        string  `json:"type" db:"type" binding:"required"`
	Description *string `json:"description,omitempty" db:"description"`
	Username    *string `json:"username,omitempty" db:"username"`
	// PasswordHash is a bcrypt hash, never serialized.
	PasswordHash *string   `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
