package models

import "time"

// Teacher represents an instructor record.
type Teacher struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	ShortName string    `db:"short_name" json:"short_name"`
	Branch    *string   `db:"branch" json:"branch,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
