package models

import "time"

// Lesson is a catalog entry. BlockPattern is the "2+2+1" style split hint
// expanded cyclically over an assignment's weekly hours; MorningWeight biases
// solvers towards early slots.
type Lesson struct {
	ID            int64     `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	Name          string    `db:"name" json:"name"`
	BlockPattern  string    `db:"block_pattern" json:"block_pattern"`
	MorningWeight int       `db:"morning_weight" json:"morning_weight"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
