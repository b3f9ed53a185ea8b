package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// PlacementMode controls how a solver treats already-placed blocks.
type PlacementMode string

const (
	ModeClearAll   PlacementMode = "CLEAR_ALL"
	ModeKeepLocked PlacementMode = "KEEP_LOCKED"
	ModeKeepAll    PlacementMode = "KEEP_CURRENT"
)

// SolverWeights are the tunable objective weights a solver must honour.
type SolverWeights struct {
	GapPenalty      int `db:"gap_penalty" json:"gap_penalty" validate:"min=1"`
	MorningWeight   int `db:"morning_weight" json:"morning_weight"`
	AdjacencyReward int `db:"adjacency_reward" json:"adjacency_reward"`
	MinDailyLessons int `db:"min_daily_lessons" json:"min_daily_lessons"`
	BalancePenalty  int `db:"balance_penalty" json:"balance_penalty"`
}

// SolverParams is the persisted parameter set for one engine.
type SolverParams struct {
	Engine       string        `db:"engine" json:"engine"`
	TimeBudgetMS int64         `db:"time_budget_ms" json:"time_budget_ms"`
	Mode         PlacementMode `db:"mode" json:"mode"`
	SolverWeights
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TimeBudget returns the budget as a duration.
func (p SolverParams) TimeBudget() time.Duration {
	return time.Duration(p.TimeBudgetMS) * time.Millisecond
}

// Solver run statuses.
const (
	SolverRunPending   = "pending"
	SolverRunRunning   = "running"
	SolverRunSucceeded = "succeeded"
	SolverRunFailed    = "failed"
)

// SolverRun records one asynchronous placement search.
type SolverRun struct {
	ID         string         `db:"id" json:"id"`
	Engine     string         `db:"engine" json:"engine"`
	Status     string         `db:"status" json:"status"`
	Placed     int            `db:"placed" json:"placed"`
	Unplaced   int            `db:"unplaced" json:"unplaced"`
	Progress   types.JSONText `db:"progress" json:"progress,omitempty"`
	StartedAt  time.Time      `db:"started_at" json:"started_at"`
	FinishedAt *time.Time     `db:"finished_at" json:"finished_at,omitempty"`
}
