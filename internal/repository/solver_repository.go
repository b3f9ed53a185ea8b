package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

// SolverRepository persists per-engine parameter sets and run records.
type SolverRepository struct {
	db *sqlx.DB
}

// NewSolverRepository constructs the repository.
func NewSolverRepository(db *sqlx.DB) *SolverRepository {
	return &SolverRepository{db: db}
}

// GetParams loads the persisted parameter set for an engine.
func (r *SolverRepository) GetParams(ctx context.Context, engine string) (*models.SolverParams, error) {
	const query = `SELECT engine, time_budget_ms, mode, gap_penalty, morning_weight, adjacency_reward,
		min_daily_lessons, balance_penalty, updated_at FROM solver_params WHERE engine = $1`
	var params models.SolverParams
	if err := r.db.GetContext(ctx, &params, query, engine); err != nil {
		return nil, err
	}
	return &params, nil
}

// SaveParams upserts the parameter set for an engine.
func (r *SolverRepository) SaveParams(ctx context.Context, params *models.SolverParams) error {
	params.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO solver_params
		(engine, time_budget_ms, mode, gap_penalty, morning_weight, adjacency_reward, min_daily_lessons, balance_penalty, updated_at)
		VALUES (:engine, :time_budget_ms, :mode, :gap_penalty, :morning_weight, :adjacency_reward, :min_daily_lessons, :balance_penalty, :updated_at)
		ON CONFLICT (engine) DO UPDATE SET
			time_budget_ms = EXCLUDED.time_budget_ms,
			mode = EXCLUDED.mode,
			gap_penalty = EXCLUDED.gap_penalty,
			morning_weight = EXCLUDED.morning_weight,
			adjacency_reward = EXCLUDED.adjacency_reward,
			min_daily_lessons = EXCLUDED.min_daily_lessons,
			balance_penalty = EXCLUDED.balance_penalty,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return fmt.Errorf("save solver params: %w", err)
	}
	return nil
}

// CreateRun stores a pending run record.
func (r *SolverRepository) CreateRun(ctx context.Context, run *models.SolverRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	const query = `INSERT INTO solver_runs (id, engine, status, placed, unplaced, progress, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		run.ID, run.Engine, run.Status, run.Placed, run.Unplaced, run.Progress, run.StartedAt); err != nil {
		return fmt.Errorf("create solver run: %w", err)
	}
	return nil
}

// UpdateRun records progress or completion of a run.
func (r *SolverRepository) UpdateRun(ctx context.Context, id, status string, placed, unplaced int, progress types.JSONText, finishedAt *time.Time) error {
	const query = `UPDATE solver_runs SET status = $2, placed = $3, unplaced = $4, progress = $5, finished_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, placed, unplaced, progress, finishedAt); err != nil {
		return fmt.Errorf("update solver run: %w", err)
	}
	return nil
}

// FindRun loads a run by id.
func (r *SolverRepository) FindRun(ctx context.Context, id string) (*models.SolverRun, error) {
	const query = `SELECT id, engine, status, placed, unplaced, progress, started_at, finished_at FROM solver_runs WHERE id = $1`
	var run models.SolverRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}
