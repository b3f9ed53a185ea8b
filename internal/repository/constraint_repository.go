package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

// ConstraintRepository persists per-owner slot constraints.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository constructs the repository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

// ListByOwner returns the constraints of one owner.
func (r *ConstraintRepository) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]models.SlotConstraint, error) {
	const query = `SELECT id, owner_type, owner_id, day, hour, state FROM slot_constraints
		WHERE owner_type = $1 AND owner_id = $2 ORDER BY day ASC, hour ASC`
	var constraints []models.SlotConstraint
	if err := r.db.SelectContext(ctx, &constraints, query, ownerType, ownerID); err != nil {
		return nil, fmt.Errorf("list constraints: %w", err)
	}
	return constraints, nil
}

// MapByOwner loads an owner's constraints as a lookup map.
func (r *ConstraintRepository) MapByOwner(ctx context.Context, ownerType string, ownerID int64) (models.ConstraintMap, error) {
	rows, err := r.ListByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	return models.NewConstraintMap(rows), nil
}

// MapsByType loads every owner's constraints of one kind in a single query,
// keyed by owner id. Used by snapshot loading for the checker and solvers.
func (r *ConstraintRepository) MapsByType(ctx context.Context, ownerType string) (map[int64]models.ConstraintMap, error) {
	const query = `SELECT id, owner_type, owner_id, day, hour, state FROM slot_constraints
		WHERE owner_type = $1 ORDER BY owner_id ASC, day ASC, hour ASC`
	var rows []models.SlotConstraint
	if err := r.db.SelectContext(ctx, &rows, query, ownerType); err != nil {
		return nil, fmt.Errorf("list constraints by type: %w", err)
	}
	maps := make(map[int64]models.ConstraintMap)
	for _, row := range rows {
		m, ok := maps[row.OwnerID]
		if !ok {
			m = make(models.ConstraintMap)
			maps[row.OwnerID] = m
		}
		m[models.TimeSlot{Day: row.Day, Hour: row.Hour}] = row.State
	}
	return maps, nil
}

// Upsert sets the state for one owner slot.
func (r *ConstraintRepository) Upsert(ctx context.Context, constraint *models.SlotConstraint) error {
	const query = `INSERT INTO slot_constraints (owner_type, owner_id, day, hour, state)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_type, owner_id, day, hour) DO UPDATE SET state = EXCLUDED.state
		RETURNING id`
	if err := r.db.GetContext(ctx, &constraint.ID, query,
		constraint.OwnerType, constraint.OwnerID, constraint.Day, constraint.Hour, constraint.State); err != nil {
		return fmt.Errorf("upsert constraint: %w", err)
	}
	return nil
}

// Delete reopens one owner slot.
func (r *ConstraintRepository) Delete(ctx context.Context, ownerType string, ownerID int64, day, hour int) error {
	const query = `DELETE FROM slot_constraints WHERE owner_type = $1 AND owner_id = $2 AND day = $3 AND hour = $4`
	if _, err := r.db.ExecContext(ctx, query, ownerType, ownerID, day, hour); err != nil {
		return fmt.Errorf("delete constraint: %w", err)
	}
	return nil
}
