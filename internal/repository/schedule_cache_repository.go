package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

// ScheduleCacheRepository persists denormalized display lines per owner slot.
// Rows are owned exclusively by the validator's resync pass.
type ScheduleCacheRepository struct {
	db *sqlx.DB
}

// NewScheduleCacheRepository constructs the repository.
func NewScheduleCacheRepository(db *sqlx.DB) *ScheduleCacheRepository {
	return &ScheduleCacheRepository{db: db}
}

// ClearAll wipes every cached line inside the given transaction.
func (r *ScheduleCacheRepository) ClearAll(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM schedule_cache`); err != nil {
		return fmt.Errorf("clear schedule cache: %w", err)
	}
	return nil
}

// InsertBatch appends display lines inside the given transaction.
func (r *ScheduleCacheRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, lines []models.ScheduleCacheLine) error {
	const query = `INSERT INTO schedule_cache (owner_type, owner_id, day, hour, line, block_id)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range lines {
		if _, err := exec.ExecContext(ctx, query,
			line.OwnerType, line.OwnerID, line.Day, line.Hour, line.Line, line.BlockID); err != nil {
			return fmt.Errorf("insert schedule cache line: %w", err)
		}
	}
	return nil
}

// ListByOwner returns cached lines for one owner in deterministic order.
func (r *ScheduleCacheRepository) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]models.ScheduleCacheLine, error) {
	const query = `SELECT id, owner_type, owner_id, day, hour, line, block_id FROM schedule_cache
		WHERE owner_type = $1 AND owner_id = $2 ORDER BY day ASC, hour ASC, block_id ASC`
	var lines []models.ScheduleCacheLine
	if err := r.db.SelectContext(ctx, &lines, query, ownerType, ownerID); err != nil {
		return nil, fmt.Errorf("list schedule cache: %w", err)
	}
	return lines, nil
}
