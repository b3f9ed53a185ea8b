package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

const blockColumns = `id, class_lesson_id, class_id, lesson_code, duration, teacher_ids, room_ids,
       day, hour, locked, manual, placement_type, gap_score, adjacency_score, total_score, group_id,
       created_at, updated_at`

// BlockRepository persists distribution blocks.
type BlockRepository struct {
	db *sqlx.DB
}

// NewBlockRepository constructs the repository.
func NewBlockRepository(db *sqlx.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// BeginTxx starts a transaction on the underlying store.
func (r *BlockRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// ListAll returns every block ordered by id.
func (r *BlockRepository) ListAll(ctx context.Context) ([]models.DistributionBlock, error) {
	query := fmt.Sprintf(`SELECT %s FROM distribution_blocks ORDER BY id ASC`, blockColumns)
	var blocks []models.DistributionBlock
	if err := r.db.SelectContext(ctx, &blocks, query); err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return blocks, nil
}

// ListPlaced returns blocks anchored to the grid, ordered by id for
// deterministic collision resolution and cache rebuilds.
func (r *BlockRepository) ListPlaced(ctx context.Context) ([]models.DistributionBlock, error) {
	query := fmt.Sprintf(`SELECT %s FROM distribution_blocks WHERE day <> 0 AND hour <> 0 ORDER BY id ASC`, blockColumns)
	var blocks []models.DistributionBlock
	if err := r.db.SelectContext(ctx, &blocks, query); err != nil {
		return nil, fmt.Errorf("list placed blocks: %w", err)
	}
	return blocks, nil
}

// ListUnplaced returns the unplaced pool ordered by id.
func (r *BlockRepository) ListUnplaced(ctx context.Context) ([]models.DistributionBlock, error) {
	query := fmt.Sprintf(`SELECT %s FROM distribution_blocks WHERE day = 0 AND hour = 0 ORDER BY id ASC`, blockColumns)
	var blocks []models.DistributionBlock
	if err := r.db.SelectContext(ctx, &blocks, query); err != nil {
		return nil, fmt.Errorf("list unplaced blocks: %w", err)
	}
	return blocks, nil
}

// ListByAssignment returns the blocks owned by one assignment.
func (r *BlockRepository) ListByAssignment(ctx context.Context, classLessonID int64) ([]models.DistributionBlock, error) {
	query := fmt.Sprintf(`SELECT %s FROM distribution_blocks WHERE class_lesson_id = $1 ORDER BY id ASC`, blockColumns)
	var blocks []models.DistributionBlock
	if err := r.db.SelectContext(ctx, &blocks, query, classLessonID); err != nil {
		return nil, fmt.Errorf("list blocks by assignment: %w", err)
	}
	return blocks, nil
}

// FindByID loads a block by id.
func (r *BlockRepository) FindByID(ctx context.Context, id int64) (*models.DistributionBlock, error) {
	query := fmt.Sprintf(`SELECT %s FROM distribution_blocks WHERE id = $1`, blockColumns)
	var block models.DistributionBlock
	if err := r.db.GetContext(ctx, &block, query, id); err != nil {
		return nil, err
	}
	return &block, nil
}

// InsertBatch stores freshly generated blocks inside the given transaction.
func (r *BlockRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, blocks []models.DistributionBlock) error {
	now := time.Now().UTC()
	const query = `INSERT INTO distribution_blocks
		(class_lesson_id, class_id, lesson_code, duration, teacher_ids, room_ids, day, hour,
		 locked, manual, placement_type, gap_score, adjacency_score, total_score, group_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17) RETURNING id`
	for i := range blocks {
		b := &blocks[i]
		b.CreatedAt = now
		b.UpdatedAt = now
		if b.PlacementType == "" {
			b.PlacementType = models.PlacementAuto
		}
		if err := sqlx.GetContext(ctx, exec, &b.ID, query,
			b.ClassLessonID, b.ClassID, b.LessonCode, b.Duration, b.TeacherIDs, b.RoomIDs, b.Day, b.Hour,
			b.Locked, b.Manual, b.PlacementType, b.GapScore, b.AdjacencyScore, b.TotalScore, b.GroupID, b.CreatedAt, b.UpdatedAt); err != nil {
			return fmt.Errorf("insert block: %w", err)
		}
	}
	return nil
}

// UpdatePlacement anchors a block and sets its placement flags.
func (r *BlockRepository) UpdatePlacement(ctx context.Context, exec sqlx.ExtContext, id int64, day, hour int, locked, manual bool, placementType string) error {
	const query = `UPDATE distribution_blocks
		SET day = $2, hour = $3, locked = $4, manual = $5, placement_type = $6, updated_at = $7 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, day, hour, locked, manual, placementType, time.Now().UTC()); err != nil {
		return fmt.Errorf("update block placement: %w", err)
	}
	return nil
}

// Unplace returns a block to the unplaced pool, releasing its flags.
func (r *BlockRepository) Unplace(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	const query = `UPDATE distribution_blocks
		SET day = 0, hour = 0, locked = FALSE, manual = FALSE, placement_type = $2, updated_at = $3 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, models.PlacementAuto, time.Now().UTC()); err != nil {
		return fmt.Errorf("unplace block: %w", err)
	}
	return nil
}

// OverwriteTeacherSlots resyncs a block's teacher and room slots from the
// assignment roster.
func (r *BlockRepository) OverwriteTeacherSlots(ctx context.Context, exec sqlx.ExtContext, id int64, teacherIDs, roomIDs pq.Int64Array) error {
	const query = `UPDATE distribution_blocks SET teacher_ids = $2, room_ids = $3, updated_at = $4 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, teacherIDs, roomIDs, time.Now().UTC()); err != nil {
		return fmt.Errorf("overwrite block teacher slots: %w", err)
	}
	return nil
}

// UpdateScores writes solver quality scores.
func (r *BlockRepository) UpdateScores(ctx context.Context, id int64, gap, adjacency, total float64) error {
	const query = `UPDATE distribution_blocks SET gap_score = $2, adjacency_score = $3, total_score = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, gap, adjacency, total, time.Now().UTC()); err != nil {
		return fmt.Errorf("update block scores: %w", err)
	}
	return nil
}

// DeleteByAssignment removes all blocks of one assignment inside the given
// transaction.
func (r *BlockRepository) DeleteByAssignment(ctx context.Context, exec sqlx.ExtContext, classLessonID int64) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM distribution_blocks WHERE class_lesson_id = $1`, classLessonID); err != nil {
		return fmt.Errorf("delete blocks by assignment: %w", err)
	}
	return nil
}

// DeleteOrphaned removes blocks whose assignment no longer exists.
func (r *BlockRepository) DeleteOrphaned(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	result, err := exec.ExecContext(ctx, `DELETE FROM distribution_blocks WHERE class_lesson_id NOT IN (SELECT id FROM class_lessons)`)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned blocks: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count orphaned blocks: %w", err)
	}
	return affected, nil
}
