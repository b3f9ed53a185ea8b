package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

type placementBlockStore interface {
	FindByID(ctx context.Context, id int64) (*models.DistributionBlock, error)
	ListAll(ctx context.Context) ([]models.DistributionBlock, error)
	ListPlaced(ctx context.Context) ([]models.DistributionBlock, error)
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
	UpdatePlacement(ctx context.Context, exec sqlx.ExtContext, id int64, day, hour int, locked, manual bool, placementType string) error
	Unplace(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

type constraintMapReader interface {
	MapsByType(ctx context.Context, ownerType string) (map[int64]models.ConstraintMap, error)
}

type viewInvalidator interface {
	Invalidate(ctx context.Context) error
}

// PlacementSnapshot is a point-in-time view of everything the validity
// checker consults: placed blocks plus closed-slot maps per class and
// teacher.
type PlacementSnapshot struct {
	Placed             []models.DistributionBlock
	ClassConstraints   map[int64]models.ConstraintMap
	TeacherConstraints map[int64]models.ConstraintMap
}

// IsValid checks whether anchoring the block at (day, hour) is feasible.
// Every covered hour offset must stay inside the grid, avoid class, teacher
// and room overlaps with other placed blocks, and avoid slots the class or
// any of the block's teachers has closed. The block's own current placement
// never counts against it.
func (s *PlacementSnapshot) IsValid(block *models.DistributionBlock, day, hour int) bool {
	if block == nil || block.Duration <= 0 {
		return false
	}
	if day < models.MinDay || day > models.MaxDay {
		return false
	}
	if hour < models.MinHour || hour+block.Duration-1 > models.MaxHour {
		return false
	}

	teachers := block.Teachers()
	rooms := block.Rooms()

	for offset := 0; offset < block.Duration; offset++ {
		h := hour + offset

		for i := range s.Placed {
			other := &s.Placed[i]
			if other.ID == block.ID || !other.Covers(day, h) {
				continue
			}
			if other.ClassID == block.ClassID {
				return false
			}
			if sharesID(teachers, other.Teachers()) {
				return false
			}
			if sharesID(rooms, other.Rooms()) {
				return false
			}
		}

		if s.ClassConstraints[block.ClassID].Closed(day, h) {
			return false
		}
		for _, teacherID := range teachers {
			if s.TeacherConstraints[teacherID].Closed(day, h) {
				return false
			}
		}
	}
	return true
}

func sharesID(a, b []int64) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// PlacementSession is one in-flight drag of a block over the grid.
type PlacementSession struct {
	ID         string    `json:"id"`
	BlockID    int64     `json:"block_id"`
	StartedAt  time.Time `json:"started_at"`
	block      models.DistributionBlock
	snapshot   *PlacementSnapshot
	generation uint64
}

// PlacementService drives manual placements: picking a block up, previewing
// target slots against a session snapshot, and committing or cancelling.
// Only one session is active at a time; any grid mutation elsewhere bumps
// the generation counter and stales open sessions.
type PlacementService struct {
	blocks      placementBlockStore
	constraints constraintMapReader
	views       viewInvalidator
	validator   *validator.Validate
	logger      *zap.Logger

	mu         sync.Mutex
	active     *PlacementSession
	generation uint64
}

// NewPlacementService instantiates PlacementService.
func NewPlacementService(blocks placementBlockStore, constraints constraintMapReader, views viewInvalidator, validate *validator.Validate, logger *zap.Logger) *PlacementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementService{
		blocks:      blocks,
		constraints: constraints,
		views:       views,
		validator:   validate,
		logger:      logger,
	}
}

// Snapshot loads a fresh checker view from the store.
func (s *PlacementService) Snapshot(ctx context.Context) (*PlacementSnapshot, error) {
	placed, err := s.blocks.ListPlaced(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placed blocks")
	}
	classMaps, err := s.constraints.MapsByType(ctx, models.OwnerClass)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class constraints")
	}
	teacherMaps, err := s.constraints.MapsByType(ctx, models.OwnerTeacher)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher constraints")
	}
	return &PlacementSnapshot{
		Placed:             placed,
		ClassConstraints:   classMaps,
		TeacherConstraints: teacherMaps,
	}, nil
}

// MarkMutation stales any open session after an external grid change
// (validator repair, solver apply, regeneration).
func (s *PlacementService) MarkMutation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

// Pick starts a drag session for a block. A locked block cannot be picked
// up; an already open session is cancelled and replaced.
func (s *PlacementService) Pick(ctx context.Context, blockID int64) (*PlacementSession, error) {
	block, err := s.blocks.FindByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	if block.Locked {
		return nil, appErrors.Clone(appErrors.ErrLocked, "locked block cannot be picked up")
	}
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.logger.Debug("replacing open placement session", zap.String("session_id", s.active.ID))
	}
	session := &PlacementSession{
		ID:         uuid.NewString(),
		BlockID:    block.ID,
		StartedAt:  time.Now().UTC(),
		block:      *block,
		snapshot:   snapshot,
		generation: s.generation,
	}
	s.active = session
	out := *session
	return &out, nil
}

// Preview answers whether dropping the dragged block at (day, hour) would be
// valid, judged against the session snapshot.
func (s *PlacementService) Preview(sessionID string, day, hour int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.activeSession(sessionID)
	if err != nil {
		return false, err
	}
	return session.snapshot.IsValid(&session.block, day, hour), nil
}

// Commit drops the dragged block at (day, hour). The target is re-validated
// against a fresh snapshot; on success the block is anchored, locked and
// tagged manual. The session ends either way unless it went stale.
func (s *PlacementService) Commit(ctx context.Context, sessionID string, day, hour int) (*models.DistributionBlock, error) {
	s.mu.Lock()
	session, err := s.activeSession(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	block := session.block
	s.mu.Unlock()

	// The session snapshot may predate concurrent previews elsewhere; the
	// commit decision always uses current store state.
	fresh, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !fresh.IsValid(&block, day, hour) {
		s.closeSession(sessionID)
		return nil, appErrors.Clone(appErrors.ErrPlacementInvalid, "target slot is no longer feasible")
	}

	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.blocks.UpdatePlacement(ctx, tx, block.ID, day, hour, true, true, models.PlacementManual); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit placement")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}

	s.mu.Lock()
	s.generation++
	if s.active != nil && s.active.ID == sessionID {
		s.active = nil
	}
	s.mu.Unlock()

	s.invalidateViews(ctx)
	s.logger.Info("manual placement committed",
		zap.Int64("block_id", block.ID), zap.Int("day", day), zap.Int("hour", hour))

	updated, err := s.blocks.FindByID(ctx, block.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload block")
	}
	return updated, nil
}

// Cancel discards the drag session without touching the grid.
func (s *PlacementService) Cancel(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.ID != sessionID {
		return appErrors.Clone(appErrors.ErrNotFound, "placement session not found")
	}
	s.active = nil
	return nil
}

// Unplace returns a block to the unplaced pool and releases its locked and
// manual flags so the next solver run may reposition it.
func (s *PlacementService) Unplace(ctx context.Context, blockID int64) (*models.DistributionBlock, error) {
	block, err := s.blocks.FindByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	if !block.Placed() {
		return block, nil
	}

	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.blocks.Unplace(ctx, tx, blockID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unplace block")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}

	s.MarkMutation()
	s.invalidateViews(ctx)
	s.logger.Info("block unplaced", zap.Int64("block_id", blockID))

	updated, err := s.blocks.FindByID(ctx, blockID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload block")
	}
	return updated, nil
}

// activeSession resolves a session id while holding s.mu.
func (s *PlacementService) activeSession(sessionID string) (*PlacementSession, error) {
	if s.active == nil || s.active.ID != sessionID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "placement session not found")
	}
	if s.active.generation != s.generation {
		s.active = nil
		return nil, appErrors.Clone(appErrors.ErrSessionStale, "grid changed since the session started")
	}
	return s.active, nil
}

func (s *PlacementService) closeSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.ID == sessionID {
		s.active = nil
	}
}

func (s *PlacementService) invalidateViews(ctx context.Context) {
	if s.views == nil {
		return
	}
	if err := s.views.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate timetable views", zap.Error(err))
	}
}
