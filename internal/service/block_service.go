package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

type blockStore interface {
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
	ListAll(ctx context.Context) ([]models.DistributionBlock, error)
	ListPlaced(ctx context.Context) ([]models.DistributionBlock, error)
	ListUnplaced(ctx context.Context) ([]models.DistributionBlock, error)
	ListByAssignment(ctx context.Context, classLessonID int64) ([]models.DistributionBlock, error)
	FindByID(ctx context.Context, id int64) (*models.DistributionBlock, error)
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, blocks []models.DistributionBlock) error
	DeleteByAssignment(ctx context.Context, exec sqlx.ExtContext, classLessonID int64) error
	OverwriteTeacherSlots(ctx context.Context, exec sqlx.ExtContext, id int64, teacherIDs, roomIDs pq.Int64Array) error
}

type blockAssignmentReader interface {
	FindByID(ctx context.Context, id int64) (*models.ClassLessonAssignment, error)
	ListTeachers(ctx context.Context, classLessonID int64) ([]models.TeacherAssignment, error)
}

type blockLessonReader interface {
	FindByID(ctx context.Context, id int64) (*models.Lesson, error)
}

type blockRoomReader interface {
	FindByID(ctx context.Context, id int64) (*models.SharedRoom, error)
}

type sessionStaler interface {
	MarkMutation()
}

// BlockService expands assignments into distribution blocks and manages the
// room pairings on individual blocks.
type BlockService struct {
	blocks      blockStore
	assignments blockAssignmentReader
	lessons     blockLessonReader
	rooms       blockRoomReader
	sessions    sessionStaler
	views       viewInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewBlockService instantiates BlockService.
func NewBlockService(blocks blockStore, assignments blockAssignmentReader, lessons blockLessonReader, rooms blockRoomReader, sessions sessionStaler, views viewInvalidator, validate *validator.Validate, logger *zap.Logger) *BlockService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlockService{
		blocks:      blocks,
		assignments: assignments,
		lessons:     lessons,
		rooms:       rooms,
		sessions:    sessions,
		views:       views,
		validator:   validate,
		logger:      logger,
	}
}

// List returns every block.
func (s *BlockService) List(ctx context.Context) ([]models.DistributionBlock, error) {
	blocks, err := s.blocks.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocks")
	}
	return blocks, nil
}

// ListUnplaced returns the unplaced pool.
func (s *BlockService) ListUnplaced(ctx context.Context) ([]models.DistributionBlock, error) {
	blocks, err := s.blocks.ListUnplaced(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unplaced blocks")
	}
	return blocks, nil
}

// Get loads one block.
func (s *BlockService) Get(ctx context.Context, id int64) (*models.DistributionBlock, error) {
	block, err := s.blocks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	return block, nil
}

// Regenerate rebuilds an assignment's blocks from its lesson pattern and
// roster. Existing blocks are deleted, the pattern is expanded cyclically
// over the weekly hours, and the new blocks start unplaced with the roster
// copied into their teacher slots.
func (s *BlockService) Regenerate(ctx context.Context, assignmentID int64) ([]models.DistributionBlock, error) {
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	lesson, err := s.lessons.FindByID(ctx, assignment.LessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	roster, err := s.assignments.ListTeachers(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	if len(roster) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "assignment has no teachers")
	}

	durations := ExpandBlockPattern(ParseBlockPattern(lesson.BlockPattern), assignment.TotalHours)
	teacherIDs, roomIDs := rosterSlots(roster)

	blocks := make([]models.DistributionBlock, 0, len(durations))
	for _, duration := range durations {
		blocks = append(blocks, models.DistributionBlock{
			ClassLessonID: assignment.ID,
			ClassID:       assignment.ClassID,
			LessonCode:    lesson.Code,
			Duration:      duration,
			TeacherIDs:    append(pq.Int64Array(nil), teacherIDs...),
			RoomIDs:       append(pq.Int64Array(nil), roomIDs...),
			PlacementType: models.PlacementAuto,
			GroupID:       assignment.GroupID,
		})
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
	if err = s.blocks.DeleteByAssignment(ctx, tx, assignmentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete stale blocks")
	}
	if err = s.blocks.InsertBatch(ctx, tx, blocks); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert blocks")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}

	s.markGridChanged(ctx)
	s.logger.Info("blocks regenerated",
		zap.Int64("assignment_id", assignmentID),
		zap.Int("blocks", len(blocks)),
		zap.String("pattern", lesson.BlockPattern))
	return blocks, nil
}

// PairRoomRequest pins a shared room to one teacher slot of a block.
type PairRoomRequest struct {
	Position int   `json:"position" validate:"min=0,max=6"`
	RoomID   int64 `json:"room_id" validate:"min=0"`
}

// PairRoom sets (or with room id 0 clears) the room paired with one teacher
// slot. The position must address an existing teacher slot.
func (s *BlockService) PairRoom(ctx context.Context, blockID int64, req PairRoomRequest) (*models.DistributionBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room pairing payload")
	}
	block, err := s.Get(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if req.Position >= len(block.TeacherIDs) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "position has no teacher slot")
	}
	if req.RoomID != 0 {
		if _, err := s.rooms.FindByID(ctx, req.RoomID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
		}
	}

	roomIDs := append(pq.Int64Array(nil), block.RoomIDs...)
	for len(roomIDs) < len(block.TeacherIDs) {
		roomIDs = append(roomIDs, 0)
	}
	roomIDs[req.Position] = req.RoomID

	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.blocks.OverwriteTeacherSlots(ctx, tx, blockID, block.TeacherIDs, roomIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pair room")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}

	s.markGridChanged(ctx)
	return s.Get(ctx, blockID)
}

func (s *BlockService) markGridChanged(ctx context.Context) {
	if s.sessions != nil {
		s.sessions.MarkMutation()
	}
	if s.views != nil {
		if err := s.views.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate timetable views", zap.Error(err))
		}
	}
}

// rosterSlots maps an ordered roster onto the bounded teacher slot array,
// with an all-empty room array of matching length.
func rosterSlots(roster []models.TeacherAssignment) (pq.Int64Array, pq.Int64Array) {
	n := len(roster)
	if n > models.MaxTeacherSlots {
		n = models.MaxTeacherSlots
	}
	teacherIDs := make(pq.Int64Array, n)
	roomIDs := make(pq.Int64Array, n)
	for i := 0; i < n; i++ {
		teacherIDs[i] = roster[i].TeacherID
	}
	return teacherIDs, roomIDs
}

// expectedDurations is the canonical expansion for an assignment, shared by
// regeneration and the validator's drift pass.
func expectedDurations(pattern string, totalHours int) []int {
	return ExpandBlockPattern(ParseBlockPattern(pattern), totalHours)
}
