package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

type assignmentStore interface {
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
	List(ctx context.Context) ([]models.AssignmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.ClassLessonAssignment, error)
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.ClassLessonAssignment) error
	UpdateTotalHours(ctx context.Context, exec sqlx.ExtContext, id int64, totalHours int) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
	ListTeachers(ctx context.Context, classLessonID int64) ([]models.TeacherAssignment, error)
	ReplaceTeachers(ctx context.Context, exec sqlx.ExtContext, classLessonID int64, teachers []models.TeacherAssignment) error
	DeleteTeachersByAssignment(ctx context.Context, exec sqlx.ExtContext, classLessonID int64) error
}

type assignmentBlockCascader interface {
	DeleteByAssignment(ctx context.Context, exec sqlx.ExtContext, classLessonID int64) error
	ListByAssignment(ctx context.Context, classLessonID int64) ([]models.DistributionBlock, error)
}

type assignmentClassReader interface {
	FindByID(ctx context.Context, id int64) (*models.SchoolClass, error)
}

type blockRegenerator interface {
	Regenerate(ctx context.Context, assignmentID int64) ([]models.DistributionBlock, error)
}

// TeacherShare is one ordered roster entry in an assignment payload.
type TeacherShare struct {
	TeacherID     int64 `json:"teacher_id" validate:"required"`
	AssignedHours int   `json:"assigned_hours" validate:"min=0"`
}

// CreateAssignmentRequest binds a lesson to a class with an ordered roster.
type CreateAssignmentRequest struct {
	ClassID    int64          `json:"class_id" validate:"required"`
	LessonID   int64          `json:"lesson_id" validate:"required"`
	TotalHours int            `json:"total_hours" validate:"required,min=1,max=60"`
	GroupID    *int64         `json:"group_id"`
	Teachers   []TeacherShare `json:"teachers" validate:"required,min=1,max=7,dive"`
}

// UpdateAssignmentRequest adjusts hours and roster. An empty roster cascades
// to deleting the assignment and all of its blocks.
type UpdateAssignmentRequest struct {
	TotalHours int            `json:"total_hours" validate:"required,min=1,max=60"`
	Teachers   []TeacherShare `json:"teachers" validate:"max=7,dive"`
}

// AssignmentResult bundles an assignment with its roster and blocks.
type AssignmentResult struct {
	Assignment *models.ClassLessonAssignment `json:"assignment,omitempty"`
	Teachers   []models.TeacherAssignment    `json:"teachers,omitempty"`
	Blocks     []models.DistributionBlock    `json:"blocks,omitempty"`
	Deleted    bool                          `json:"deleted"`
}

// AssignmentService manages class-lesson assignments and their rosters; any
// contract change regenerates the owned blocks.
type AssignmentService struct {
	assignments assignmentStore
	blocks      assignmentBlockCascader
	classes     assignmentClassReader
	lessons     blockLessonReader
	regenerator blockRegenerator
	sessions    sessionStaler
	views       viewInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService instantiates AssignmentService.
func NewAssignmentService(assignments assignmentStore, blocks assignmentBlockCascader, classes assignmentClassReader, lessons blockLessonReader, regenerator blockRegenerator, sessions sessionStaler, views viewInvalidator, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		assignments: assignments,
		blocks:      blocks,
		classes:     classes,
		lessons:     lessons,
		regenerator: regenerator,
		sessions:    sessions,
		views:       views,
		validator:   validate,
		logger:      logger,
	}
}

// List returns all assignments with class and lesson names.
func (s *AssignmentService) List(ctx context.Context) ([]models.AssignmentDetail, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Get loads one assignment with roster and blocks.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*AssignmentResult, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	teachers, err := s.assignments.ListTeachers(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	blocks, err := s.blocks.ListByAssignment(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blocks")
	}
	return &AssignmentResult{Assignment: assignment, Teachers: teachers, Blocks: blocks}, nil
}

// Create stores a new assignment with its roster and generates its blocks.
func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*AssignmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if _, err := s.lessons.FindByID(ctx, req.LessonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	assignment := &models.ClassLessonAssignment{
		ClassID:    req.ClassID,
		LessonID:   req.LessonID,
		TotalHours: req.TotalHours,
		GroupID:    req.GroupID,
	}

	tx, err := s.assignments.BeginTxx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.assignments.Create(ctx, tx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	if err = s.assignments.ReplaceTeachers(ctx, tx, assignment.ID, rosterFromShares(req.Teachers)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store roster")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}

	blocks, err := s.regenerator.Regenerate(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}
	teachers, err := s.assignments.ListTeachers(ctx, assignment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	s.logger.Info("assignment created",
		zap.Int64("assignment_id", assignment.ID),
		zap.Int64("class_id", req.ClassID),
		zap.Int64("lesson_id", req.LessonID),
		zap.Int("blocks", len(blocks)))
	return &AssignmentResult{Assignment: assignment, Teachers: teachers, Blocks: blocks}, nil
}

// Update rewrites hours and roster, then regenerates blocks. Removing the
// last teacher deletes the assignment instead.
func (s *AssignmentService) Update(ctx context.Context, id int64, req UpdateAssignmentRequest) (*AssignmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	if len(req.Teachers) == 0 {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		s.logger.Info("assignment cascade-deleted on empty roster", zap.Int64("assignment_id", id))
		return &AssignmentResult{Deleted: true}, nil
	}

	tx, err := s.assignments.BeginTxx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.assignments.UpdateTotalHours(ctx, tx, id, req.TotalHours); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update hours")
	}
	if err = s.assignments.ReplaceTeachers(ctx, tx, id, rosterFromShares(req.Teachers)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store roster")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}

	assignment.TotalHours = req.TotalHours
	blocks, err := s.regenerator.Regenerate(ctx, id)
	if err != nil {
		return nil, err
	}
	teachers, err := s.assignments.ListTeachers(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return &AssignmentResult{Assignment: assignment, Teachers: teachers, Blocks: blocks}, nil
}

// Delete removes an assignment, its roster and all of its blocks.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.assignments.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	tx, err := s.assignments.BeginTxx(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.blocks.DeleteByAssignment(ctx, tx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete blocks")
	}
	if err = s.assignments.DeleteTeachersByAssignment(ctx, tx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete roster")
	}
	if err = s.assignments.Delete(ctx, tx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}

	if s.sessions != nil {
		s.sessions.MarkMutation()
	}
	if s.views != nil {
		if err := s.views.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate timetable views", zap.Error(err))
		}
	}
	s.logger.Info("assignment deleted", zap.Int64("assignment_id", id))
	return nil
}

func rosterFromShares(shares []TeacherShare) []models.TeacherAssignment {
	roster := make([]models.TeacherAssignment, 0, len(shares))
	for _, share := range shares {
		roster = append(roster, models.TeacherAssignment{
			TeacherID:     share.TeacherID,
			AssignedHours: share.AssignedHours,
		})
	}
	return roster
}
