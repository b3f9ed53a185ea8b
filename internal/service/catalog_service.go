package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

type lessonStore interface {
	List(ctx context.Context) ([]models.Lesson, error)
	FindByID(ctx context.Context, id int64) (*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int64) error
}

type classStore interface {
	List(ctx context.Context) ([]models.SchoolClass, error)
	FindByID(ctx context.Context, id int64) (*models.SchoolClass, error)
	Create(ctx context.Context, class *models.SchoolClass) error
	Update(ctx context.Context, class *models.SchoolClass) error
	Delete(ctx context.Context, id int64) error
}

type teacherStore interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id int64) error
}

type roomStore interface {
	List(ctx context.Context) ([]models.SharedRoom, error)
	FindByID(ctx context.Context, id int64) (*models.SharedRoom, error)
	Create(ctx context.Context, room *models.SharedRoom) error
	Update(ctx context.Context, room *models.SharedRoom) error
	Delete(ctx context.Context, id int64) error
}

// LessonPayload is the create/update body for a lesson.
type LessonPayload struct {
	Code          string `json:"code" validate:"required,max=16"`
	Name          string `json:"name" validate:"required,max=128"`
	BlockPattern  string `json:"block_pattern" validate:"max=32"`
	MorningWeight int    `json:"morning_weight" validate:"min=0,max=10"`
}

// ClassPayload is the create/update body for a class.
type ClassPayload struct {
	Name  string `json:"name" validate:"required,max=32"`
	Grade string `json:"grade" validate:"required,max=8"`
}

// TeacherPayload is the create/update body for a teacher.
type TeacherPayload struct {
	FullName  string  `json:"full_name" validate:"required,max=128"`
	ShortName string  `json:"short_name" validate:"required,max=16"`
	Branch    *string `json:"branch"`
	Active    bool    `json:"active"`
}

// RoomPayload is the create/update body for a shared room.
type RoomPayload struct {
	Name     string `json:"name" validate:"required,max=64"`
	Capacity int    `json:"capacity" validate:"min=0"`
}

// CatalogService manages the master data behind assignments: lessons,
// classes, teachers and shared rooms.
type CatalogService struct {
	lessons   lessonStore
	classes   classStore
	teachers  teacherStore
	rooms     roomStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService instantiates CatalogService.
func NewCatalogService(lessons lessonStore, classes classStore, teachers teacherStore, rooms roomStore, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		lessons:   lessons,
		classes:   classes,
		teachers:  teachers,
		rooms:     rooms,
		validator: validate,
		logger:    logger,
	}
}

// ListLessons returns all lessons.
func (s *CatalogService) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	lessons, err := s.lessons.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	return lessons, nil
}

// GetLesson loads one lesson.
func (s *CatalogService) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	lesson, err := s.lessons.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "lesson not found")
	}
	return lesson, nil
}

// CreateLesson stores a new lesson.
func (s *CatalogService) CreateLesson(ctx context.Context, req LessonPayload) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	lesson := &models.Lesson{
		Code:          req.Code,
		Name:          req.Name,
		BlockPattern:  req.BlockPattern,
		MorningWeight: req.MorningWeight,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}
	return lesson, nil
}

// UpdateLesson rewrites a lesson. Pattern changes take effect on the next
// regeneration of the affected assignments.
func (s *CatalogService) UpdateLesson(ctx context.Context, id int64, req LessonPayload) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	lesson, err := s.lessons.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "lesson not found")
	}
	lesson.Code = req.Code
	lesson.Name = req.Name
	lesson.BlockPattern = req.BlockPattern
	lesson.MorningWeight = req.MorningWeight
	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}
	return lesson, nil
}

// DeleteLesson removes a lesson.
func (s *CatalogService) DeleteLesson(ctx context.Context, id int64) error {
	if _, err := s.lessons.FindByID(ctx, id); err != nil {
		return s.notFoundOr(err, "lesson not found")
	}
	if err := s.lessons.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	return nil
}

// ListClasses returns all classes.
func (s *CatalogService) ListClasses(ctx context.Context) ([]models.SchoolClass, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// GetClass loads one class.
func (s *CatalogService) GetClass(ctx context.Context, id int64) (*models.SchoolClass, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "class not found")
	}
	return class, nil
}

// CreateClass stores a new class.
func (s *CatalogService) CreateClass(ctx context.Context, req ClassPayload) (*models.SchoolClass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.SchoolClass{Name: req.Name, Grade: req.Grade}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// UpdateClass rewrites a class.
func (s *CatalogService) UpdateClass(ctx context.Context, id int64, req ClassPayload) (*models.SchoolClass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "class not found")
	}
	class.Name = req.Name
	class.Grade = req.Grade
	if err := s.classes.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// DeleteClass removes a class. Assignments and blocks left behind are swept
// by the validator's orphan pass.
func (s *CatalogService) DeleteClass(ctx context.Context, id int64) error {
	if _, err := s.classes.FindByID(ctx, id); err != nil {
		return s.notFoundOr(err, "class not found")
	}
	if err := s.classes.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	s.logger.Info("class deleted", zap.Int64("class_id", id))
	return nil
}

// ListTeachers returns all teachers.
func (s *CatalogService) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// GetTeacher loads one teacher.
func (s *CatalogService) GetTeacher(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "teacher not found")
	}
	return teacher, nil
}

// CreateTeacher stores a new teacher.
func (s *CatalogService) CreateTeacher(ctx context.Context, req TeacherPayload) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher := &models.Teacher{
		FullName:  req.FullName,
		ShortName: req.ShortName,
		Branch:    req.Branch,
		Active:    req.Active,
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return teacher, nil
}

// UpdateTeacher rewrites a teacher.
func (s *CatalogService) UpdateTeacher(ctx context.Context, id int64, req TeacherPayload) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "teacher not found")
	}
	teacher.FullName = req.FullName
	teacher.ShortName = req.ShortName
	teacher.Branch = req.Branch
	teacher.Active = req.Active
	if err := s.teachers.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}

// DeleteTeacher removes a teacher.
func (s *CatalogService) DeleteTeacher(ctx context.Context, id int64) error {
	if _, err := s.teachers.FindByID(ctx, id); err != nil {
		return s.notFoundOr(err, "teacher not found")
	}
	if err := s.teachers.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}

// ListRooms returns all shared rooms.
func (s *CatalogService) ListRooms(ctx context.Context) ([]models.SharedRoom, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// GetRoom loads one room.
func (s *CatalogService) GetRoom(ctx context.Context, id int64) (*models.SharedRoom, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "room not found")
	}
	return room, nil
}

// CreateRoom stores a new room.
func (s *CatalogService) CreateRoom(ctx context.Context, req RoomPayload) (*models.SharedRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room := &models.SharedRoom{Name: req.Name, Capacity: req.Capacity}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// UpdateRoom rewrites a room.
func (s *CatalogService) UpdateRoom(ctx context.Context, id int64, req RoomPayload) (*models.SharedRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "room not found")
	}
	room.Name = req.Name
	room.Capacity = req.Capacity
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	return room, nil
}

// DeleteRoom removes a room.
func (s *CatalogService) DeleteRoom(ctx context.Context, id int64) error {
	if _, err := s.rooms.FindByID(ctx, id); err != nil {
		return s.notFoundOr(err, "room not found")
	}
	if err := s.rooms.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	return nil
}

func (s *CatalogService) notFoundOr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
}
