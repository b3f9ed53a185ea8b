package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

type constraintStore interface {
	ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]models.SlotConstraint, error)
	Upsert(ctx context.Context, constraint *models.SlotConstraint) error
	Delete(ctx context.Context, ownerType string, ownerID int64, day, hour int) error
}

// SetConstraintRequest opens or closes one owner slot.
type SetConstraintRequest struct {
	Day   int    `json:"day" validate:"required,min=1,max=7"`
	Hour  int    `json:"hour" validate:"required,min=1,max=12"`
	State string `json:"state" validate:"required,oneof=OPEN CLOSED"`
}

// ConstraintService manages the availability maps of classes, teachers and
// rooms. Setting a slot to OPEN deletes the row, absence already means open.
type ConstraintService struct {
	constraints constraintStore
	sessions    sessionStaler
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewConstraintService instantiates ConstraintService.
func NewConstraintService(constraints constraintStore, sessions sessionStaler, validate *validator.Validate, logger *zap.Logger) *ConstraintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{
		constraints: constraints,
		sessions:    sessions,
		validator:   validate,
		logger:      logger,
	}
}

// List returns one owner's constraint rows.
func (s *ConstraintService) List(ctx context.Context, ownerType string, ownerID int64) ([]models.SlotConstraint, error) {
	if err := validOwnerType(ownerType); err != nil {
		return nil, err
	}
	constraints, err := s.constraints.ListByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list constraints")
	}
	return constraints, nil
}

// Set writes one slot state. Open placements on the closed slot are left
// alone; the validator reports them and manual review resolves them.
func (s *ConstraintService) Set(ctx context.Context, ownerType string, ownerID int64, req SetConstraintRequest) (*models.SlotConstraint, error) {
	if err := validOwnerType(ownerType); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}

	if req.State == models.ConstraintOpen {
		if err := s.constraints.Delete(ctx, ownerType, ownerID, req.Day, req.Hour); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reopen slot")
		}
		if s.sessions != nil {
			s.sessions.MarkMutation()
		}
		return &models.SlotConstraint{
			OwnerType: ownerType, OwnerID: ownerID,
			Day: req.Day, Hour: req.Hour, State: models.ConstraintOpen,
		}, nil
	}

	constraint := &models.SlotConstraint{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Day:       req.Day,
		Hour:      req.Hour,
		State:     req.State,
	}
	if err := s.constraints.Upsert(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store constraint")
	}
	if s.sessions != nil {
		s.sessions.MarkMutation()
	}
	return constraint, nil
}

func validOwnerType(ownerType string) error {
	switch ownerType {
	case models.OwnerClass, models.OwnerTeacher, models.OwnerRoom:
		return nil
	}
	return appErrors.Clone(appErrors.ErrValidation, "unknown owner type")
}
