package checkout

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quickserve/backend/internal/domain/sales"
	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
)

// ShiftService handles cash-register session lifecycle
type ShiftService struct {
	shifts   sales.ShiftRepository
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// ShiftServiceOption configures a ShiftService
type ShiftServiceOption func(*ShiftService)

// WithShiftClock overrides the service's clock
func WithShiftClock(now func() time.Time) ShiftServiceOption {
	return func(s *ShiftService) {
		s.now = now
	}
}

// NewShiftService creates a new shift service
func NewShiftService(shifts sales.ShiftRepository, logger *zap.Logger, opts ...ShiftServiceOption) *ShiftService {
	s := &ShiftService{
		shifts:   shifts,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a session for an employee. An employee can only run one open
// shift at a time.
func (s *ShiftService) Open(ctx context.Context, req OpenShiftRequest) (*ShiftResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	existing, err := s.shifts.FindOpenByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"employee already has an open shift")
	}

	shift, err := sales.OpenShift(req.EmployeeID, valueobject.NewMoneyUSD(req.InitialCash), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.shifts.Save(ctx, shift); err != nil {
		return nil, err
	}

	s.logger.Info("shift opened",
		zap.String("shift_id", shift.ID.String()),
		zap.String("employee_id", req.EmployeeID.String()))

	response := ToShiftResponse(shift)
	return &response, nil
}

// Close ends a session with the counted drawer amount
func (s *ShiftService) Close(ctx context.Context, req CloseShiftRequest) (*ShiftResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	shift, err := s.shifts.FindByID(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}
	if err := shift.Close(valueobject.NewMoneyUSD(req.ActualCash), s.now()); err != nil {
		return nil, err
	}
	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, err
	}

	s.logger.Info("shift closed",
		zap.String("shift_id", shift.ID.String()),
		zap.Int("total_orders", shift.TotalOrders),
		zap.String("variance", shift.Variance.String()))

	response := ToShiftResponse(shift)
	return &response, nil
}

// Get returns the current view of a shift
func (s *ShiftService) Get(ctx context.Context, shiftID uuid.UUID) (*ShiftResponse, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	response := ToShiftResponse(shift)
	return &response, nil
}
