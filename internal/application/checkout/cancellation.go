package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quickserve/backend/internal/domain/sales"
	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
)

// CancellationManager voids completed orders. Stock is not restored; the
// shift's aggregates are recomputed from its full order list so they stay
// correct regardless of cancellation history.
type CancellationManager struct {
	orders    sales.OrderRepository
	shifts    sales.ShiftRepository
	tx        shared.TransactionManager
	logger    *zap.Logger
	publisher shared.EventPublisher
	now       func() time.Time
}

// CancellationOption configures a CancellationManager
type CancellationOption func(*CancellationManager)

// WithClock overrides the manager's clock
func WithClock(now func() time.Time) CancellationOption {
	return func(m *CancellationManager) {
		m.now = now
	}
}

// NewCancellationManager creates a new cancellation manager
func NewCancellationManager(
	orders sales.OrderRepository,
	shifts sales.ShiftRepository,
	tx shared.TransactionManager,
	logger *zap.Logger,
	opts ...CancellationOption,
) *CancellationManager {
	m := &CancellationManager{
		orders: orders,
		shifts: shifts,
		tx:     tx,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetEventPublisher sets the event publisher for cross-context integration
func (m *CancellationManager) SetEventPublisher(publisher shared.EventPublisher) {
	m.publisher = publisher
}

// Cancel voids a completed order and recomputes the owning shift's totals
// from all of its completed orders. The status flip, the shift update and
// the recompute read share one transaction.
func (m *CancellationManager) Cancel(ctx context.Context, req CancelOrderRequest) (*OrderResponse, error) {
	ctx, span := tracer.Start(ctx, "CancellationManager.Cancel")
	defer span.End()

	order, err := m.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	now := m.now()
	err = m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := order.Cancel(req.Reason, now); err != nil {
			return err
		}
		if err := m.orders.Update(ctx, order); err != nil {
			return err
		}

		shift, err := m.shifts.FindByID(ctx, order.ShiftID)
		if err != nil {
			return err
		}

		totalOrders, totalRevenue, err := m.recompute(ctx, order.ShiftID)
		if err != nil {
			return err
		}
		shift.ApplyRecompute(totalOrders, totalRevenue)
		return m.shifts.Update(ctx, shift)
	})
	if err != nil {
		// a cancel racing a finalize on the same shift row surfaces as a
		// concurrency conflict, not a persistence detail
		if errors.Is(err, shared.ErrOptimisticLock) {
			return nil, shared.ErrConflict
		}
		return nil, err
	}

	m.publishEvents(ctx, order)
	m.logger.Info("order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("shift_id", order.ShiftID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// recompute derives the shift aggregates from scratch, counting only
// completed orders
func (m *CancellationManager) recompute(ctx context.Context, shiftID uuid.UUID) (int, valueobject.Money, error) {
	orders, err := m.orders.ListByShift(ctx, shiftID)
	if err != nil {
		return 0, valueobject.Money{}, err
	}

	totalOrders := 0
	totalRevenue := valueobject.ZeroUSD()
	for _, order := range orders {
		if !order.IsCompleted() {
			continue
		}
		totalOrders++
		totalRevenue = totalRevenue.MustAdd(order.Total)
	}
	return totalOrders, totalRevenue, nil
}

// publishEvents forwards recorded events when a publisher is wired
func (m *CancellationManager) publishEvents(ctx context.Context, order *sales.Order) {
	if m.publisher == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		if err := m.publisher.Publish(ctx, event); err != nil {
			m.logger.Warn("event publish failed",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	order.ClearDomainEvents()
}
