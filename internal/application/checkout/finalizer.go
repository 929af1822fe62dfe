package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/domain/inventory"
	"github.com/quickserve/backend/internal/domain/pricing"
	"github.com/quickserve/backend/internal/domain/sales"
	"github.com/quickserve/backend/internal/domain/shared"
)

var tracer = otel.Tracer("checkout")

// OrderFinalizer commits carts. Pricing, validation, stock reservation and
// the order/shift writes happen in one pass at finalize time; on any
// failure nothing is persisted.
type OrderFinalizer struct {
	combos    catalog.ComboRepository
	items     catalog.InventoryItemRepository
	orders    sales.OrderRepository
	shifts    sales.ShiftRepository
	ledger    *inventory.StockLedger
	engine    *pricing.RuleEngine
	validator *catalog.ComboValidator
	tx        shared.TransactionManager
	validate  *validator.Validate
	logger    *zap.Logger
	publisher shared.EventPublisher
}

// NewOrderFinalizer creates a new order finalizer
func NewOrderFinalizer(
	combos catalog.ComboRepository,
	items catalog.InventoryItemRepository,
	orders sales.OrderRepository,
	shifts sales.ShiftRepository,
	ledger *inventory.StockLedger,
	tx shared.TransactionManager,
	logger *zap.Logger,
) *OrderFinalizer {
	return &OrderFinalizer{
		combos:    combos,
		items:     items,
		orders:    orders,
		shifts:    shifts,
		ledger:    ledger,
		engine:    pricing.NewRuleEngine(),
		validator: catalog.NewComboValidator(),
		tx:        tx,
		validate:  validator.New(),
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (f *OrderFinalizer) SetEventPublisher(publisher shared.EventPublisher) {
	f.publisher = publisher
}

// Finalize validates, prices and commits the cart against an open shift.
// The stock reservation, the order insert and the shift aggregate update
// share one transaction.
func (f *OrderFinalizer) Finalize(ctx context.Context, req FinalizeOrderRequest, now time.Time) (*OrderResponse, error) {
	ctx, span := tracer.Start(ctx, "OrderFinalizer.Finalize")
	defer span.End()

	if len(req.Lines) == 0 {
		return nil, shared.ErrEmptyCart
	}
	// a request without a shift is a request against no active shift, not
	// a malformed one
	if req.ShiftID == uuid.Nil {
		return nil, shared.ErrNoActiveShift
	}
	if err := f.validate.Struct(req); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	for _, line := range req.Lines {
		if (line.ComboID == nil) == (line.ProductID == nil) {
			return nil, shared.NewValidationError("each line sells exactly one combo or one item")
		}
	}

	shift, err := f.shifts.FindByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNoActiveShift
		}
		return nil, err
	}
	if !shift.IsOpen() {
		return nil, shared.ErrNoActiveShift
	}

	cat, index, err := f.loadCatalog(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	cart, reqs, err := f.buildCart(req.Lines, cat, index)
	if err != nil {
		return nil, err
	}

	priced, err := f.engine.PriceCart(cart, cat, now)
	if err != nil {
		return nil, err
	}

	order, err := sales.NewOrder(req.ShiftID, f.toOrderLines(priced, cat, index, now), now)
	if err != nil {
		return nil, err
	}

	var reservation *inventory.Reservation
	err = f.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		reservation, err = f.ledger.Reserve(ctx, reqs)
		if err != nil {
			return err
		}
		if err := f.orders.Insert(ctx, order); err != nil {
			return err
		}
		if err := shift.RecordOrder(order.Total); err != nil {
			return err
		}
		return f.shifts.Update(ctx, shift)
	})
	if err != nil {
		f.logger.Warn("finalize aborted",
			zap.String("shift_id", req.ShiftID.String()),
			zap.Error(err))
		// losing the shift-row version race is a concurrency conflict to
		// the caller, same as exhausting stock reservation retries
		if errors.Is(err, shared.ErrOptimisticLock) {
			return nil, shared.ErrConflict
		}
		return nil, err
	}

	order.AddDomainEvent(inventory.NewStockReservedEvent(order.ID, reqs, reservation, now))
	f.publishEvents(ctx, order)

	f.logger.Info("order finalized",
		zap.String("order_id", order.ID.String()),
		zap.String("shift_id", shift.ID.String()),
		zap.String("total", order.Total.String()),
		zap.Int("lines", len(order.LineItems)))

	response := ToOrderResponse(order)
	return &response, nil
}

// loadCatalog fetches every referenced combo and the full inventory index
// the cart needs: standalone items plus all component products of the
// referenced combos
func (f *OrderFinalizer) loadCatalog(ctx context.Context, lines []CartLineInput) (pricing.Catalog, map[uuid.UUID]*catalog.InventoryItem, error) {
	comboIDs := make([]uuid.UUID, 0)
	itemIDs := make([]uuid.UUID, 0)
	for _, line := range lines {
		if line.ComboID != nil {
			comboIDs = append(comboIDs, *line.ComboID)
		} else if line.ProductID != nil {
			itemIDs = append(itemIDs, *line.ProductID)
		}
	}

	combos, err := f.combos.FindByIDs(ctx, comboIDs)
	if err != nil {
		return nil, nil, err
	}
	cat := make(pricing.Catalog, len(combos))
	for i := range combos {
		combo := &combos[i]
		cat[combo.ID] = combo
		for _, item := range combo.LineItems {
			itemIDs = append(itemIDs, item.ProductID)
		}
	}

	items, err := f.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, nil, err
	}
	index := make(map[uuid.UUID]*catalog.InventoryItem, len(items))
	for i := range items {
		index[items[i].ID] = &items[i]
	}
	return cat, index, nil
}

// buildCart resolves each input line to a priceable cart line and
// accumulates the stock requirements of the whole cart in line order
func (f *OrderFinalizer) buildCart(
	lines []CartLineInput,
	cat pricing.Catalog,
	index map[uuid.UUID]*catalog.InventoryItem,
) (pricing.Cart, *inventory.Requirements, error) {
	cart := make(pricing.Cart, 0, len(lines))
	reqs := inventory.NewRequirements()

	for _, input := range lines {
		if input.ComboID != nil {
			combo, ok := cat.Combo(*input.ComboID)
			if !ok {
				return nil, nil, shared.NewDomainError(shared.ErrNotFound.Code,
					"combo "+input.ComboID.String()+" not found")
			}

			selections := toSelections(input.Selections)
			lineup, violations := f.validator.ResolveFinalLineup(combo, selections, index)
			if len(violations) > 0 {
				return nil, nil, joinViolations(violations)
			}
			for _, entry := range lineup {
				reqs.Add(entry.Item.ID, entry.Quantity*input.Quantity)
			}

			cart = append(cart, pricing.CartLine{
				ComboID:    input.ComboID,
				Quantity:   input.Quantity,
				UnitPrice:  combo.BasePrice,
				Selections: selections,
			})
			continue
		}

		item, ok := index[*input.ProductID]
		if !ok {
			return nil, nil, shared.NewDomainError(shared.ErrNotFound.Code,
				"inventory item "+input.ProductID.String()+" not found")
		}
		reqs.Add(item.ID, input.Quantity)
		cart = append(cart, pricing.CartLine{
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return cart, reqs, nil
}

// toOrderLines converts priced cart lines to order line items
func (f *OrderFinalizer) toOrderLines(
	priced []pricing.PricedLine,
	cat pricing.Catalog,
	index map[uuid.UUID]*catalog.InventoryItem,
	now time.Time,
) []sales.OrderLineItem {
	lines := make([]sales.OrderLineItem, 0, len(priced))
	for _, p := range priced {
		line := sales.OrderLineItem{
			BaseEntity:     shared.NewBaseEntityAt(now),
			ComboID:        p.ComboID,
			ProductID:      p.ProductID,
			Quantity:       p.Quantity,
			UnitPrice:      p.UnitPrice,
			FinalUnitPrice: p.FinalUnitPrice,
		}
		if p.IsCombo() {
			if combo, ok := cat.Combo(*p.ComboID); ok {
				line.Description = combo.Name
			}
		} else if item, ok := index[*p.ProductID]; ok {
			line.Description = item.Name
		}
		if p.Discount != nil {
			ruleID := p.Discount.RuleID
			line.DiscountRuleID = &ruleID
			line.DiscountKind = string(p.Discount.Kind)
			line.DiscountPercentage = p.Discount.Percentage
		}
		lines = append(lines, line)
	}
	return lines
}

// publishEvents forwards the order's recorded events when a publisher is
// wired; delivery failures are logged, not surfaced
func (f *OrderFinalizer) publishEvents(ctx context.Context, order *sales.Order) {
	if f.publisher == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		if err := f.publisher.Publish(ctx, event); err != nil {
			f.logger.Warn("event publish failed",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	order.ClearDomainEvents()
}

// joinViolations folds validation violations into one domain error
func joinViolations(violations []error) error {
	messages := make([]string, 0, len(violations))
	for _, v := range violations {
		messages = append(messages, v.Error())
	}
	return shared.NewValidationError(strings.Join(messages, "; "))
}
