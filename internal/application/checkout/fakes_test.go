package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/domain/inventory"
	"github.com/quickserve/backend/internal/domain/sales"
	"github.com/quickserve/backend/internal/domain/shared"
)

// noopTx runs the function directly; the in-memory fakes have no
// transaction semantics to coordinate
type noopTx struct{}

func (noopTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memComboRepo struct {
	combos map[uuid.UUID]catalog.ComboDefinition
}

func newMemComboRepo(combos ...*catalog.ComboDefinition) *memComboRepo {
	r := &memComboRepo{combos: make(map[uuid.UUID]catalog.ComboDefinition)}
	for _, c := range combos {
		r.combos[c.ID] = *c
	}
	return r
}

func (r *memComboRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.ComboDefinition, error) {
	combo, ok := r.combos[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &combo, nil
}

func (r *memComboRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.ComboDefinition, error) {
	out := make([]catalog.ComboDefinition, 0, len(ids))
	for _, id := range ids {
		if combo, ok := r.combos[id]; ok {
			out = append(out, combo)
		}
	}
	return out, nil
}

func (r *memComboRepo) FindAll(_ context.Context) ([]catalog.ComboDefinition, error) {
	out := make([]catalog.ComboDefinition, 0, len(r.combos))
	for _, combo := range r.combos {
		out = append(out, combo)
	}
	return out, nil
}

func (r *memComboRepo) Save(_ context.Context, combo *catalog.ComboDefinition) error {
	r.combos[combo.ID] = *combo
	return nil
}

type memItemRepo struct {
	items map[uuid.UUID]catalog.InventoryItem
}

func newMemItemRepo(items ...*catalog.InventoryItem) *memItemRepo {
	r := &memItemRepo{items: make(map[uuid.UUID]catalog.InventoryItem)}
	for _, item := range items {
		r.items[item.ID] = *item
	}
	return r
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *memItemRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.InventoryItem, error) {
	seen := make(map[uuid.UUID]bool)
	out := make([]catalog.InventoryItem, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memItemRepo) Save(_ context.Context, item *catalog.InventoryItem) error {
	r.items[item.ID] = *item
	return nil
}

type memOrderRepo struct {
	orders map[uuid.UUID]*sales.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*sales.Order)}
}

func (r *memOrderRepo) Insert(_ context.Context, order *sales.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *memOrderRepo) ListByShift(_ context.Context, shiftID uuid.UUID) ([]*sales.Order, error) {
	out := make([]*sales.Order, 0)
	for _, order := range r.orders {
		if order.ShiftID == shiftID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *memOrderRepo) Update(_ context.Context, order *sales.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return shared.ErrNotFound
	}
	r.orders[order.ID] = order
	return nil
}

type memShiftRepo struct {
	shifts map[uuid.UUID]*sales.Shift
}

func newMemShiftRepo(shifts ...*sales.Shift) *memShiftRepo {
	r := &memShiftRepo{shifts: make(map[uuid.UUID]*sales.Shift)}
	for _, s := range shifts {
		r.shifts[s.ID] = s
	}
	return r
}

func (r *memShiftRepo) Save(_ context.Context, shift *sales.Shift) error {
	r.shifts[shift.ID] = shift
	return nil
}

func (r *memShiftRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Shift, error) {
	shift, ok := r.shifts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return shift, nil
}

func (r *memShiftRepo) FindOpenByEmployee(_ context.Context, employeeID uuid.UUID) (*sales.Shift, error) {
	for _, shift := range r.shifts {
		if shift.EmployeeID == employeeID && shift.IsOpen() {
			return shift, nil
		}
	}
	return nil, nil
}

func (r *memShiftRepo) Update(_ context.Context, shift *sales.Shift) error {
	if _, ok := r.shifts[shift.ID]; !ok {
		return shared.ErrNotFound
	}
	r.shifts[shift.ID] = shift
	return nil
}

// contendedShiftRepo always loses the shift row's version check on Update,
// as when another terminal committed first
type contendedShiftRepo struct {
	*memShiftRepo
}

func (r *contendedShiftRepo) Update(context.Context, *sales.Shift) error {
	return shared.ErrOptimisticLock
}

// memStockStore mirrors the conditional-write contract of the SQL store
type memStockStore struct {
	mu     sync.Mutex
	levels map[uuid.UUID]int
}

func newMemStockStore(levels map[uuid.UUID]int) *memStockStore {
	copied := make(map[uuid.UUID]int, len(levels))
	for id, qty := range levels {
		copied[id] = qty
	}
	return &memStockStore{levels: copied}
}

func (s *memStockStore) StockLevels(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		if qty, ok := s.levels[id]; ok {
			out[id] = qty
		}
	}
	return out, nil
}

func (s *memStockStore) DecrementAll(_ context.Context, decs []inventory.Decrement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, dec := range decs {
		if s.levels[dec.ProductID] != dec.Expected {
			return inventory.ErrStale
		}
	}
	for _, dec := range decs {
		s.levels[dec.ProductID] -= dec.Quantity
	}
	return nil
}
