package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/quickserve/backend/internal/domain/shared"
)

// Requirement is the total quantity an order needs of one inventory item
type Requirement struct {
	ProductID uuid.UUID
	Quantity  int
}

// Requirements accumulates per-item quantities while preserving the order
// in which items were first added. Insufficiency reporting depends on that
// order: the first item added that cannot be covered is the one reported.
type Requirements struct {
	order      []uuid.UUID
	quantities map[uuid.UUID]int
}

// NewRequirements creates an empty requirement accumulator
func NewRequirements() *Requirements {
	return &Requirements{quantities: make(map[uuid.UUID]int)}
}

// Add accumulates quantity for an item, registering it on first sight
func (r *Requirements) Add(productID uuid.UUID, quantity int) {
	if _, seen := r.quantities[productID]; !seen {
		r.order = append(r.order, productID)
	}
	r.quantities[productID] += quantity
}

// Items returns the requirements in first-added order
func (r *Requirements) Items() []Requirement {
	items := make([]Requirement, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, Requirement{ProductID: id, Quantity: r.quantities[id]})
	}
	return items
}

// IsEmpty returns true when nothing has been added
func (r *Requirements) IsEmpty() bool {
	return len(r.order) == 0
}

// Decrement is one conditional stock write: take Quantity off ProductID
// only while the stored level still equals Expected.
type Decrement struct {
	ProductID uuid.UUID
	Expected  int
	Quantity  int
}

// Store is the persistence port the ledger reserves against
type Store interface {
	// StockLevels returns the current level per requested item. A missing
	// item is absent from the map.
	StockLevels(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	// DecrementAll applies every decrement, each conditional on its
	// Expected level. If any level moved it applies nothing and returns
	// ErrStale.
	DecrementAll(ctx context.Context, decs []Decrement) error
}

// ErrStale signals that a conditional decrement lost to a concurrent
// writer and the snapshot must be retaken
var ErrStale = errors.New("stock level changed since snapshot")

// Reservation reports the outcome of a successful reserve: the level each
// item was left at
type Reservation struct {
	Levels map[uuid.UUID]int
}

const defaultReserveRetries = 3

// StockLedger reserves stock atomically across all items of an order. It
// snapshots current levels, verifies every requirement fits, then writes
// conditional decrements; a concurrent change restarts the cycle. Either
// every decrement lands or none does.
type StockLedger struct {
	store   Store
	retries int
}

// StockLedgerOption configures a StockLedger
type StockLedgerOption func(*StockLedger)

// WithMaxRetries overrides how many times a lost conditional write is
// retried before giving up with a conflict
func WithMaxRetries(n int) StockLedgerOption {
	return func(l *StockLedger) {
		if n > 0 {
			l.retries = n
		}
	}
}

// NewStockLedger creates a ledger over a stock store
func NewStockLedger(store Store, opts ...StockLedgerOption) *StockLedger {
	l := &StockLedger{store: store, retries: defaultReserveRetries}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reserve decrements stock for every requirement or for none. Insufficient
// stock surfaces as an InsufficientStockError naming the first short item
// in requirement order; exhausting the retry budget on lost conditional
// writes surfaces as ErrConflict.
func (l *StockLedger) Reserve(ctx context.Context, reqs *Requirements) (*Reservation, error) {
	if reqs == nil || reqs.IsEmpty() {
		return nil, shared.NewValidationError("nothing to reserve")
	}

	items := reqs.Items()
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	for attempt := 0; attempt < l.retries; attempt++ {
		levels, err := l.store.StockLevels(ctx, ids)
		if err != nil {
			return nil, err
		}

		decs := make([]Decrement, 0, len(items))
		result := make(map[uuid.UUID]int, len(items))
		for _, item := range items {
			available, ok := levels[item.ProductID]
			if !ok {
				return nil, shared.NewDomainError(shared.ErrNotFound.Code,
					"inventory item "+item.ProductID.String()+" not found")
			}
			if available < item.Quantity {
				return nil, &shared.InsufficientStockError{
					ProductID: item.ProductID,
					Available: available,
					Required:  item.Quantity,
				}
			}
			decs = append(decs, Decrement{
				ProductID: item.ProductID,
				Expected:  available,
				Quantity:  item.Quantity,
			})
			result[item.ProductID] = available - item.Quantity
		}

		err = l.store.DecrementAll(ctx, decs)
		if err == nil {
			return &Reservation{Levels: result}, nil
		}
		if !errors.Is(err, ErrStale) {
			return nil, err
		}
	}

	return nil, shared.ErrConflict
}
