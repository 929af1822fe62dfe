package shared

import "context"

// TransactionManager runs a function inside a single atomic persistence
// unit. Repositories called with the context passed to fn participate in
// the same transaction, so a stock reservation, the order insert and the
// shift update either all commit or all roll back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
