package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTransactionManager implements shared.TransactionManager by carrying
// the transactional *gorm.DB in the context. Repositories built in this
// package resolve their connection through dbFromContext, so everything
// called inside WithinTransaction joins the same transaction.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new transaction manager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTransaction runs fn inside one database transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// already inside a transaction, join it
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transaction carried by ctx, or fallback
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
