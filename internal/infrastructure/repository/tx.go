package repository

import (
	"context"

	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

type txManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a GORM-backed transaction manager. The
// transaction handle travels in the context, so repositories called inside
// fn automatically join the transaction.
func NewTransactionManager(db *gorm.DB) domainRepo.TransactionManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn resolves the transaction from the context when one is in progress,
// falling back to the root connection.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
