package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type txContextKey struct{}

// ErrNoTransaction is returned by Serialize outside RunInTx.
var ErrNoTransaction = errors.New("no transaction in context")

// TransactionManager runs service work in one database transaction that
// repositories pick up from the context.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
	// Serialize holds a transaction-scoped lock on key until the surrounding
	// RunInTx commits or rolls back. Used around sequence numbering.
	Serialize(txCtx context.Context, key string) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func (t *transactionManager) Serialize(txCtx context.Context, key string) error {
	tx, ok := txCtx.Value(txContextKey{}).(*gorm.DB)
	if !ok {
		return ErrNoTransaction
	}
	return tx.WithContext(txCtx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// GetDB returns the transaction carried by ctx, or rootDB outside one.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
