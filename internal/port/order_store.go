package port

import (
	"context"

	"github.com/armando/shop-api/internal/core/domain"
)

// Tx is the transactional read-modify-write surface the order engine runs
// against. Every method sees the transaction's own earlier writes.
type Tx interface {
	// ProductForUpdate reads a product with an exclusive lock held until
	// the transaction ends.
	ProductForUpdate(ctx context.Context, productID int64) (*domain.Product, error)

	// AdjustStock applies a delta to a product's stock. Negative for a
	// sale, positive for a restock. Fails rather than let stock go below
	// zero: a guarded update that matches zero rows on an existing product
	// reports a conflict.
	AdjustStock(ctx context.Context, productID int64, delta int) error

	// OrderForUpdate reads an order aggregate with an exclusive lock.
	OrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error)

	InsertOrder(ctx context.Context, o *domain.Order) error

	// ReplaceOrder rewrites the order row and wholesale-replaces its items.
	ReplaceOrder(ctx context.Context, o *domain.Order) error

	// DeleteOrder removes the items first, then the order row.
	DeleteOrder(ctx context.Context, o *domain.Order) error
}

// OrderStore persists order aggregates and provides the serializable
// transactions the engine commits through.
type OrderStore interface {
	// InTx runs fn inside a single transaction. If fn returns an error the
	// transaction rolls back and nothing fn did is visible to anyone.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// FindOrderOwnedBy returns the order only if it exists and belongs to
	// the given user; absence and foreign ownership are indistinguishable.
	FindOrderOwnedBy(ctx context.Context, orderID string, userID int64) (*domain.Order, error)

	// FindOrdersByOwner returns the user's orders, most recent first.
	FindOrdersByOwner(ctx context.Context, userID int64) ([]domain.Order, error)
}
