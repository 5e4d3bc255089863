package port

import (
	"context"

	"github.com/armando/shop-api/internal/core/domain"
)

// CatalogRepository is the non-transactional product surface used by the
// catalog management endpoints. Stock mutations tied to orders go through
// Tx.AdjustStock instead.
type CatalogRepository interface {
	FindProduct(ctx context.Context, productID int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	InsertProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, productID int64) error
}
