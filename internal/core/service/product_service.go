package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/armando/shop-api/internal/core/domain"
	"github.com/armando/shop-api/internal/port"
)

type ProductService struct {
	catalog port.CatalogRepository
}

func NewProductService(catalog port.CatalogRepository) *ProductService {
	return &ProductService{catalog: catalog}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.ListProducts(ctx)
}

func (s *ProductService) Get(ctx context.Context, productID int64) (*domain.Product, error) {
	return s.catalog.FindProduct(ctx, productID)
}

func (s *ProductService) Create(ctx context.Context, name string, unitPrice decimal.Decimal, stock int) (*domain.Product, error) {
	if err := validateProduct(name, unitPrice, stock); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Product{
		Name:      name,
		UnitPrice: unitPrice,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.catalog.InsertProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, productID int64, name string, unitPrice decimal.Decimal, stock int) (*domain.Product, error) {
	if err := validateProduct(name, unitPrice, stock); err != nil {
		return nil, err
	}
	p, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.UnitPrice = unitPrice
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	if err := s.catalog.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, productID int64) error {
	return s.catalog.DeleteProduct(ctx, productID)
}

func validateProduct(name string, unitPrice decimal.Decimal, stock int) error {
	if name == "" {
		return fmt.Errorf("name is required: %w", domain.ErrInvalidArgument)
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("unit price must be >= 0: %w", domain.ErrInvalidArgument)
	}
	if stock < 0 {
		return fmt.Errorf("stock must be >= 0: %w", domain.ErrInvalidArgument)
	}
	return nil
}
