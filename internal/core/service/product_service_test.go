package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armando/shop-api/internal/adapter/storage"
	"github.com/armando/shop-api/internal/core/domain"
)

func TestProductCRUD(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewProductService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, "keyboard", decimal.RequireFromString("2500.00"), 10)
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "keyboard", got.Name)
	assert.Equal(t, 10, got.Stock)

	updated, err := svc.Update(ctx, p.ID, "mechanical keyboard", decimal.RequireFromString("2700.00"), 7)
	require.NoError(t, err)
	assert.Equal(t, "mechanical keyboard", updated.Name)
	assert.Equal(t, 7, updated.Stock)
	assert.True(t, updated.UnitPrice.Equal(decimal.RequireFromString("2700.00")))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductValidation(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewProductService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", decimal.RequireFromString("10.00"), 1)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Create(ctx, "keyboard", decimal.RequireFromString("-1.00"), 1)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Create(ctx, "keyboard", decimal.RequireFromString("10.00"), -1)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestProduct_UpdateMissing(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewProductService(store)

	_, err := svc.Update(context.Background(), 404, "keyboard", decimal.RequireFromString("10.00"), 1)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
