package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/armando/shop-api/internal/core/domain"
	"github.com/armando/shop-api/internal/port"
)

func seedMemProduct(t *testing.T, store *MemoryStore, stock int) int64 {
	t.Helper()
	p := &domain.Product{
		Name:      "widget",
		UnitPrice: decimal.RequireFromString("9.99"),
		Stock:     stock,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := store.InsertProduct(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p.ID
}

func TestInTx_ErrorDiscardsAllWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	pid := seedMemProduct(t, store, 10)

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx port.Tx) error {
		if err := tx.AdjustStock(ctx, pid, -3); err != nil {
			return err
		}
		if err := tx.InsertOrder(ctx, &domain.Order{ID: "o-1", OwnerUserID: 1}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	p, err := store.FindProduct(ctx, pid)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if p.Stock != 10 {
		t.Errorf("expected stock 10 after rollback, got %d", p.Stock)
	}
	if _, err := store.FindOrderOwnedBy(ctx, "o-1", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected order discarded, got %v", err)
	}
}

func TestInTx_CommitIsVisible(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	pid := seedMemProduct(t, store, 10)

	err := store.InTx(ctx, func(tx port.Tx) error {
		return tx.AdjustStock(ctx, pid, -4)
	})
	if err != nil {
		t.Fatalf("tx failed: %v", err)
	}

	p, _ := store.FindProduct(ctx, pid)
	if p.Stock != 6 {
		t.Errorf("expected stock 6, got %d", p.Stock)
	}
}

func TestInTx_SeesOwnWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	pid := seedMemProduct(t, store, 10)

	err := store.InTx(ctx, func(tx port.Tx) error {
		if err := tx.AdjustStock(ctx, pid, -7); err != nil {
			return err
		}
		p, err := tx.ProductForUpdate(ctx, pid)
		if err != nil {
			return err
		}
		if p.Stock != 3 {
			t.Errorf("expected tx-local stock 3, got %d", p.Stock)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx failed: %v", err)
	}
}

func TestAdjustStock_NeverGoesNegative(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	pid := seedMemProduct(t, store, 2)

	err := store.InTx(ctx, func(tx port.Tx) error {
		return tx.AdjustStock(ctx, pid, -3)
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	p, _ := store.FindProduct(ctx, pid)
	if p.Stock != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", p.Stock)
	}
}

func TestMemoryTokenBlacklist_Expiry(t *testing.T) {
	bl := NewMemoryTokenBlacklist()
	ctx := context.Background()

	if err := bl.Revoke(ctx, "tok", 50*time.Millisecond); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := bl.IsRevoked(ctx, "tok")
	if err != nil || !revoked {
		t.Fatalf("expected revoked, got %v %v", revoked, err)
	}

	time.Sleep(60 * time.Millisecond)
	revoked, err = bl.IsRevoked(ctx, "tok")
	if err != nil || revoked {
		t.Fatalf("expected expiry to clear revocation, got %v %v", revoked, err)
	}
}
