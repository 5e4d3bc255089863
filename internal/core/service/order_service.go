package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/armando/shop-api/internal/core/domain"
	"github.com/armando/shop-api/internal/port"
)

// ItemRequest is one requested order line: which product and how many.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// OrderService is the order transaction engine. Each mutating operation runs
// as one all-or-nothing transaction over the product and order state: either
// every stock adjustment and order write commits, or none do.
type OrderService struct {
	store port.OrderStore
	users port.UserRepository
}

func NewOrderService(store port.OrderStore, users port.UserRepository) *OrderService {
	return &OrderService{store: store, users: users}
}

// Create builds a new order for the resolved owner. Items are processed in
// input order; two lines naming the same product are checked cumulatively
// because each read sees the transaction's earlier decrements.
func (s *OrderService) Create(ctx context.Context, ident domain.Identity, items []ItemRequest) (*domain.Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	owner, err := s.users.FindUserByEmail(ctx, ident.Email)
	if err != nil {
		return nil, err
	}

	var created *domain.Order
	err = s.inTx(ctx, func(tx port.Tx) error {
		now := time.Now().UTC()
		order := &domain.Order{
			ID:          uuid.NewString(),
			OwnerUserID: owner.ID,
			OwnerEmail:  owner.Email,
			CreatedAt:   now,
			CreatedBy:   ident.Email,
			UpdatedAt:   now,
			UpdatedBy:   ident.Email,
		}
		if err := applyItems(ctx, tx, order, items); err != nil {
			return err
		}
		order.RecalcTotal()
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update wholesale-replaces the order's items: every existing line is
// restocked, the list is cleared, and the new lines go through the same
// validate/decrement/append loop as Create. A failure partway through rolls
// back the restock too, leaving order and stock exactly as they were.
func (s *OrderService) Update(ctx context.Context, orderID string, ident domain.Identity, items []ItemRequest) (*domain.Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	requester, err := s.users.FindUserByEmail(ctx, ident.Email)
	if err != nil {
		return nil, err
	}

	var updated *domain.Order
	err = s.inTx(ctx, func(tx port.Tx) error {
		order, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.OwnerUserID != requester.ID {
			return fmt.Errorf("order %s: %w", orderID, domain.ErrForbidden)
		}

		for _, it := range order.Items {
			if err := tx.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		order.Items = nil

		if err := applyItems(ctx, tx, order, items); err != nil {
			return err
		}
		order.RecalcTotal()
		order.UpdatedAt = time.Now().UTC()
		order.UpdatedBy = ident.Email

		if err := tx.ReplaceOrder(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete restocks every line item and removes the aggregate.
func (s *OrderService) Delete(ctx context.Context, orderID string, ident domain.Identity) error {
	requester, err := s.users.FindUserByEmail(ctx, ident.Email)
	if err != nil {
		return err
	}

	return s.inTx(ctx, func(tx port.Tx) error {
		order, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.OwnerUserID != requester.ID {
			return fmt.Errorf("order %s: %w", orderID, domain.ErrForbidden)
		}
		for _, it := range order.Items {
			if err := tx.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return tx.DeleteOrder(ctx, order)
	})
}

// GetMine returns the requester's order. An order owned by someone else is
// reported as not found so the existence of other users' orders never leaks.
func (s *OrderService) GetMine(ctx context.Context, orderID string, ident domain.Identity) (*domain.Order, error) {
	requester, err := s.users.FindUserByEmail(ctx, ident.Email)
	if err != nil {
		return nil, err
	}
	return s.store.FindOrderOwnedBy(ctx, orderID, requester.ID)
}

// ListMine returns the requester's orders, most recently created first.
func (s *OrderService) ListMine(ctx context.Context, ident domain.Identity) ([]domain.Order, error) {
	requester, err := s.users.FindUserByEmail(ctx, ident.Email)
	if err != nil {
		return nil, err
	}
	return s.store.FindOrdersByOwner(ctx, requester.ID)
}

// inTx commits fn atomically, retrying once when the store reports a lost
// race on stock. The closure must build all of its state from the tx so a
// retry starts clean.
func (s *OrderService) inTx(ctx context.Context, fn func(tx port.Tx) error) error {
	err := s.store.InTx(ctx, fn)
	if errors.Is(err, domain.ErrConflict) {
		err = s.store.InTx(ctx, fn)
	}
	return err
}

func applyItems(ctx context.Context, tx port.Tx, order *domain.Order, items []ItemRequest) error {
	for _, req := range items {
		p, err := tx.ProductForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if p.Stock < req.Quantity {
			return &domain.InsufficientStockError{
				ProductName: p.Name,
				Requested:   req.Quantity,
				Available:   p.Stock,
			}
		}
		if err := tx.AdjustStock(ctx, p.ID, -req.Quantity); err != nil {
			return err
		}
		order.Items = append(order.Items, domain.NewOrderItem(p, req.Quantity))
	}
	return nil
}

func validateItems(items []ItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("items must not be empty: %w", domain.ErrInvalidArgument)
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return fmt.Errorf("quantity must be > 0: %w", domain.ErrInvalidArgument)
		}
	}
	return nil
}
