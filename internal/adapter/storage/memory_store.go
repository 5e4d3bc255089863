package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/armando/shop-api/internal/core/domain"
	"github.com/armando/shop-api/internal/port"
)

// MemoryStore backs all repository ports with in-process maps. Transactions
// run against staged clones under a single mutex, so a failed transaction
// leaves the live maps untouched and concurrent transactions serialize.
// Used by the test suites and handy for running the server without MySQL.
type MemoryStore struct {
	mu            sync.Mutex
	products      map[int64]*domain.Product
	users         map[int64]*domain.User
	orders        map[string]*domain.Order
	nextProductID int64
	nextUserID    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]*domain.Product),
		users:    make(map[int64]*domain.User),
		orders:   make(map[string]*domain.Order),
	}
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(tx port.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		products: cloneProducts(s.products),
		orders:   cloneOrders(s.orders),
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.products = tx.products
	s.orders = tx.orders
	return nil
}

func (s *MemoryStore) FindOrderOwnedBy(ctx context.Context, orderID string, userID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok || o.OwnerUserID != userID {
		return nil, fmt.Errorf("order: %w", domain.ErrNotFound)
	}
	return cloneOrder(o), nil
}

func (s *MemoryStore) FindOrdersByOwner(ctx context.Context, userID int64) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []domain.Order
	for _, o := range s.orders {
		if o.OwnerUserID == userID {
			orders = append(orders, *cloneOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (s *MemoryStore) InsertUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
	}
	s.nextUserID++
	u.ID = s.nextUserID
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) FindProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var products []domain.Product
	for _, p := range s.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *MemoryStore) InsertProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	p.ID = s.nextProductID
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return fmt.Errorf("product %d: %w", p.ID, domain.ErrNotFound)
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	delete(s.products, productID)
	return nil
}

type memTx struct {
	products map[int64]*domain.Product
	orders   map[string]*domain.Order
}

func (t *memTx) ProductForUpdate(ctx context.Context, productID int64) (*domain.Product, error) {
	p, ok := t.products[productID]
	if !ok {
		return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
	}
	return p, nil
}

func (t *memTx) AdjustStock(ctx context.Context, productID int64, delta int) error {
	p, ok := t.products[productID]
	if !ok {
		return fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	if p.Stock+delta < 0 {
		return fmt.Errorf("stock update lost race on product %d: %w", productID, domain.ErrConflict)
	}
	p.Stock += delta
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *memTx) OrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	o, ok := t.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order: %w", domain.ErrNotFound)
	}
	return o, nil
}

func (t *memTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	if _, ok := t.orders[o.ID]; ok {
		return fmt.Errorf("order %s already exists: %w", o.ID, domain.ErrConflict)
	}
	t.orders[o.ID] = cloneOrder(o)
	return nil
}

func (t *memTx) ReplaceOrder(ctx context.Context, o *domain.Order) error {
	if _, ok := t.orders[o.ID]; !ok {
		return fmt.Errorf("order: %w", domain.ErrNotFound)
	}
	t.orders[o.ID] = cloneOrder(o)
	return nil
}

func (t *memTx) DeleteOrder(ctx context.Context, o *domain.Order) error {
	delete(t.orders, o.ID)
	return nil
}

func cloneProducts(src map[int64]*domain.Product) map[int64]*domain.Product {
	dst := make(map[int64]*domain.Product, len(src))
	for id, p := range src {
		cp := *p
		dst[id] = &cp
	}
	return dst
}

func cloneOrders(src map[string]*domain.Order) map[string]*domain.Order {
	dst := make(map[string]*domain.Order, len(src))
	for id, o := range src {
		dst[id] = cloneOrder(o)
	}
	return dst
}

func cloneOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp
}

// MemoryTokenBlacklist is the in-process TokenBlacklist counterpart.
type MemoryTokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{revoked: make(map[string]time.Time)}
}

func (b *MemoryTokenBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = time.Now().Add(ttl)
	return nil
}

func (b *MemoryTokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	until, ok := b.revoked[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(b.revoked, token)
		return false, nil
	}
	return true, nil
}
