package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/armando/shop-api/internal/core/domain"
	"github.com/armando/shop-api/internal/port"
)

// MySQLOrderStore persists order aggregates. All writes go through InTx,
// which backs the engine's all-or-nothing contract with a serializable
// MySQL transaction.
type MySQLOrderStore struct {
	db *sql.DB
}

func NewMySQLOrderStore(db *sql.DB) *MySQLOrderStore {
	return &MySQLOrderStore{db: db}
}

func (s *MySQLOrderStore) InTx(ctx context.Context, fn func(tx port.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&mysqlTx{tx: tx}); err != nil {
		return translateMySQLError(err)
	}
	if err := tx.Commit(); err != nil {
		return translateMySQLError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (s *MySQLOrderStore) FindOrderOwnedBy(ctx context.Context, orderID string, userID int64) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.user_id, u.email, o.total, o.created_at, o.created_by, o.updated_at, o.updated_by
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.id = ? AND o.user_id = ?`, orderID, userID)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	o.Items, err = loadOrderItems(ctx, s.db, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *MySQLOrderStore) FindOrdersByOwner(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.user_id, u.email, o.total, o.created_at, o.created_by, o.updated_at, o.updated_by
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.user_id = ?
		ORDER BY o.created_at DESC, o.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OwnerUserID, &o.OwnerEmail, &o.Total,
			&o.CreatedAt, &o.CreatedBy, &o.UpdatedAt, &o.UpdatedBy); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items, err = loadOrderItems(ctx, s.db, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.OwnerUserID, &o.OwnerEmail, &o.Total,
		&o.CreatedAt, &o.CreatedBy, &o.UpdatedAt, &o.UpdatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}

type mysqlTx struct {
	tx *sql.Tx
}

func (t *mysqlTx) ProductForUpdate(ctx context.Context, productID int64) (*domain.Product, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, name, unit_price, stock, created_at, updated_at
		FROM products WHERE id = ? FOR UPDATE`, productID)
	return scanProduct(row)
}

func (t *mysqlTx) AdjustStock(ctx context.Context, productID int64, delta int) error {
	// Guarded update: the WHERE clause re-checks the invariant against the
	// current row, so stock can never be driven below zero even if the
	// caller's earlier read was stale.
	res, err := t.tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + ?, updated_at = NOW(6)
		WHERE id = ? AND stock + ? >= 0`,
		delta, productID, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		var one int
		err := t.tx.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, productID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		return fmt.Errorf("stock update lost race on product %d: %w", productID, domain.ErrConflict)
	}
	return nil
}

func (t *mysqlTx) OrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT o.id, o.user_id, u.email, o.total, o.created_at, o.created_by, o.updated_at, o.updated_by
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.id = ? FOR UPDATE`, orderID)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	o.Items, err = loadOrderItems(ctx, t.tx, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (t *mysqlTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total, created_at, created_by, updated_at, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.OwnerUserID, o.Total, o.CreatedAt, o.CreatedBy, o.UpdatedAt, o.UpdatedBy)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return t.insertItems(ctx, o)
}

func (t *mysqlTx) ReplaceOrder(ctx context.Context, o *domain.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE orders SET total = ?, updated_at = ?, updated_by = ? WHERE id = ?`,
		o.Total, o.UpdatedAt, o.UpdatedBy, o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, o.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return t.insertItems(ctx, o)
}

func (t *mysqlTx) DeleteOrder(ctx context.Context, o *domain.Order) error {
	// Items first: the aggregate owns them, and the FK requires it.
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, o.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, o.ID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (t *mysqlTx) insertItems(ctx context.Context, o *domain.Order) error {
	for _, it := range o.Items {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal)
			VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}
