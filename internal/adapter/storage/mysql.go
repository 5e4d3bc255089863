package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/armando/shop-api/internal/core/domain"
)

// schemaStatements is the DDL applied once on startup, in order. MySQL does
// not allow multiple statements per Exec by default, hence the slice.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		display_name  VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(32)  NOT NULL DEFAULT 'user',
		created_at    DATETIME(6)  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id         BIGINT AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(255)  NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		stock      INT           NOT NULL,
		created_at DATETIME(6)   NOT NULL,
		updated_at DATETIME(6)   NOT NULL,
		CONSTRAINT chk_products_stock CHECK (stock >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id         CHAR(36)      PRIMARY KEY,
		user_id    BIGINT        NOT NULL,
		total      DECIMAL(12,2) NOT NULL,
		created_at DATETIME(6)   NOT NULL,
		created_by VARCHAR(255)  NOT NULL,
		updated_at DATETIME(6)   NOT NULL,
		updated_by VARCHAR(255)  NOT NULL,
		INDEX idx_orders_owner (user_id, created_at),
		CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
	// product_id carries no foreign key: items snapshot name and price, and
	// a committed order must survive the product being deleted later.
	`CREATE TABLE IF NOT EXISTS order_items (
		id           BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id     CHAR(36)      NOT NULL,
		product_id   BIGINT        NOT NULL,
		product_name VARCHAR(255)  NOT NULL,
		quantity     INT           NOT NULL,
		unit_price   DECIMAL(12,2) NOT NULL,
		subtotal     DECIMAL(12,2) NOT NULL,
		INDEX idx_order_items_order (order_id),
		CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders (id)
	)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// translateMySQLError maps engine-level serialization failures onto the
// domain conflict kind so the caller can retry the whole transaction.
func translateMySQLError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDeadlock, mysqlErrLockWaitTimeout:
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		case mysqlErrDuplicateEntry:
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
	}
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx so the scan helpers can
// serve transactional and plain reads alike.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanProduct(row *sql.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func loadOrderItems(ctx context.Context, q querier, orderID string) ([]domain.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
