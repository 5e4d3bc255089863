package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/armando/shop-api/internal/core/domain"
)

type MySQLCatalog struct {
	db *sql.DB
}

func NewMySQLCatalog(db *sql.DB) *MySQLCatalog {
	return &MySQLCatalog{db: db}
}

func (c *MySQLCatalog) FindProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, name, unit_price, stock, created_at, updated_at
		FROM products WHERE id = ?`, productID)
	return scanProduct(row)
}

func (c *MySQLCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, unit_price, stock, created_at, updated_at
		FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (c *MySQLCatalog) InsertProduct(ctx context.Context, p *domain.Product) error {
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO products (name, unit_price, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.UnitPrice, p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (c *MySQLCatalog) UpdateProduct(ctx context.Context, p *domain.Product) error {
	res, err := c.db.ExecContext(ctx, `
		UPDATE products SET name = ?, unit_price = ?, stock = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.UnitPrice, p.Stock, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("product %d: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (c *MySQLCatalog) DeleteProduct(ctx context.Context, productID int64) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	return nil
}
