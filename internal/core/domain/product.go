package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is never allowed below zero; every
// mutation site enforces the invariant, not just reads.
type Product struct {
	ID        int64
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
