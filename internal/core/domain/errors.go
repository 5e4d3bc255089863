package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all services. Wrapped with %w at the point of
// detection and propagated untouched; the HTTP layer maps each kind to a
// status code.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)

// InsufficientStockError names the product that could not cover the
// requested quantity.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
