package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an aggregate: the order row plus its line items form one
// consistency unit. Items never outlive their order. The owner reference is
// immutable after creation.
type Order struct {
	ID          string
	OwnerUserID int64
	OwnerEmail  string
	Items       []OrderItem
	Total       decimal.Decimal
	CreatedAt   time.Time
	CreatedBy   string
	UpdatedAt   time.Time
	UpdatedBy   string
}

// OrderItem snapshots the product name and unit price at order time.
// Later catalog changes never alter a committed order.
type OrderItem struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

func NewOrderItem(p *Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.UnitPrice,
		Subtotal:    p.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// RecalcTotal restores the invariant total == sum of item subtotals.
func (o *Order) RecalcTotal() {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal)
	}
	o.Total = total
}
