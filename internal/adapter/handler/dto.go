package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/armando/shop-api/internal/core/domain"
	"github.com/armando/shop-api/internal/core/service"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type productRequest struct {
	Name      string          `json:"name" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     int             `json:"stock"`
}

type productResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     int             `json:"stock"`
}

// Quantity carries no binding rule on purpose: positivity is the engine's
// invariant and must fail there before any store mutation.
type orderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type orderRequest struct {
	Items []orderItemRequest `json:"items"`
}

type orderItemResponse struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	OwnerUserID int64               `json:"ownerUserId"`
	OwnerEmail  string              `json:"ownerEmail"`
	Total       decimal.Decimal     `json:"total"`
	Items       []orderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	UpdatedBy   string              `json:"updatedBy"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.DisplayName, Email: u.Email, Role: u.Role}
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{ID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice, Stock: p.Stock}
}

func toItemRequests(items []orderItemRequest) []service.ItemRequest {
	out := make([]service.ItemRequest, 0, len(items))
	for _, it := range items {
		out = append(out, service.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// toOrderResponse flattens the persisted aggregate into the wire shape.
func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return orderResponse{
		ID:          o.ID,
		OwnerUserID: o.OwnerUserID,
		OwnerEmail:  o.OwnerEmail,
		Total:       o.Total,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		CreatedBy:   o.CreatedBy,
		UpdatedAt:   o.UpdatedAt,
		UpdatedBy:   o.UpdatedBy,
	}
}
