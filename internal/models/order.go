package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

// Orders are written in their terminal state. There is no pending or
// cancelled lifecycle in this workflow.
const OrderStatusCompleted OrderStatus = "completed"

// OrderItem is a copy of the cart line item at submission time, never a
// reference, so later product edits do not alter order history.
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	ImageURL  string    `json:"image_url"`
	Quantity  int64     `json:"quantity"`
}

func (i OrderItem) Subtotal() int64 {
	return i.Price * i.Quantity
}

type Order struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	Items          []OrderItem `json:"items"`
	TotalPrice     int64       `json:"total_price"`
	Status         OrderStatus `json:"status"`
	IdempotencyKey string      `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
}

// CheckoutRequest converts the caller's full cart into an order. The
// idempotency key is client-generated; replaying it returns the order it
// originally created.
type CheckoutRequest struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required,uuid4"`
}

// BuyNowRequest orders a single product directly, bypassing the cart.
type BuyNowRequest struct {
	ProductID      uuid.UUID `json:"product_id" validate:"required"`
	Quantity       int64     `json:"quantity" validate:"required,min=1"`
	IdempotencyKey string    `json:"idempotency_key" validate:"required,uuid4"`
}

type OrderHistoryResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
}
