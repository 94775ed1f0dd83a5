package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem carries a denormalized snapshot of the product taken when the
// item was first added. Incrementing the quantity later does not refresh
// the snapshot, so it can drift from the live catalog.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	ImageURL  string    `json:"image_url"`
	Quantity  int64     `json:"quantity"`
}

func (i CartItem) Subtotal() int64 {
	return i.Price * i.Quantity
}

// Cart is keyed by user id, one cart per user, created lazily on first
// add. Items are unique by product id.
type Cart struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Items     map[string]CartItem `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}

	return total
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"min=0"`
}
