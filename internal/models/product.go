package models

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryPakaian    Category = "Pakaian"
	CategoryElektronik Category = "Elektronik"
	CategoryMakanan    Category = "Makanan"
)

// CategoryAll is the catalog filter value that matches every category.
// It is never stored on a product.
const CategoryAll = "all"

type SortMode string

const (
	SortDefault   SortMode = "default"
	SortPriceLow  SortMode = "low"
	SortPriceHigh SortMode = "high"
)

// Price is in the smallest currency unit. Stock is checked on add-to-cart
// and buy-now but never decremented by order creation.
type Product struct {
	ID            uuid.UUID `json:"id"`
	SellerID      uuid.UUID `json:"seller_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	StockQuantity int64     `json:"stock_quantity"`
	Category      Category  `json:"category"`
	ImageURL      string    `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name          string `json:"name" validate:"required,min=3,max=200"`
	Description   string `json:"description,omitempty"`
	Price         int64  `json:"price" validate:"gte=0"`
	StockQuantity int64  `json:"stock_quantity" validate:"gte=0"`
	Category      string `json:"category" validate:"required,oneof=Pakaian Elektronik Makanan"`
	ImageURL      string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description   *string `json:"description,omitempty"`
	Price         *int64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	StockQuantity *int64  `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Category      *string `json:"category,omitempty" validate:"omitempty,oneof=Pakaian Elektronik Makanan"`
	ImageURL      *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// ProductQuery is the browse-screen view over a product listing:
// substring name search, exact category match, price sort.
type ProductQuery struct {
	Search   string
	Category string
	Sort     SortMode
}

// ProductDetail joins a product with its seller's contact email for the
// product detail screen.
type ProductDetail struct {
	Product     *Product `json:"product"`
	SellerEmail string   `json:"seller_email,omitempty"`
}
