package validation

import "github.com/imrishuroy/go-storefront/internal/money"

// CreateProductRequest is the payload for POST /api/products
type CreateProductRequest struct {
	Title       string        `json:"title" validate:"notblank,max=200"`
	Description string        `json:"description" validate:"notblank,max=5000"`
	Price       *money.Amount `json:"price" validate:"required"`
	SalePrice   *money.Amount `json:"salePrice,omitempty"` // optional, must differ from price
	Category    string        `json:"category" validate:"notblank,max=100"`
	Brand       string        `json:"brand" validate:"notblank,max=100"`
	TotalStock  *int          `json:"totalStock" validate:"required,min=0"`
	Image       string        `json:"image" validate:"notblank,imageurl"`
}

// UpdateProductRequest is the payload for PUT /api/products/:id. Absent
// fields are left unchanged; salePrice: null clears the sale price.
type UpdateProductRequest struct {
	Title       *string                `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string                `json:"description" validate:"omitempty,notblank,max=5000"`
	Price       *money.Amount          `json:"price"`
	SalePrice   Optional[money.Amount] `json:"salePrice"`
	Category    *string                `json:"category" validate:"omitempty,notblank,max=100"`
	Brand       *string                `json:"brand" validate:"omitempty,notblank,max=100"`
	TotalStock  *int                   `json:"totalStock" validate:"omitempty,min=0"`
	Image       *string                `json:"image" validate:"omitempty,notblank,imageurl"`
}

// CartItemRequest is the payload for POST and PUT /api/cart
type CartItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"` // bcrypt input limit
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
