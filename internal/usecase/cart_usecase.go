package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// CartUsecase defines the interface for a buyer's cart.
type CartUsecase interface {
	GetCart(ctx context.Context, buyerID uuid.UUID) (*entity.Cart, error)
	// AddItem adds the line, or increases the quantity of a matching line.
	AddItem(ctx context.Context, buyerID uuid.UUID, input *AddCartItemInput) (*entity.Cart, error)
	// UpdateItemQuantity sets a line's quantity; zero removes the line.
	UpdateItemQuantity(ctx context.Context, buyerID uuid.UUID, input *UpdateCartItemInput) (*entity.Cart, error)
	RemoveItem(ctx context.Context, buyerID uuid.UUID, input *RemoveCartItemInput) (*entity.Cart, error)
	Clear(ctx context.Context, buyerID uuid.UUID) error
}

// --- Input DTOs ---

// AddCartItemInput defines the data required to add a line to the cart.
type AddCartItemInput struct {
	StoreID   int64  `json:"store_id" validate:"required"`
	ProductID int64  `json:"product_id" validate:"required"`
	Option    string `json:"option,omitempty"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// UpdateCartItemInput defines the new quantity of a cart line.
type UpdateCartItemInput struct {
	StoreID   int64  `json:"store_id" validate:"required"`
	ProductID int64  `json:"product_id" validate:"required"`
	Option    string `json:"option,omitempty"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// RemoveCartItemInput identifies the cart line to remove.
type RemoveCartItemInput struct {
	StoreID   int64  `json:"store_id" validate:"required"`
	ProductID int64  `json:"product_id" validate:"required"`
	Option    string `json:"option,omitempty"`
}
