package repository

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// CartRepository stores one cart per buyer.
type CartRepository interface {
	// FindByBuyer returns the buyer's cart, or an empty cart when none is stored.
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) (*entity.Cart, error)

	// Save replaces the buyer's cart.
	Save(ctx context.Context, cart *entity.Cart) error

	// Delete removes the buyer's cart. Deleting a missing cart is not an error.
	Delete(ctx context.Context, buyerID uuid.UUID) error
}
