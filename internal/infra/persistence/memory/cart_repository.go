package memory

import (
	"context"
	"slices"
	"sync"

	"market/internal/domain/entity"
	"market/internal/domain/repository"

	"github.com/google/uuid"
)

type cartRepository struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]entity.Cart
}

// NewCartRepository returns a process-local cart repository.
func NewCartRepository() repository.CartRepository {
	return &cartRepository{carts: map[uuid.UUID]entity.Cart{}}
}

func (r *cartRepository) FindByBuyer(_ context.Context, buyerID uuid.UUID) (*entity.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[buyerID]
	if !ok {
		return entity.NewCart(buyerID), nil
	}
	cart.Items = slices.Clone(cart.Items)

	return &cart, nil
}

func (r *cartRepository) Save(_ context.Context, cart *entity.Cart) error {
	stored := *cart
	stored.Items = slices.Clone(cart.Items)

	r.mu.Lock()
	r.carts[cart.BuyerID] = stored
	r.mu.Unlock()

	return nil
}

func (r *cartRepository) Delete(_ context.Context, buyerID uuid.UUID) error {
	r.mu.Lock()
	delete(r.carts, buyerID)
	r.mu.Unlock()

	return nil
}
