// Package redis stores buyer carts in Redis, one JSON value per buyer.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"market/internal/domain/entity"
	"market/internal/domain/repository"
	"market/internal/errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

type cartRepository struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewCartRepository stores carts under cart:{buyerID}. Every save refreshes the TTL.
func NewCartRepository(client goredis.UniversalClient, ttl time.Duration) repository.CartRepository {
	return &cartRepository{client: client, ttl: ttl}
}

func cartKey(buyerID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", buyerID)
}

func (r *cartRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) (*entity.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(buyerID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return entity.NewCart(buyerID), nil
		}

		return nil, errors.Wrapf(err, "failed to get cart of buyer %s", buyerID)
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, errors.Wrapf(err, "failed to decode cart of buyer %s", buyerID)
	}
	if cart.Items == nil {
		cart.Items = []entity.CartItem{}
	}

	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return errors.Wrap(err, "failed to encode cart")
	}

	if err := r.client.Set(ctx, cartKey(cart.BuyerID), data, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to save cart of buyer %s", cart.BuyerID)
	}

	return nil
}

func (r *cartRepository) Delete(ctx context.Context, buyerID uuid.UUID) error {
	if err := r.client.Del(ctx, cartKey(buyerID)).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete cart of buyer %s", buyerID)
	}

	return nil
}
