package memory

import (
	"context"
	"testing"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository()
	buyerID := uuid.New()

	empty, err := repo.FindByBuyer(ctx, buyerID)
	require.NoError(t, err)
	assert.Equal(t, buyerID, empty.BuyerID)
	assert.Empty(t, empty.Items)

	cart := entity.NewCart(buyerID)
	cart.Items = append(cart.Items, entity.CartItem{StoreID: 1, ProductID: 1, Quantity: 2})
	require.NoError(t, repo.Save(ctx, cart))

	cart.Items[0].Quantity = 99

	found, err := repo.FindByBuyer(ctx, buyerID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2, found.Items[0].Quantity)

	require.NoError(t, repo.Delete(ctx, buyerID))
	require.NoError(t, repo.Delete(ctx, buyerID))

	found, err = repo.FindByBuyer(ctx, buyerID)
	require.NoError(t, err)
	assert.Empty(t, found.Items)
}
