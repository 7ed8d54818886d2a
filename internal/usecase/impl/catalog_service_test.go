package impl

import (
	"bytes"
	"context"
	"testing"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_RegisterStore_Success(t *testing.T) {
	fx := createTestMarket(t)
	ctx := context.Background()
	seller := fx.seedUser(t, entity.RoleSeller)

	first := fx.seedStore(t, seller, "First")
	second, err := fx.catalog.RegisterStore(ctx, seller, &usecase.RegisterStoreInput{
		Name:    "Second",
		Phone:   "02-0000-0000",
		Address: "3 Side Street",
		DeliveryInfo: &usecase.DeliveryInfoInput{
			Fee:            ptr(decimal.NewFromInt(2500)),
			MinOrderAmount: ptr(decimal.NewFromInt(30000)),
		},
	})

	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, seller, second.OwnerID)
	assert.Equal(t, entity.StoreStatusActive, second.Status)
	assert.True(t, second.DeliveryInfo.Fee.Valid)

	snapshot := fx.snapshot(t)
	assert.Len(t, snapshot.Stores, 2)
	assert.NotNil(t, snapshot.Products[second.ID])
}

func TestCatalogService_RegisterStore_InvalidRole(t *testing.T) {
	fx := createTestMarket(t)
	ctx := context.Background()
	input := &usecase.RegisterStoreInput{Name: "Shop", Phone: "02", Address: "Somewhere"}

	for _, role := range []entity.Role{entity.RoleBuyer, entity.RoleAdmin} {
		actor := fx.seedUser(t, role)

		_, err := fx.catalog.RegisterStore(ctx, actor, input)

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidRole), "role %s", role)
	}

	_, err := fx.catalog.RegisterStore(ctx, uuid.New(), input)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidRole))
	assert.Empty(t, fx.snapshot(t).Stores)
}

func TestCatalogService_RegisterStore_ValidationFailed(t *testing.T) {
	fx := createTestMarket(t)
	seller := fx.seedUser(t, entity.RoleSeller)

	_, err := fx.catalog.RegisterStore(context.Background(), seller, &usecase.RegisterStoreInput{Phone: "02", Address: "x"})

	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Equal(t, "VALIDATION_FAILED", domainerrors.Code(err))
}

func TestCatalogService_StoreIDsAreNeverReused(t *testing.T) {
	fx := createTestMarket(t)
	seller := fx.seedUser(t, entity.RoleSeller)
	store := fx.seedStore(t, seller, "Shop")

	first := fx.seedProduct(t, seller, store.ID, "A", 100, 1)
	second := fx.seedProduct(t, seller, store.ID, "B", 100, 1)
	require.NoError(t, fx.catalog.DeleteProduct(context.Background(), seller, store.ID, second.ID))

	third := fx.seedProduct(t, seller, store.ID, "C", 100, 1)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int64(3), third.ID)
}

func TestCatalogService_UpdateStore_PatchKeepsUnsetFields(t *testing.T) {
	fx := createTestMarket(t)
	seller := fx.seedUser(t, entity.RoleSeller)
	store := fx.seedStore(t, seller, "Shop")

	updated, err := fx.catalog.UpdateStore(context.Background(), seller, store.ID, &usecase.UpdateStoreInput{
		Description: ptr("Hand-made goods"),
		Status:      ptr(entity.StoreStatusSuspended),
	})

	require.NoError(t, err)
	assert.Equal(t, "Shop", updated.Name)
	assert.Equal(t, store.Phone, updated.Phone)
	assert.Equal(t, "Hand-made goods", updated.Description)
	assert.Equal(t, entity.StoreStatusSuspended, updated.Status)
	assert.Equal(t, "Hand-made goods", fx.snapshot(t).FindStore(store.ID).Description)
}

func TestCatalogService_UpdateStore_Authorization(t *testing.T) {
	fx := createTestMarket(t)
	ctx := context.Background()
	owner := fx.seedUser(t, entity.RoleSeller)
	other := fx.seedUser(t, entity.RoleSeller)
	admin := fx.seedUser(t, entity.RoleAdmin)
	store := fx.seedStore(t, owner, "Shop")

	_, err := fx.catalog.UpdateStore(ctx, other, store.ID, &usecase.UpdateStoreInput{Name: ptr("Taken")})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	assert.Equal(t, "Shop", fx.snapshot(t).FindStore(store.ID).Name)

	_, err = fx.catalog.UpdateStore(ctx, admin, 999, &usecase.UpdateStoreInput{Name: ptr("Ghost")})
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	updated, err := fx.catalog.UpdateStore(ctx, admin, store.ID, &usecase.UpdateStoreInput{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestCatalogService_UpdateStore_RejectsUnknownStatus(t *testing.T) {
	fx := createTestMarket(t)
	seller := fx.seedUser(t, entity.RoleSeller)
	store := fx.seedStore(t, seller, "Shop")

	_, err := fx.catalog.UpdateStore(context.Background(), seller, store.ID, &usecase.UpdateStoreInput{
		Status: ptr(entity.StoreStatus("deleted")),
	})

	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestCatalogService_AddProduct(t *testing.T) {
	fx := createTestMarket(t)
	ctx := context.Background()
	owner := fx.seedUser(t, entity.RoleSeller)
	buyer := fx.seedUser(t, entity.RoleBuyer)
	store := fx.seedStore(t, owner, "Shop")

	tests := []struct {
		name    string
		actor   uuid.UUID
		storeID int64
		input   *usecase.AddProductInput
		wantErr error
	}{
		{
			name:    "owner adds product",
			actor:   owner,
			storeID: store.ID,
			input: &usecase.AddProductInput{
				Name:          "Mug",
				Price:         decimal.NewFromInt(12000),
				DiscountPrice: ptr(decimal.NewFromInt(10000)),
				Options:       []entity.ProductOption{{Name: "Large", Price: decimal.NewFromInt(1000)}},
				Stock:         5,
			},
		},
		{
			name:    "buyer is forbidden",
			actor:   buyer,
			storeID: store.ID,
			input:   &usecase.AddProductInput{Name: "Mug", Price: decimal.NewFromInt(1)},
			wantErr: domainerrors.ErrForbidden,
		},
		{
			name:    "missing store",
			actor:   owner,
			storeID: 404,
			input:   &usecase.AddProductInput{Name: "Mug", Price: decimal.NewFromInt(1)},
			wantErr: domainerrors.ErrNotFound,
		},
		{
			name:    "negative price",
			actor:   owner,
			storeID: store.ID,
			input:   &usecase.AddProductInput{Name: "Mug", Price: decimal.NewFromInt(-1)},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "negative stock",
			actor:   owner,
			storeID: store.ID,
			input:   &usecase.AddProductInput{Name: "Mug", Price: decimal.NewFromInt(1), Stock: -1},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "discount above price",
			actor:   owner,
			storeID: store.ID,
			input:   &usecase.AddProductInput{Name: "Mug", Price: decimal.NewFromInt(1), DiscountPrice: ptr(decimal.NewFromInt(2))},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "missing name",
			actor:   owner,
			storeID: store.ID,
			input:   &usecase.AddProductInput{Price: decimal.NewFromInt(1)},
			wantErr: domainerrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := fx.catalog.AddProduct(ctx, tt.actor, tt.storeID, tt.input)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, store.ID, product.StoreID)
			assert.Equal(t, entity.ProductStatusActive, product.Status)
			assert.True(t, product.DiscountPrice.Valid)
		})
	}

	assert.Len(t, fx.snapshot(t).Products[store.ID], 1)
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	fx := createTestMarket(t)
	ctx := context.Background()
	owner := fx.seedUser(t, entity.RoleSeller)
	store := fx.seedStore(t, owner, "Shop")
	product := fx.seedProduct(t, owner, store.ID, "Mug", 12000, 5)

	updated, err := fx.catalog.UpdateProduct(ctx, owner, store.ID, product.ID, &usecase.UpdateProductInput{
		Price: ptr(decimal.NewFromInt(15000)),
		Stock: ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mug", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, 0, updated.Stock)

	_, err = fx.catalog.UpdateProduct(ctx, owner, store.ID, product.ID, &usecase.UpdateProductInput{
		DiscountPrice: ptr(decimal.NewFromInt(20000)),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.False(t, fx.snapshot(t).FindProduct(store.ID, product.ID).DiscountPrice.Valid)

	_, err = fx.catalog.UpdateProduct(ctx, owner, store.ID, 77, &usecase.UpdateProductInput{Name: ptr("x")})
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCatalogService_DeleteProduct_Twice(t *testing.T) {
	fx := createTestMarket(t)
	ctx := context.Background()
	owner := fx.seedUser(t, entity.RoleSeller)
	store := fx.seedStore(t, owner, "Shop")
	product := fx.seedProduct(t, owner, store.ID, "Mug", 12000, 5)

	err := fx.catalog.DeleteProduct(ctx, owner, store.ID, product.ID)
	require.NoError(t, err)

	err = fx.catalog.DeleteProduct(ctx, owner, store.ID, product.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	assert.Empty(t, fx.snapshot(t).Products[store.ID])
}

func TestCatalogService_DeleteProduct_Forbidden(t *testing.T) {
	fx := createTestMarket(t)
	owner := fx.seedUser(t, entity.RoleSeller)
	other := fx.seedUser(t, entity.RoleSeller)
	store := fx.seedStore(t, owner, "Shop")
	product := fx.seedProduct(t, owner, store.ID, "Mug", 12000, 5)

	err := fx.catalog.DeleteProduct(context.Background(), other, store.ID, product.ID)

	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	assert.Len(t, fx.snapshot(t).Products[store.ID], 1)
}

func TestCatalogService_Reads(t *testing.T) {
	fx := createTestMarket(t)
	ctx := context.Background()
	alice := fx.seedUser(t, entity.RoleSeller)
	bob := fx.seedUser(t, entity.RoleSeller)
	aliceStore := fx.seedStore(t, alice, "Alice")
	fx.seedStore(t, bob, "Bob")
	product := fx.seedProduct(t, alice, aliceStore.ID, "Mug", 12000, 5)

	stores, err := fx.catalog.ListStores(ctx)
	require.NoError(t, err)
	assert.Len(t, stores, 2)

	owned, err := fx.catalog.ListStoresByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, aliceStore.ID, owned[0].ID)

	products, err := fx.catalog.ListProducts(ctx, aliceStore.ID)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	found, err := fx.catalog.GetProduct(ctx, aliceStore.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", found.Name)

	_, err = fx.catalog.GetStore(ctx, 999)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	_, err = fx.catalog.ListProducts(ctx, 999)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCatalogService_StoreShareQR(t *testing.T) {
	fx := createTestMarket(t)
	seller := fx.seedUser(t, entity.RoleSeller)
	store := fx.seedStore(t, seller, "Shop")

	png, err := fx.catalog.StoreShareQR(context.Background(), store.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = fx.catalog.StoreShareQR(context.Background(), 999)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}
