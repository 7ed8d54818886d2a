// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogUsecase defines the interface for store and product operations.
// Every mutation is checked against the authorization guard before it is applied.
type CatalogUsecase interface {
	RegisterStore(ctx context.Context, actorID uuid.UUID, input *RegisterStoreInput) (*entity.Store, error)
	UpdateStore(ctx context.Context, actorID uuid.UUID, storeID int64, input *UpdateStoreInput) (*entity.Store, error)
	AddProduct(ctx context.Context, actorID uuid.UUID, storeID int64, input *AddProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, actorID uuid.UUID, storeID, productID int64, input *UpdateProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, actorID uuid.UUID, storeID, productID int64) error

	GetStore(ctx context.Context, storeID int64) (*entity.Store, error)
	ListStores(ctx context.Context) ([]entity.Store, error)
	ListStoresByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Store, error)
	GetProduct(ctx context.Context, storeID, productID int64) (*entity.Product, error)
	ListProducts(ctx context.Context, storeID int64) ([]entity.Product, error)

	// StoreShareQR renders a PNG QR code linking to the store's storefront.
	StoreShareQR(ctx context.Context, storeID int64) ([]byte, error)
}

// --- Input DTOs ---

// DeliveryInfoInput carries optional shipping terms. Nil amounts use the marketplace defaults.
type DeliveryInfoInput struct {
	Fee            *decimal.Decimal `json:"fee,omitempty"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	Note           *string          `json:"note,omitempty"`
}

// RegisterStoreInput defines the data required to register a new store.
type RegisterStoreInput struct {
	Name          string             `json:"name" validate:"required"`
	Description   string             `json:"description"`
	Phone         string             `json:"phone" validate:"required"`
	Address       string             `json:"address" validate:"required"`
	CategoryID    string             `json:"category_id"`
	BusinessHours string             `json:"business_hours"`
	DeliveryInfo  *DeliveryInfoInput `json:"delivery_info,omitempty"`
	BankInfo      *entity.BankInfo   `json:"bank_info,omitempty"`
}

// UpdateStoreInput defines the patch applied to a store. Nil fields keep their value.
type UpdateStoreInput struct {
	Name          *string             `json:"name,omitempty" validate:"omitnil,min=1"`
	Description   *string             `json:"description,omitempty"`
	Phone         *string             `json:"phone,omitempty" validate:"omitnil,min=1"`
	Address       *string             `json:"address,omitempty" validate:"omitnil,min=1"`
	CategoryID    *string             `json:"category_id,omitempty"`
	BusinessHours *string             `json:"business_hours,omitempty"`
	DeliveryInfo  *DeliveryInfoInput  `json:"delivery_info,omitempty"`
	BankInfo      *entity.BankInfo    `json:"bank_info,omitempty"`
	Status        *entity.StoreStatus `json:"status,omitempty"`
}

// AddProductInput defines the data required to add a product to a store.
type AddProductInput struct {
	Name          string                 `json:"name" validate:"required"`
	Description   string                 `json:"description"`
	Price         decimal.Decimal        `json:"price"`
	DiscountPrice *decimal.Decimal       `json:"discount_price,omitempty"`
	CategoryID    string                 `json:"category_id"`
	Options       []entity.ProductOption `json:"options,omitempty"`
	Images        []string               `json:"images,omitempty" validate:"omitempty,dive,required"`
	Stock         int                    `json:"stock" validate:"gte=0"`
	Status        *entity.ProductStatus  `json:"status,omitempty"`
}

// UpdateProductInput defines the patch applied to a product. Nil fields keep their value.
type UpdateProductInput struct {
	Name          *string                 `json:"name,omitempty" validate:"omitnil,min=1"`
	Description   *string                 `json:"description,omitempty"`
	Price         *decimal.Decimal        `json:"price,omitempty"`
	DiscountPrice *decimal.Decimal        `json:"discount_price,omitempty"`
	CategoryID    *string                 `json:"category_id,omitempty"`
	Options       *[]entity.ProductOption `json:"options,omitempty"`
	Images        *[]string               `json:"images,omitempty"`
	Stock         *int                    `json:"stock,omitempty" validate:"omitnil,gte=0"`
	Status        *entity.ProductStatus   `json:"status,omitempty"`
}
