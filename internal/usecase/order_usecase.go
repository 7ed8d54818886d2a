package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderUsecase defines the interface for the order lifecycle.
type OrderUsecase interface {
	// CreateOrder places a single-store order. It is the creation path used by checkout.
	CreateOrder(ctx context.Context, actorID uuid.UUID, input *CreateOrderInput) (*entity.Order, error)

	// UpdateOrderStatus moves an order to status under the configured transition policy.
	UpdateOrderStatus(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, status string) (*entity.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error)
	ListStoreOrders(ctx context.Context, actorID uuid.UUID, storeID int64) ([]entity.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID) ([]entity.Order, error)
}

// --- Input DTOs ---

// OrderLineInput is one requested line of an order.
type OrderLineInput struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Option    string `json:"option,omitempty"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// CreateOrderInput defines the data required to place an order with one store.
// Prices and the shipping fee are computed from the catalog when the order is placed.
type CreateOrderInput struct {
	StoreID         int64                  `json:"store_id" validate:"required"`
	Lines           []OrderLineInput       `json:"lines" validate:"required,min=1,dive"`
	ShippingAddress entity.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
}
