package usecase

import (
	"context"

	"market/internal/domain/checkout"
	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutStatus summarizes how many sub-orders of a checkout were created.
type CheckoutStatus string

const (
	CheckoutStatusSucceeded CheckoutStatus = "succeeded"
	CheckoutStatusPartial   CheckoutStatus = "partial"
	CheckoutStatusFailed    CheckoutStatus = "failed"
)

// CheckoutUsecase defines the interface for splitting a multi-vendor cart into orders.
type CheckoutUsecase interface {
	// Checkout submits one order per store. A failed store never undoes the others:
	// partial failure is reported in the result, not as an error.
	Checkout(ctx context.Context, buyerID uuid.UUID, input *CheckoutInput) (*CheckoutResult, error)

	// CheckoutCart checks out the buyer's stored cart and removes the lines of
	// every store whose order was created.
	CheckoutCart(ctx context.Context, buyerID uuid.UUID, input *CheckoutCartInput) (*CheckoutResult, error)
}

// --- Input DTOs ---

// CheckoutInput defines an explicit cart to check out.
type CheckoutInput struct {
	Lines           []checkout.Line        `json:"lines" validate:"required,min=1,dive"`
	ShippingAddress entity.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
}

// CheckoutCartInput defines the data required to check out a stored cart.
type CheckoutCartInput struct {
	ShippingAddress entity.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
}

// --- Output DTOs ---

// StoreOutcome is the result of one store's sub-order. Quote is the estimate
// made when the cart was split; Order carries the amounts actually charged.
type StoreOutcome struct {
	StoreID int64          `json:"store_id"`
	Quote   checkout.Quote `json:"quote"`
	Order   *entity.Order  `json:"order,omitempty"`
	Err     error          `json:"-"`
	Error   string         `json:"error,omitempty"`
}

// Succeeded reports whether the store's order was created.
func (o StoreOutcome) Succeeded() bool {
	return o.Err == nil && o.Order != nil
}

// CheckoutResult reports every store outcome in cart order.
type CheckoutResult struct {
	Status   CheckoutStatus         `json:"status"`
	Outcomes []StoreOutcome         `json:"outcomes"`
	Dropped  []checkout.DroppedLine `json:"dropped,omitempty"`
	Total    decimal.Decimal        `json:"total"` // Sum of the created orders only.
}

// OrderIDs returns the ids of the created orders.
func (r *CheckoutResult) OrderIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		if outcome.Succeeded() {
			ids = append(ids, outcome.Order.ID)
		}
	}

	return ids
}

// FailedStores returns the ids of the stores whose order was not created.
func (r *CheckoutResult) FailedStores() []int64 {
	var ids []int64
	for _, outcome := range r.Outcomes {
		if !outcome.Succeeded() {
			ids = append(ids, outcome.StoreID)
		}
	}

	return ids
}
