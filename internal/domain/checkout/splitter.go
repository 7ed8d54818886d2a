// Package checkout splits a multi-vendor cart into one order request per store
// and prices each of them. Everything here is pure: nothing is persisted.
package checkout

import (
	"market/internal/domain/constants"
	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reasons a cart line could not be placed in any store group.
const (
	DropReasonStoreNotFound   = "store_not_found"
	DropReasonProductNotFound = "product_not_found"
	DropReasonOptionNotFound  = "option_not_found"
)

// Line is one cart line as submitted by the buyer.
type Line struct {
	StoreID   int64  `json:"store_id" validate:"required"`
	ProductID int64  `json:"product_id" validate:"required"`
	Option    string `json:"option,omitempty"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// DroppedLine is a line that could not be resolved against the catalog.
type DroppedLine struct {
	Line   Line   `json:"line"`
	Reason string `json:"reason"`
}

// Terms are the marketplace-wide shipping defaults applied when a store leaves
// its own delivery terms unset.
type Terms struct {
	FreeShippingThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
}

// DefaultTerms returns the built-in thresholds: free shipping from 50,000 and a
// 3,000 delivery fee otherwise.
func DefaultTerms() Terms {
	return Terms{
		FreeShippingThreshold: decimal.NewFromInt(constants.DefaultFreeShippingThreshold),
		DeliveryFee:           decimal.NewFromInt(constants.DefaultDeliveryFee),
	}
}

// StoreGroup holds the resolved items of one store.
type StoreGroup struct {
	Store entity.Store
	Items []entity.OrderItem
}

// Quote is the price breakdown of one store group.
type Quote struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	FreeShipping bool            `json:"free_shipping"`
	ShippingFee  decimal.Decimal `json:"shipping_fee"`
	Total        decimal.Decimal `json:"total"`
}

// SubOrderRequest is the creation request of one per-store order.
type SubOrderRequest struct {
	BuyerID         uuid.UUID
	Store           entity.OrderStore
	Items           []entity.OrderItem
	ShippingAddress entity.ShippingAddress
	PaymentMethod   string
	Quote           Quote
}

// Plan is the full result of splitting a cart.
type Plan struct {
	SubOrders []SubOrderRequest
	Dropped   []DroppedLine
}

// GroupByStore resolves every line against the catalog in the snapshot and
// groups the resulting items by store, in the order stores first appear in the cart.
// Lines whose store, product or option cannot be resolved are returned as dropped.
func GroupByStore(snapshot *entity.Snapshot, lines []Line) ([]StoreGroup, []DroppedLine) {
	var (
		groups  []StoreGroup
		dropped []DroppedLine
		index   = map[int64]int{}
	)

	for _, line := range lines {
		item, reason := resolve(snapshot, line)
		if reason != "" {
			dropped = append(dropped, DroppedLine{Line: line, Reason: reason})

			continue
		}

		pos, ok := index[line.StoreID]
		if !ok {
			pos = len(groups)
			index[line.StoreID] = pos
			groups = append(groups, StoreGroup{Store: *snapshot.FindStore(line.StoreID)})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}

	return groups, dropped
}

func resolve(snapshot *entity.Snapshot, line Line) (entity.OrderItem, string) {
	if snapshot.FindStore(line.StoreID) == nil {
		return entity.OrderItem{}, DropReasonStoreNotFound
	}

	product := snapshot.FindProduct(line.StoreID, line.ProductID)
	if product == nil {
		return entity.OrderItem{}, DropReasonProductNotFound
	}

	item := entity.OrderItem{
		Product:  product.Clone(),
		Quantity: line.Quantity,
	}
	if line.Option != "" {
		option, ok := product.FindOption(line.Option)
		if !ok {
			return entity.OrderItem{}, DropReasonOptionNotFound
		}
		chosen := *option
		item.Option = &chosen
	}

	return item, ""
}

// QuoteGroup prices one store group:
// subtotal is the sum of (price + option price) * quantity, shipping is free once
// the subtotal reaches the store's minimum order amount, and the delivery fee
// applies otherwise.
func QuoteGroup(store entity.Store, items []entity.OrderItem, terms Terms) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	threshold := terms.FreeShippingThreshold
	if store.DeliveryInfo.MinOrderAmount.Valid {
		threshold = store.DeliveryInfo.MinOrderAmount.Decimal
	}
	fee := terms.DeliveryFee
	if store.DeliveryInfo.Fee.Valid {
		fee = store.DeliveryInfo.Fee.Decimal
	}

	quote := Quote{
		Subtotal:     subtotal,
		FreeShipping: subtotal.GreaterThanOrEqual(threshold),
		ShippingFee:  fee,
	}
	if quote.FreeShipping {
		quote.ShippingFee = decimal.Zero
	}
	quote.Total = subtotal.Add(quote.ShippingFee)

	return quote
}

// Split builds one sub-order request per store. All requests share the buyer,
// the shipping address and the payment method.
func Split(
	snapshot *entity.Snapshot,
	buyerID uuid.UUID,
	lines []Line,
	address entity.ShippingAddress,
	paymentMethod string,
	terms Terms,
) *Plan {
	groups, dropped := GroupByStore(snapshot, lines)

	plan := &Plan{
		SubOrders: make([]SubOrderRequest, 0, len(groups)),
		Dropped:   dropped,
	}
	for _, group := range groups {
		plan.SubOrders = append(plan.SubOrders, SubOrderRequest{
			BuyerID:         buyerID,
			Store:           entity.OrderStore{ID: group.Store.ID, Name: group.Store.Name},
			Items:           group.Items,
			ShippingAddress: address,
			PaymentMethod:   paymentMethod,
			Quote:           QuoteGroup(group.Store, group.Items, terms),
		})
	}

	return plan
}

// Total sums the totals of every sub-order in the plan.
func (p *Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, sub := range p.SubOrders {
		total = total.Add(sub.Quote.Total)
	}

	return total
}
