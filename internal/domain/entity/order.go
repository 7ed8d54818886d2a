package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a single-vendor order: every item belongs to Store.ID.
// BuyerID is informational; order ownership for buyers is decided by the session layer.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	BuyerID         uuid.UUID       `json:"buyer_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	Store           OrderStore      `json:"store"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem embeds the product as it was when the order was placed.
type OrderItem struct {
	Product  Product        `json:"product"`
	Quantity int            `json:"quantity"`
	Option   *ProductOption `json:"option,omitempty"`
}

// UnitPrice is the product price plus the chosen option's price.
func (i OrderItem) UnitPrice() decimal.Decimal {
	price := i.Product.Price
	if i.Option != nil {
		price = price.Add(i.Option.Price)
	}

	return price
}

// LineTotal is UnitPrice multiplied by Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Clone returns a deep copy of the item.
func (i OrderItem) Clone() OrderItem {
	i.Product = i.Product.Clone()
	if i.Option != nil {
		option := *i.Option
		i.Option = &option
	}

	return i
}

// ShippingAddress is where a buyer receives an order.
type ShippingAddress struct {
	Recipient     string `json:"recipient" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	ZipCode       string `json:"zip_code"`
	Address       string `json:"address" validate:"required"`
	DetailAddress string `json:"detail_address"`
}

// StoreIDs returns the distinct store ids referenced by the order's items.
func (o *Order) StoreIDs() []int64 {
	ids := make([]int64, 0, 1)
	for _, item := range o.Items {
		if !slices.Contains(ids, item.Product.StoreID) {
			ids = append(ids, item.Product.StoreID)
		}
	}

	return ids
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = item.Clone()
	}
	o.Items = items

	return o
}
