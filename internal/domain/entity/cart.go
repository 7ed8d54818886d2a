package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Cart is a buyer's pending selection across any number of stores.
type Cart struct {
	BuyerID   uuid.UUID  `json:"buyer_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem references a catalog product; prices are read from the catalog at checkout.
type CartItem struct {
	StoreID   int64  `json:"store_id"`
	ProductID int64  `json:"product_id"`
	Option    string `json:"option,omitempty"`
	Quantity  int    `json:"quantity"`
}

// SameLine reports whether both items address the same product and option.
func (i CartItem) SameLine(other CartItem) bool {
	return i.StoreID == other.StoreID && i.ProductID == other.ProductID && i.Option == other.Option
}

// NewCart returns an empty cart for the buyer.
func NewCart(buyerID uuid.UUID) *Cart {
	return &Cart{BuyerID: buyerID, Items: []CartItem{}}
}

// IndexOf returns the position of the line matching item, or -1.
func (c *Cart) IndexOf(item CartItem) int {
	return slices.IndexFunc(c.Items, item.SameLine)
}

// RemoveStores drops every line belonging to one of the given stores.
func (c *Cart) RemoveStores(storeIDs []int64) {
	c.Items = slices.DeleteFunc(c.Items, func(item CartItem) bool {
		return slices.Contains(storeIDs, item.StoreID)
	})
}
