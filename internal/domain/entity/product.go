package entity

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus controls whether a product is offered in the storefront.
type ProductStatus string

const (
	ProductStatusActive  ProductStatus = "active"
	ProductStatusHidden  ProductStatus = "hidden"
	ProductStatusSoldOut ProductStatus = "sold_out"
)

// IsValid checks if the ProductStatus is a valid value.
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusHidden, ProductStatusSoldOut:
		return true
	default:
		return false
	}
}

// Product is an item sold by one store. IDs are unique within the store's list only.
type Product struct {
	ID            int64               `json:"id"`
	StoreID       int64               `json:"store_id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	CategoryID    string              `json:"category_id"`
	Options       []ProductOption     `json:"options"`
	Images        []string            `json:"images"`
	Stock         int                 `json:"stock"`
	Status        ProductStatus       `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ProductOption is a purchasable variant with an additional price.
type ProductOption struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// FindOption returns the option with the given name.
func (p *Product) FindOption(name string) (*ProductOption, bool) {
	idx := slices.IndexFunc(p.Options, func(o ProductOption) bool { return o.Name == name })
	if idx < 0 {
		return nil, false
	}

	return &p.Options[idx], true
}

// Clone returns a deep copy of the product.
func (p Product) Clone() Product {
	p.Options = slices.Clone(p.Options)
	p.Images = slices.Clone(p.Images)

	return p
}
