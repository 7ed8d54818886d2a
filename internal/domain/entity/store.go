package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreStatus is the soft lifecycle state of a store. Stores are never hard-deleted.
type StoreStatus string

const (
	StoreStatusPending   StoreStatus = "pending"
	StoreStatusActive    StoreStatus = "active"
	StoreStatusSuspended StoreStatus = "suspended"
	StoreStatusClosed    StoreStatus = "closed"
)

// IsValid checks if the StoreStatus is a valid value.
func (s StoreStatus) IsValid() bool {
	switch s {
	case StoreStatusPending, StoreStatusActive, StoreStatusSuspended, StoreStatusClosed:
		return true
	default:
		return false
	}
}

// Store is a seller-owned shop. OwnerID always references a user holding RoleSeller
// at registration time.
type Store struct {
	ID            int64        `json:"id"`
	OwnerID       uuid.UUID    `json:"owner_id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Phone         string       `json:"phone"`
	Address       string       `json:"address"`
	CategoryID    string       `json:"category_id"`
	BusinessHours string       `json:"business_hours"`
	DeliveryInfo  DeliveryInfo `json:"delivery_info"`
	BankInfo      BankInfo     `json:"bank_info"`
	Status        StoreStatus  `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// DeliveryInfo carries the per-store shipping terms. Unset amounts fall back
// to the marketplace defaults at checkout.
type DeliveryInfo struct {
	Fee            decimal.NullDecimal `json:"fee"`
	MinOrderAmount decimal.NullDecimal `json:"min_order_amount"` // Free-shipping threshold.
	Note           string              `json:"note"`
}

// BankInfo is the payout account of a store.
type BankInfo struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
}

// OrderStore is the store reference embedded in an order.
type OrderStore struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
