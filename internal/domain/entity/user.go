// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the marketplace.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. Its identity is fixed at signup; the
// profile fields are editable by the user themself.
type User struct {
	ID        uuid.UUID `json:"id"`         // The Global Unique Identifier (GUID) for the user.
	Email     string    `json:"email"`      // Login identifier, unique across users.
	Name      string    `json:"name"`       // Display name.
	Phone     string    `json:"phone"`      // Contact phone.
	Address   string    `json:"address"`    // Default shipping address.
	CreatedAt time.Time `json:"created_at"` // Timestamp of signup.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of the last profile change.
}
