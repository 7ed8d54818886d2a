package service

import (
	"time"

	"market/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	UserID uuid.UUID   `json:"uid"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates session tokens. It stands in for the
// identity provider: the core trusts whatever actor a valid token names.
type TokenService interface {
	// GenerateToken creates a signed session token for the user.
	GenerateToken(userID uuid.UUID, role entity.Role) (string, error)

	// ValidateToken verifies the signature and expiry and returns the claims.
	ValidateToken(tokenString string) (*SessionClaims, error)

	// TokenDuration returns the configured lifetime of a session token.
	TokenDuration() time.Duration
}
