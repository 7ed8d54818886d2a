// Package auth provides the session token implementation of the identity provider.
package auth

import (
	"time"

	"market/config"
	"market/internal/domain/entity"
	"market/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultIssuer = "market"

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte        // Secret key for signing session tokens.
	ttl    time.Duration // Time-to-live for session tokens.
	issuer string
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session secret must be provided")
	}

	ttl := time.Hour * 24
	issuer := defaultIssuer
	if cfg.Session != nil {
		if cfg.Session.TTL > 0 {
			ttl = cfg.Session.TTL
		}
		if cfg.Session.Issuer != "" {
			issuer = cfg.Session.Issuer
		}
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Session),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// GenerateToken creates a signed session token naming the user and their role.
func (s *jwtService) GenerateToken(userID uuid.UUID, role entity.Role) (string, error) {
	now := s.now()
	claims := service.SessionClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// ValidateToken checks signature, issuer and expiry and returns the claims.
func (s *jwtService) ValidateToken(tokenString string) (*service.SessionClaims, error) {
	claims := &service.SessionClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid session token")
	}

	if claims.UserID == uuid.Nil {
		return nil, errors.New("session token names no user")
	}

	return claims, nil
}

// TokenDuration returns the configured duration for session tokens.
func (s *jwtService) TokenDuration() time.Duration {
	return s.ttl
}
