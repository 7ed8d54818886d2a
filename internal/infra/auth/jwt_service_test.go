package auth

import (
	"testing"
	"time"

	"market/config"
	"market/internal/domain/entity"
	"market/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(secret string) *config.Config {
	cfg := &config.Config{Session: &config.SessionConfig{TTL: time.Hour, Issuer: "market-test"}}
	cfg.SecretKey.Session = secret

	return cfg
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("test_session_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(userID, entity.RoleSeller)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleSeller, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, time.Hour, svc.TokenDuration())
}

func TestJWTService_MissingSecret(t *testing.T) {
	_, err := NewJWTService(newTestConfig(""))

	assert.Error(t, err)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("secret-a"))
	require.NoError(t, err)
	other, err := NewJWTService(newTestConfig("secret-b"))
	require.NoError(t, err)

	foreign, err := other.GenerateToken(uuid.New(), entity.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err, "token signed with another secret")

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	impl, ok := mustJWT(t).(*jwtService)
	require.True(t, ok)

	issuedAt := time.Now().Add(-2 * time.Hour)
	impl.now = func() time.Time { return issuedAt }
	token, err := impl.GenerateToken(uuid.New(), entity.RoleBuyer)
	require.NoError(t, err)

	impl.now = time.Now
	_, err = impl.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	svc := mustJWT(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid": uuid.NewString(),
		"iss": "market-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func mustJWT(t *testing.T) service.TokenService {
	t.Helper()

	svc, err := NewJWTService(newTestConfig("test_session_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	return svc
}
