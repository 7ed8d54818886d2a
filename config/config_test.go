package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"market/internal/domain/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}

	cfg.applyDefaults()

	assert.Equal(t, constants.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, defaultBlobKey, cfg.Storage.BlobKey)
	assert.Equal(t, constants.CartDriverMemory, cfg.Cart.Driver)
	assert.Equal(t, defaultCartTTL, cfg.Cart.TTL)
	assert.Equal(t, int64(constants.DefaultFreeShippingThreshold), cfg.Checkout.FreeShippingThreshold)
	assert.Equal(t, int64(constants.DefaultDeliveryFee), cfg.Checkout.DeliveryFee)
	assert.Equal(t, defaultConcurrentSub, cfg.Checkout.MaxConcurrentSubmissions)
	assert.Empty(t, cfg.Orders.TransitionPolicy)
	assert.Equal(t, defaultSessionTTL, cfg.Session.TTL)
	assert.Equal(t, constants.PubSubProviderNoop, cfg.PubSub.Provider)
	assert.NotNil(t, cfg.QRCode)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Storage:  &StorageConfig{Driver: constants.StorageDriverBlob, BlobKey: "custom.json"},
		Checkout: &CheckoutConfig{FreeShippingThreshold: 30000, DeliveryFee: 2500, MaxConcurrentSubmissions: 8},
		Orders:   &OrdersConfig{TransitionPolicy: "strict"},
		Session:  &SessionConfig{TTL: time.Hour},
	}

	cfg.applyDefaults()

	assert.Equal(t, constants.StorageDriverBlob, cfg.Storage.Driver)
	assert.Equal(t, "custom.json", cfg.Storage.BlobKey)
	assert.Equal(t, int64(30000), cfg.Checkout.FreeShippingThreshold)
	assert.Equal(t, int64(2500), cfg.Checkout.DeliveryFee)
	assert.Equal(t, 8, cfg.Checkout.MaxConcurrentSubmissions)
	assert.Equal(t, "strict", cfg.Orders.TransitionPolicy)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
checkout:
  freeShippingThreshold: 50000
  deliveryFee: 3000
orders:
  transitionPolicy: lenient
session:
  ttl: 2h
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "market-test.yaml"), content, 0o600))
	t.Chdir(dir)
	t.Setenv("CHECKOUT_DELIVERYFEE", "1000")
	t.Setenv("ORDERS_TRANSITIONPOLICY", "strict")

	cfg, err := LoadWithEnv[Config]("market-test")

	require.NoError(t, err)
	assert.Equal(t, int64(50000), cfg.Checkout.FreeShippingThreshold)
	assert.Equal(t, int64(1000), cfg.Checkout.DeliveryFee)
	assert.Equal(t, "strict", cfg.Orders.TransitionPolicy)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("does-not-exist")

	assert.Error(t, err)
}

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"storage":  map[string]any{"blobUrl": ""},
		"cart":     map[string]any{"ttl": "72h"},
		"orders":   map[string]any{"transitionPolicy": "lenient"},
		"checkout": map[string]any{"maxConcurrentSubmissions": 4, "freeShippingThreshold": 50000},
		"pubsub": map[string]any{
			"localEndpoint": "",
			"kafka":         map[string]any{"batchTimeout": "50ms"},
		},
	}

	tests := map[string]string{
		"STORAGE_BLOBURL":                   "storage.blobUrl",
		"CART_TTL":                          "cart.ttl",
		"ORDERS_TRANSITIONPOLICY":           "orders.transitionPolicy",
		"CHECKOUT_MAXCONCURRENTSUBMISSIONS": "checkout.maxConcurrentSubmissions",
		"CHECKOUT_FREESHIPPINGTHRESHOLD":    "checkout.freeShippingThreshold",
		"PUBSUB_LOCALENDPOINT":              "pubsub.localEndpoint",
		"PUBSUB_KAFKA_BATCHTIMEOUT":         "pubsub.kafka.batchTimeout",
		"SESSION_ISSUER":                    "session.issuer",
	}

	for envKey, want := range tests {
		assert.Equal(t, want, canonicalizeEnvKey(envKey, existing), envKey)
	}
}
