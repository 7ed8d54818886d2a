// Package constants holds identifiers shared between configuration and infrastructure.
package constants

import "time"

// Pub/Sub provider names accepted by the pubsub.provider setting.
const (
	PubSubProviderNoop   = "noop"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
	PubSubProviderKafka  = "kafka"
	PubSubProviderFCM    = "fcm"
)

// Entity store drivers accepted by the storage.driver setting.
const (
	StorageDriverMemory   = "memory"
	StorageDriverBlob     = "blob"
	StorageDriverPostgres = "postgres"
)

// Cart repository drivers accepted by the cart.driver setting.
const (
	CartDriverMemory = "memory"
	CartDriverRedis  = "redis"
)

// Checkout defaults, in currency units, used when neither the store nor the
// configuration sets a value.
const (
	DefaultFreeShippingThreshold = 50000
	DefaultDeliveryFee           = 3000
	DefaultMaxConcurrentOrders   = 4
)

// LifecycleTimeout bounds start and stop hooks of infrastructure clients.
const LifecycleTimeout = 10 * time.Second
