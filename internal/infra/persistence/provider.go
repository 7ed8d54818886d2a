package persistence

import (
	"log/slog"

	"market/config"
	"market/internal/domain/constants"
	"market/internal/domain/repository"
	"market/internal/errors"
	"market/internal/infra/persistence/blobstore"
	"market/internal/infra/persistence/memory"
	"market/internal/infra/persistence/postgres"
	"market/internal/infra/persistence/redis"

	"go.uber.org/fx"
)

// StoreParams holds dependencies for the entity store, injected by Fx
type StoreParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// StoreResult exposes the configured store together with its transaction manager
type StoreResult struct {
	fx.Out

	Store     repository.SnapshotStore
	TxManager repository.TransactionManager
}

// NewEntityStore builds the backend selected by storage.driver.
func NewEntityStore(params StoreParams) (StoreResult, error) {
	driver := params.Config.Storage.Driver
	logger := params.Logger.With("driver", driver)

	switch driver {
	case "", constants.StorageDriverMemory:
		logger.Info("Using in-memory entity store")
		store := memory.NewSnapshotStore()

		return StoreResult{Store: store, TxManager: NewTransactionManager(store, params.Logger)}, nil

	case constants.StorageDriverBlob:
		if params.Config.Storage.BlobURL == "" {
			return StoreResult{}, errors.New("storage.blobUrl is required for the blob driver")
		}
		bucket, err := blobstore.OpenBucket(blobstore.BucketParams{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return StoreResult{}, err
		}
		logger.Info("Using blob entity store", "url", params.Config.Storage.BlobURL, "key", params.Config.Storage.BlobKey)
		store := blobstore.NewSnapshotStore(bucket, params.Config.Storage.BlobKey)

		return StoreResult{Store: store, TxManager: NewTransactionManager(store, params.Logger)}, nil

	case constants.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return StoreResult{}, err
		}
		logger.Info("Using postgres entity store")

		return StoreResult{
			Store:     postgres.NewSnapshotStore(db),
			TxManager: postgres.NewTransactionManager(db, params.Logger),
		}, nil

	default:
		return StoreResult{}, errors.Errorf("unknown storage driver: %s", driver)
	}
}

// NewCartRepository builds the cart backend selected by cart.driver.
func NewCartRepository(params StoreParams) (repository.CartRepository, error) {
	switch driver := params.Config.Cart.Driver; driver {
	case "", constants.CartDriverMemory:
		params.Logger.Info("Using in-memory cart repository")

		return memory.NewCartRepository(), nil

	case constants.CartDriverRedis:
		client, err := redis.NewClient(redis.ClientParams{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}
		params.Logger.Info("Using redis cart repository", "ttl", params.Config.Cart.TTL)

		return redis.NewCartRepository(client, params.Config.Cart.TTL), nil

	default:
		return nil, errors.Errorf("unknown cart driver: %s", driver)
	}
}

// Module provides the persistence FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEntityStore, NewCartRepository),
)
