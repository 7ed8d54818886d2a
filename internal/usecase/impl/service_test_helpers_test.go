package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"market/config"
	"market/internal/domain/entity"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	"market/internal/infra/persistence"
	"market/internal/infra/persistence/memory"
	"market/internal/infra/qrcode"
	mockService "market/internal/mocks/service"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// marketFixtures wires every service over one in-memory entity store.
type marketFixtures struct {
	store     repository.SnapshotStore
	txManager repository.TransactionManager
	carts     repository.CartRepository
	publisher *mockService.MockEventPublisher
	logger    *slog.Logger

	catalog  usecase.CatalogUsecase
	orders   usecase.OrderUsecase
	checkout usecase.CheckoutUsecase
	users    usecase.UserUsecase
	roles    usecase.RoleUsecase
	cart     usecase.CartUsecase

	mu     sync.Mutex
	events []service.MarketEvent
}

func createTestMarket(t *testing.T) *marketFixtures {
	return createTestMarketWithConfig(t, &config.Config{})
}

func createTestMarketWithConfig(t *testing.T, cfg *config.Config) *marketFixtures {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewSnapshotStore()
	fx := &marketFixtures{
		store:     store,
		txManager: persistence.NewTransactionManager(store, logger),
		carts:     memory.NewCartRepository(),
		publisher: mockService.NewMockEventPublisher(t),
		logger:    logger,
	}

	fx.publisher.EXPECT().
		Publish(mock.Anything, mock.Anything).
		Run(func(_ context.Context, event *service.MarketEvent) {
			fx.mu.Lock()
			defer fx.mu.Unlock()
			fx.events = append(fx.events, *event)
		}).
		Return(nil).
		Maybe()

	qrService, err := qrcode.NewQRCodeService(256, "M", "https://market.example.com/stores")
	require.NoError(t, err)

	orders, err := NewOrderService(OrderServiceParams{
		TxManager: fx.txManager,
		Publisher: fx.publisher,
		Config:    cfg,
		Logger:    logger,
	})
	require.NoError(t, err)

	fx.orders = orders
	fx.catalog = NewCatalogService(fx.txManager, qrService, logger)
	fx.checkout = NewCheckoutService(CheckoutServiceParams{
		TxManager: fx.txManager,
		Orders:    orders,
		Carts:     fx.carts,
		Publisher: fx.publisher,
		Config:    cfg,
		Logger:    logger,
	})
	fx.users = NewUserService(fx.txManager, logger)
	fx.roles = NewRoleService(fx.txManager, logger)
	fx.cart = NewCartService(fx.txManager, fx.carts, fx.publisher, logger)

	return fx
}

// eventsNamed returns the captured events with the given name, in publish order.
func (fx *marketFixtures) eventsNamed(name service.EventName) []service.MarketEvent {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	var out []service.MarketEvent
	for _, event := range fx.events {
		if event.Name == name {
			out = append(out, event)
		}
	}

	return out
}

// snapshot returns the persisted state.
func (fx *marketFixtures) snapshot(t *testing.T) *entity.Snapshot {
	t.Helper()

	snapshot, err := fx.store.Load(context.Background())
	require.NoError(t, err)

	return snapshot
}

// seedUser adds a user holding role directly to the store.
func (fx *marketFixtures) seedUser(t *testing.T, role entity.Role) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := fx.txManager.Execute(context.Background(), func(snapshot *entity.Snapshot) error {
		snapshot.Users = append(snapshot.Users, entity.User{
			ID:        id,
			Email:     id.String() + "@example.com",
			Name:      string(role),
			CreatedAt: time.Now(),
		})
		snapshot.Roles[id] = role

		return nil
	})
	require.NoError(t, err)

	return id
}

// seedStore registers a store for owner through the catalog service.
func (fx *marketFixtures) seedStore(t *testing.T, owner uuid.UUID, name string) *entity.Store {
	t.Helper()

	store, err := fx.catalog.RegisterStore(context.Background(), owner, &usecase.RegisterStoreInput{
		Name:    name,
		Phone:   "02-1234-5678",
		Address: "1 Market Street",
	})
	require.NoError(t, err)

	return store
}

// seedProduct adds a product with the given price and stock.
func (fx *marketFixtures) seedProduct(t *testing.T, owner uuid.UUID, storeID int64, name string, price int64, stock int) *entity.Product {
	t.Helper()

	product, err := fx.catalog.AddProduct(context.Background(), owner, storeID, &usecase.AddProductInput{
		Name:  name,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	})
	require.NoError(t, err)

	return product
}

func testAddress() entity.ShippingAddress {
	return entity.ShippingAddress{
		Recipient: "Lin",
		Phone:     "0912-345-678",
		Address:   "2 Harbor Road",
	}
}

func ptr[T any](v T) *T {
	return &v
}
