package impl

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"market/config"
	"market/internal/domain/authz"
	"market/internal/domain/checkout"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	"market/internal/errors"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	publisher service.EventPublisher
	policy    entity.TransitionPolicy
	terms     checkout.Terms
	logger    *slog.Logger
	now       func() time.Time
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Publisher service.EventPublisher
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService. The transition policy
// is read from orders.transitionPolicy.
func NewOrderService(params OrderServiceParams) (usecase.OrderUsecase, error) {
	policyName := ""
	if params.Config != nil && params.Config.Orders != nil {
		policyName = params.Config.Orders.TransitionPolicy
	}

	policy, ok := entity.TransitionPolicyByName(policyName)
	if !ok {
		return nil, errors.Errorf("unknown order transition policy %q", policyName)
	}

	return &orderService{
		txManager: params.TxManager,
		publisher: params.Publisher,
		policy:    policy,
		terms:     checkoutTerms(params.Config),
		logger:    params.Logger,
		now:       time.Now,
	}, nil
}

// CreateOrder places a single-store order priced from the current catalog and
// reserves its stock.
func (srv *orderService) CreateOrder(ctx context.Context, actorID uuid.UUID, input *usecase.CreateOrderInput) (*entity.Order, error) {
	srv.logger.Info("Creating order", "actorID", actorID, "storeID", input.StoreID, "lines", len(input.Lines))

	if err := validateInput(input); err != nil {
		return nil, err
	}

	var created entity.Order

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		// 1. The buyer must be a known user
		if snapshot.FindUser(actorID) == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "buyer %s not found", actorID)
		}

		// 2. Resolve the store
		store := snapshot.FindStore(input.StoreID)
		if store == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "store %d not found", input.StoreID)
		}
		if store.Status != entity.StoreStatusActive {
			return errors.Wrapf(domainerrors.ErrConflict, "store %d is %s", store.ID, store.Status)
		}

		// 3. Resolve every line against the store's catalog
		items := make([]entity.OrderItem, 0, len(input.Lines))
		for _, line := range input.Lines {
			item, err := resolveOrderLine(snapshot, store.ID, line)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		// 4. Reserve stock on the private copy
		if err := reserveStock(snapshot, items); err != nil {
			return err
		}

		// 5. Price the order
		quote := checkout.QuoteGroup(*store, items, srv.terms)

		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate order id")
		}

		now := srv.now()
		order := entity.Order{
			ID:              id,
			BuyerID:         actorID,
			Items:           items,
			ShippingAddress: input.ShippingAddress,
			PaymentMethod:   input.PaymentMethod,
			TotalAmount:     quote.Total,
			ShippingFee:     quote.ShippingFee,
			Store:           entity.OrderStore{ID: store.ID, Name: store.Name},
			Status:          entity.OrderStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		// 6. Append the order
		snapshot.Orders = append(snapshot.Orders, order)
		created = order.Clone()

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	srv.logger.Info("Order created", "orderID", created.ID, "storeID", created.Store.ID, "total", created.TotalAmount)
	publishEvent(ctx, srv.publisher, srv.logger, orderEvent(service.EventOrderCreated, actorID, &created, created.CreatedAt))

	return &created, nil
}

// UpdateOrderStatus sets the order's status when the literal is recognized,
// the actor may mutate the order and the transition policy allows it.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, status string) (*entity.Order, error) {
	srv.logger.Info("Updating order status", "actorID", actorID, "orderID", orderID, "status", status)

	next := entity.OrderStatus(status)
	if !next.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrInvalidStatus, "unknown order status %q", status)
	}

	var updated entity.Order

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		// 1. Resolve and authorize
		order, err := authz.NewGuard(snapshot).AuthorizeOrder(actorID, orderID)
		if err != nil {
			return err
		}

		// 2. Check the transition
		prev := order.Status
		if !srv.policy.Allows(prev, next) {
			return errors.Wrap(
				domainerrors.ErrInvalidStatus.WithDetails(prev.String()+" -> "+next.String()),
				"transition rejected by "+srv.policy.Name()+" policy",
			)
		}

		// 3. Move stock when entering or leaving cancelled/refunded
		switch {
		case next.ReleasesStock() && !prev.ReleasesStock():
			releaseStock(snapshot, order.Items)
		case prev.ReleasesStock() && !next.ReleasesStock():
			if short := reclaimStock(snapshot, order.Items); len(short) > 0 {
				srv.logger.Warn("Reopened order could not reclaim all of its stock",
					"orderID", order.ID, "products", short)
			}
		}

		// 4. Apply
		order.Status = next
		order.UpdatedAt = srv.now()
		updated = order.Clone()

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}

	publishEvent(ctx, srv.publisher, srv.logger, orderEvent(service.EventOrderStatusUpdated, actorID, &updated, updated.UpdatedAt))

	return &updated, nil
}

// GetOrder returns one order.
func (srv *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	var found entity.Order

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		order := snapshot.FindOrder(orderID)
		if order == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "order %s not found", orderID)
		}
		found = *order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get order")
	}

	return &found, nil
}

// ListStoreOrders returns the orders of a store to its owner or an admin.
func (srv *orderService) ListStoreOrders(ctx context.Context, actorID uuid.UUID, storeID int64) ([]entity.Order, error) {
	orders := []entity.Order{}

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		if _, err := authz.NewGuard(snapshot).AuthorizeStore(actorID, storeID); err != nil {
			return err
		}

		for _, order := range snapshot.Orders {
			if slices.Contains(order.StoreIDs(), storeID) {
				orders = append(orders, order)
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list store orders")
	}

	return orders, nil
}

// ListBuyerOrders returns the orders placed by the buyer.
func (srv *orderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID) ([]entity.Order, error) {
	orders := []entity.Order{}

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		for _, order := range snapshot.Orders {
			if order.BuyerID == buyerID {
				orders = append(orders, order)
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list buyer orders")
	}

	return orders, nil
}

func resolveOrderLine(snapshot *entity.Snapshot, storeID int64, line usecase.OrderLineInput) (entity.OrderItem, error) {
	product := snapshot.FindProduct(storeID, line.ProductID)
	if product == nil || product.Status == entity.ProductStatusHidden {
		return entity.OrderItem{}, errors.Wrapf(domainerrors.ErrNotFound, "product %d not found in store %d", line.ProductID, storeID)
	}

	item := entity.OrderItem{Product: product.Clone(), Quantity: line.Quantity}
	if line.Option != "" {
		option, ok := product.FindOption(line.Option)
		if !ok {
			return entity.OrderItem{}, errors.Wrapf(domainerrors.ErrNotFound, "option %q not found on product %d", line.Option, line.ProductID)
		}
		chosen := *option
		item.Option = &chosen
	}

	return item, nil
}

// reserveStock takes the items out of stock, failing when any product runs short.
// A product that reaches zero is marked sold out.
func reserveStock(snapshot *entity.Snapshot, items []entity.OrderItem) error {
	for _, item := range items {
		product := snapshot.FindProduct(item.Product.StoreID, item.Product.ID)
		if product == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "product %d not found in store %d", item.Product.ID, item.Product.StoreID)
		}
		if product.Stock < item.Quantity {
			return errors.Wrap(
				domainerrors.ErrInsufficientStock.WithDetails(product.Name),
				"not enough stock",
			)
		}

		product.Stock -= item.Quantity
		if product.Stock == 0 && product.Status == entity.ProductStatusActive {
			product.Status = entity.ProductStatusSoldOut
		}
	}

	return nil
}

// reclaimStock takes stock back for a reopened order. It never fails: products
// that were deleted or resold are taken down to zero and reported.
func reclaimStock(snapshot *entity.Snapshot, items []entity.OrderItem) []string {
	var short []string
	for _, item := range items {
		product := snapshot.FindProduct(item.Product.StoreID, item.Product.ID)
		if product == nil {
			short = append(short, item.Product.Name)

			continue
		}
		if product.Stock < item.Quantity {
			short = append(short, product.Name)
		}

		product.Stock = max(product.Stock-item.Quantity, 0)
		if product.Stock == 0 && product.Status == entity.ProductStatusActive {
			product.Status = entity.ProductStatusSoldOut
		}
	}

	return short
}

// releaseStock puts the items back. Products deleted since the order was placed are skipped.
func releaseStock(snapshot *entity.Snapshot, items []entity.OrderItem) {
	for _, item := range items {
		product := snapshot.FindProduct(item.Product.StoreID, item.Product.ID)
		if product == nil {
			continue
		}

		product.Stock += item.Quantity
		if product.Stock > 0 && product.Status == entity.ProductStatusSoldOut {
			product.Status = entity.ProductStatusActive
		}
	}
}

// checkoutTerms reads the marketplace shipping defaults from configuration.
func checkoutTerms(cfg *config.Config) checkout.Terms {
	terms := checkout.DefaultTerms()
	if cfg == nil || cfg.Checkout == nil {
		return terms
	}
	if cfg.Checkout.FreeShippingThreshold > 0 {
		terms.FreeShippingThreshold = decimal.NewFromInt(cfg.Checkout.FreeShippingThreshold)
	}
	if cfg.Checkout.DeliveryFee > 0 {
		terms.DeliveryFee = decimal.NewFromInt(cfg.Checkout.DeliveryFee)
	}

	return terms
}
