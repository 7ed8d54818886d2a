package impl

import (
	"context"
	"log/slog"
	"time"

	"market/config"
	"market/internal/domain/checkout"
	"market/internal/domain/constants"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	"market/internal/errors"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// checkoutService implements the CheckoutUsecase interface.
type checkoutService struct {
	txManager     repository.TransactionManager
	orders        usecase.OrderUsecase
	carts         repository.CartRepository
	publisher     service.EventPublisher
	terms         checkout.Terms
	maxConcurrent int
	logger        *slog.Logger
	now           func() time.Time
}

// CheckoutServiceParams holds dependencies for CheckoutService, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Orders    usecase.OrderUsecase
	Carts     repository.CartRepository
	Publisher service.EventPublisher
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	maxConcurrent := constants.DefaultMaxConcurrentOrders
	if params.Config != nil && params.Config.Checkout != nil && params.Config.Checkout.MaxConcurrentSubmissions > 0 {
		maxConcurrent = params.Config.Checkout.MaxConcurrentSubmissions
	}

	return &checkoutService{
		txManager:     params.TxManager,
		orders:        params.Orders,
		carts:         params.Carts,
		publisher:     params.Publisher,
		terms:         checkoutTerms(params.Config),
		maxConcurrent: maxConcurrent,
		logger:        params.Logger,
		now:           time.Now,
	}
}

// Checkout splits the lines into one order per store and submits them concurrently.
// Orders that were created stay created whatever happens to the other stores.
func (srv *checkoutService) Checkout(ctx context.Context, buyerID uuid.UUID, input *usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
	srv.logger.Info("Checking out", "buyerID", buyerID, "lines", len(input.Lines))

	if err := validateInput(input); err != nil {
		return nil, err
	}

	// 1. Split the cart against the current catalog
	var plan *checkout.Plan

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		if snapshot.FindUser(buyerID) == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "buyer %s not found", buyerID)
		}
		plan = checkout.Split(snapshot, buyerID, input.Lines, input.ShippingAddress, input.PaymentMethod, srv.terms)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to split cart")
	}

	if len(plan.SubOrders) == 0 {
		return nil, errors.Wrap(
			domainerrors.ErrValidationFailed.WithDetails("no line could be resolved"),
			"nothing to check out",
		)
	}
	for _, dropped := range plan.Dropped {
		srv.logger.Warn("Dropped cart line",
			"storeID", dropped.Line.StoreID,
			"productID", dropped.Line.ProductID,
			"reason", dropped.Reason,
		)
	}

	// 2. Submit every sub-order; a failure is recorded, never propagated
	outcomes := make([]usecase.StoreOutcome, len(plan.SubOrders))

	var group errgroup.Group
	group.SetLimit(srv.maxConcurrent)

	for i, sub := range plan.SubOrders {
		group.Go(func() error {
			outcome := usecase.StoreOutcome{StoreID: sub.Store.ID, Quote: sub.Quote}

			order, err := srv.orders.CreateOrder(ctx, buyerID, subOrderInput(sub))
			if err != nil {
				srv.logger.Error("Failed to create sub-order", "buyerID", buyerID, "storeID", sub.Store.ID, "error", err)
				outcome.Err = err
				outcome.Error = err.Error()
			} else {
				outcome.Order = order
			}
			outcomes[i] = outcome

			return nil
		})
	}
	_ = group.Wait()

	// 3. Summarize
	result := &usecase.CheckoutResult{
		Outcomes: outcomes,
		Dropped:  plan.Dropped,
		Total:    decimal.Zero,
	}
	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			succeeded++
			result.Total = result.Total.Add(outcome.Order.TotalAmount)
		}
	}

	switch succeeded {
	case len(outcomes):
		result.Status = usecase.CheckoutStatusSucceeded
	case 0:
		result.Status = usecase.CheckoutStatusFailed
	default:
		result.Status = usecase.CheckoutStatusPartial
	}

	srv.logger.Info("Checkout finished",
		"buyerID", buyerID,
		"status", result.Status,
		"created", succeeded,
		"failed", len(outcomes)-succeeded,
		"dropped", len(plan.Dropped),
	)

	return result, nil
}

// CheckoutCart checks out the buyer's stored cart. Lines of stores whose order
// was created leave the cart; everything else stays for another attempt.
func (srv *checkoutService) CheckoutCart(ctx context.Context, buyerID uuid.UUID, input *usecase.CheckoutCartInput) (*usecase.CheckoutResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// 1. Load the cart
	cart, err := srv.carts.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}
	if len(cart.Items) == 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("cart is empty"), "nothing to check out")
	}

	// 2. Check out its lines
	lines := make([]checkout.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, checkout.Line{
			StoreID:   item.StoreID,
			ProductID: item.ProductID,
			Option:    item.Option,
			Quantity:  item.Quantity,
		})
	}

	result, err := srv.Checkout(ctx, buyerID, &usecase.CheckoutInput{
		Lines:           lines,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	// 3. Remove the lines that became orders
	var placed []int64
	for _, outcome := range result.Outcomes {
		if outcome.Succeeded() {
			placed = append(placed, outcome.StoreID)
		}
	}
	if len(placed) == 0 {
		return result, nil
	}

	cart.RemoveStores(placed)
	cart.UpdatedAt = srv.now()
	if err := srv.carts.Save(ctx, cart); err != nil {
		// The orders exist already; the buyer can clear the stale lines by hand.
		srv.logger.Error("Failed to update cart after checkout", "buyerID", buyerID, "error", err)

		return result, nil
	}

	publishEvent(ctx, srv.publisher, srv.logger, cartEvent(buyerID, cart.UpdatedAt))

	return result, nil
}

func subOrderInput(sub checkout.SubOrderRequest) *usecase.CreateOrderInput {
	lines := make([]usecase.OrderLineInput, 0, len(sub.Items))
	for _, item := range sub.Items {
		line := usecase.OrderLineInput{ProductID: item.Product.ID, Quantity: item.Quantity}
		if item.Option != nil {
			line.Option = item.Option.Name
		}
		lines = append(lines, line)
	}

	return &usecase.CreateOrderInput{
		StoreID:         sub.Store.ID,
		Lines:           lines,
		ShippingAddress: sub.ShippingAddress,
		PaymentMethod:   sub.PaymentMethod,
	}
}
