package impl

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	"market/internal/errors"
	"market/internal/usecase"

	"github.com/google/uuid"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager repository.TransactionManager
	carts     repository.CartRepository
	publisher service.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewCartService is the constructor for cartService.
func NewCartService(
	txManager repository.TransactionManager,
	carts repository.CartRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.CartUsecase {
	return &cartService{
		txManager: txManager,
		carts:     carts,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// GetCart returns the buyer's cart, empty when nothing was stored.
func (srv *cartService) GetCart(ctx context.Context, buyerID uuid.UUID) (*entity.Cart, error) {
	cart, err := srv.carts.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cart")
	}

	return cart, nil
}

// AddItem adds a catalog line to the cart, merging it with an identical line.
func (srv *cartService) AddItem(ctx context.Context, buyerID uuid.UUID, input *usecase.AddCartItemInput) (*entity.Cart, error) {
	srv.logger.Debug("Adding cart item", "buyerID", buyerID, "storeID", input.StoreID, "productID", input.ProductID)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	// 1. The line must point at an offered product
	item := entity.CartItem{
		StoreID:   input.StoreID,
		ProductID: input.ProductID,
		Option:    input.Option,
		Quantity:  input.Quantity,
	}
	if err := srv.checkCatalog(ctx, item); err != nil {
		return nil, err
	}

	// 2. Merge into the cart
	return srv.mutate(ctx, buyerID, func(cart *entity.Cart) error {
		if idx := cart.IndexOf(item); idx >= 0 {
			cart.Items[idx].Quantity += item.Quantity

			return nil
		}
		cart.Items = append(cart.Items, item)

		return nil
	})
}

// UpdateItemQuantity sets the quantity of an existing line. Zero removes it.
func (srv *cartService) UpdateItemQuantity(ctx context.Context, buyerID uuid.UUID, input *usecase.UpdateCartItemInput) (*entity.Cart, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	line := entity.CartItem{StoreID: input.StoreID, ProductID: input.ProductID, Option: input.Option}

	return srv.mutate(ctx, buyerID, func(cart *entity.Cart) error {
		idx := cart.IndexOf(line)
		if idx < 0 {
			return errors.Wrapf(domainerrors.ErrNotFound, "product %d of store %d is not in the cart", input.ProductID, input.StoreID)
		}
		if input.Quantity == 0 {
			cart.Items = slices.Delete(cart.Items, idx, idx+1)

			return nil
		}
		cart.Items[idx].Quantity = input.Quantity

		return nil
	})
}

// RemoveItem drops a line from the cart.
func (srv *cartService) RemoveItem(ctx context.Context, buyerID uuid.UUID, input *usecase.RemoveCartItemInput) (*entity.Cart, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	line := entity.CartItem{StoreID: input.StoreID, ProductID: input.ProductID, Option: input.Option}

	return srv.mutate(ctx, buyerID, func(cart *entity.Cart) error {
		idx := cart.IndexOf(line)
		if idx < 0 {
			return errors.Wrapf(domainerrors.ErrNotFound, "product %d of store %d is not in the cart", input.ProductID, input.StoreID)
		}
		cart.Items = slices.Delete(cart.Items, idx, idx+1)

		return nil
	})
}

// Clear empties the buyer's cart.
func (srv *cartService) Clear(ctx context.Context, buyerID uuid.UUID) error {
	if err := srv.carts.Delete(ctx, buyerID); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}

	publishEvent(ctx, srv.publisher, srv.logger, cartEvent(buyerID, srv.now()))

	return nil
}

func (srv *cartService) mutate(ctx context.Context, buyerID uuid.UUID, fn func(cart *entity.Cart) error) (*entity.Cart, error) {
	cart, err := srv.carts.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	if err := fn(cart); err != nil {
		return nil, err
	}

	cart.UpdatedAt = srv.now()
	if err := srv.carts.Save(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "failed to save cart")
	}

	publishEvent(ctx, srv.publisher, srv.logger, cartEvent(buyerID, cart.UpdatedAt))

	return cart, nil
}

func (srv *cartService) checkCatalog(ctx context.Context, item entity.CartItem) error {
	return srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		if snapshot.FindStore(item.StoreID) == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "store %d not found", item.StoreID)
		}

		product := snapshot.FindProduct(item.StoreID, item.ProductID)
		if product == nil || product.Status == entity.ProductStatusHidden {
			return errors.Wrapf(domainerrors.ErrNotFound, "product %d not found in store %d", item.ProductID, item.StoreID)
		}
		if item.Option != "" {
			if _, ok := product.FindOption(item.Option); !ok {
				return errors.Wrapf(domainerrors.ErrNotFound, "option %q not found on product %d", item.Option, item.ProductID)
			}
		}

		return nil
	})
}
