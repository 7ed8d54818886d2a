package impl

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"market/internal/domain/authz"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	"market/internal/errors"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager repository.TransactionManager
	qrService service.QRCodeService
	logger    *slog.Logger
	now       func() time.Time
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	txManager repository.TransactionManager,
	qrService service.QRCodeService,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		txManager: txManager,
		qrService: qrService,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterStore creates a store owned by the actor, who must hold the seller role.
func (srv *catalogService) RegisterStore(ctx context.Context, actorID uuid.UUID, input *usecase.RegisterStoreInput) (*entity.Store, error) {
	srv.logger.Info("Registering store", "actorID", actorID, "name", input.Name)

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := validateDeliveryInfo(input.DeliveryInfo); err != nil {
		return nil, err
	}

	var created entity.Store

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		// 1. Only sellers may own stores
		if !snapshot.HasRole(actorID, entity.RoleSeller) {
			return errors.Wrapf(domainerrors.ErrInvalidRole, "actor %s is not a seller", actorID)
		}

		// 2. Build the store under a fresh id
		now := srv.now()
		store := entity.Store{
			ID:            snapshot.NextStoreID(),
			OwnerID:       actorID,
			Name:          input.Name,
			Description:   input.Description,
			Phone:         input.Phone,
			Address:       input.Address,
			CategoryID:    input.CategoryID,
			BusinessHours: input.BusinessHours,
			Status:        entity.StoreStatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		applyDeliveryInfo(&store.DeliveryInfo, input.DeliveryInfo)
		if input.BankInfo != nil {
			store.BankInfo = *input.BankInfo
		}

		// 3. Append it with an empty product list
		snapshot.Stores = append(snapshot.Stores, store)
		snapshot.Products[store.ID] = []entity.Product{}
		created = store

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to register store")
	}

	srv.logger.Info("Store registered", "storeID", created.ID, "ownerID", actorID)

	return &created, nil
}

// UpdateStore merges the patch into the store.
func (srv *catalogService) UpdateStore(ctx context.Context, actorID uuid.UUID, storeID int64, input *usecase.UpdateStoreInput) (*entity.Store, error) {
	srv.logger.Info("Updating store", "actorID", actorID, "storeID", storeID)

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := validateDeliveryInfo(input.DeliveryInfo); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown store status %q", *input.Status)
	}

	var updated entity.Store

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		// 1. Resolve and authorize
		store, err := authz.NewGuard(snapshot).AuthorizeStore(actorID, storeID)
		if err != nil {
			return err
		}

		// 2. Merge the patch
		applyStorePatch(store, input)
		store.UpdatedAt = srv.now()
		updated = *store

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update store")
	}

	return &updated, nil
}

// AddProduct appends a product to the store under the next per-store id.
func (srv *catalogService) AddProduct(ctx context.Context, actorID uuid.UUID, storeID int64, input *usecase.AddProductInput) (*entity.Product, error) {
	srv.logger.Info("Adding product", "actorID", actorID, "storeID", storeID, "name", input.Name)

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := validatePricing(input.Price, input.DiscountPrice, input.Options); err != nil {
		return nil, err
	}
	status := entity.ProductStatusActive
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown product status %q", *input.Status)
		}
		status = *input.Status
	}

	var created entity.Product

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		// 1. Resolve and authorize
		store, err := authz.NewGuard(snapshot).AuthorizeProduct(actorID, storeID)
		if err != nil {
			return err
		}

		// 2. Build the product
		now := srv.now()
		product := entity.Product{
			ID:          snapshot.NextProductID(store.ID),
			StoreID:     store.ID,
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			CategoryID:  input.CategoryID,
			Options:     slices.Clone(input.Options),
			Images:      slices.Clone(input.Images),
			Stock:       input.Stock,
			Status:      status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if input.DiscountPrice != nil {
			product.DiscountPrice = decimal.NewNullDecimal(*input.DiscountPrice)
		}

		// 3. Append to the store's list
		snapshot.Products[store.ID] = append(snapshot.Products[store.ID], product)
		created = product.Clone()

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add product")
	}

	return &created, nil
}

// UpdateProduct merges the patch into the product.
func (srv *catalogService) UpdateProduct(
	ctx context.Context,
	actorID uuid.UUID,
	storeID, productID int64,
	input *usecase.UpdateProductInput,
) (*entity.Product, error) {
	srv.logger.Info("Updating product", "actorID", actorID, "storeID", storeID, "productID", productID)

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown product status %q", *input.Status)
	}

	var updated entity.Product

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		// 1. Resolve and authorize
		store, err := authz.NewGuard(snapshot).AuthorizeProduct(actorID, storeID)
		if err != nil {
			return err
		}

		product := snapshot.FindProduct(store.ID, productID)
		if product == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "product %d not found in store %d", productID, storeID)
		}

		// 2. Merge the patch, then check the merged prices
		applyProductPatch(product, input)

		var discount *decimal.Decimal
		if product.DiscountPrice.Valid {
			discount = &product.DiscountPrice.Decimal
		}
		if err := validatePricing(product.Price, discount, product.Options); err != nil {
			return err
		}

		product.UpdatedAt = srv.now()
		updated = product.Clone()

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	return &updated, nil
}

// DeleteProduct removes the product. Deleting an absent product fails with ErrNotFound.
func (srv *catalogService) DeleteProduct(ctx context.Context, actorID uuid.UUID, storeID, productID int64) error {
	srv.logger.Info("Deleting product", "actorID", actorID, "storeID", storeID, "productID", productID)

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		store, err := authz.NewGuard(snapshot).AuthorizeProduct(actorID, storeID)
		if err != nil {
			return err
		}

		products := snapshot.Products[store.ID]
		remaining := slices.DeleteFunc(slices.Clone(products), func(p entity.Product) bool {
			return p.ID == productID
		})
		if len(remaining) == len(products) {
			return errors.Wrapf(domainerrors.ErrNotFound, "product %d not found in store %d", productID, storeID)
		}
		snapshot.Products[store.ID] = remaining

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	return nil
}

// GetStore returns one store.
func (srv *catalogService) GetStore(ctx context.Context, storeID int64) (*entity.Store, error) {
	var found entity.Store

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		store := snapshot.FindStore(storeID)
		if store == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "store %d not found", storeID)
		}
		found = *store

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get store")
	}

	return &found, nil
}

// ListStores returns every store in registration order.
func (srv *catalogService) ListStores(ctx context.Context) ([]entity.Store, error) {
	var stores []entity.Store

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		stores = snapshot.Stores

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	return stores, nil
}

// ListStoresByOwner returns the stores owned by ownerID.
func (srv *catalogService) ListStoresByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Store, error) {
	stores := []entity.Store{}

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		for _, store := range snapshot.Stores {
			if store.OwnerID == ownerID {
				stores = append(stores, store)
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores by owner")
	}

	return stores, nil
}

// GetProduct returns one product of a store.
func (srv *catalogService) GetProduct(ctx context.Context, storeID, productID int64) (*entity.Product, error) {
	var found entity.Product

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		if snapshot.FindStore(storeID) == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "store %d not found", storeID)
		}
		product := snapshot.FindProduct(storeID, productID)
		if product == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "product %d not found in store %d", productID, storeID)
		}
		found = product.Clone()

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get product")
	}

	return &found, nil
}

// ListProducts returns the products of a store.
func (srv *catalogService) ListProducts(ctx context.Context, storeID int64) ([]entity.Product, error) {
	var products []entity.Product

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		if snapshot.FindStore(storeID) == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "store %d not found", storeID)
		}
		products = snapshot.Products[storeID]
		if products == nil {
			products = []entity.Product{}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// StoreShareQR renders the share QR code of an existing store.
func (srv *catalogService) StoreShareQR(ctx context.Context, storeID int64) ([]byte, error) {
	if _, err := srv.GetStore(ctx, storeID); err != nil {
		return nil, err
	}

	png, err := srv.qrService.GenerateStoreQR(storeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate store QR code")
	}

	return png, nil
}

func applyStorePatch(store *entity.Store, input *usecase.UpdateStoreInput) {
	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.Description != nil {
		store.Description = *input.Description
	}
	if input.Phone != nil {
		store.Phone = *input.Phone
	}
	if input.Address != nil {
		store.Address = *input.Address
	}
	if input.CategoryID != nil {
		store.CategoryID = *input.CategoryID
	}
	if input.BusinessHours != nil {
		store.BusinessHours = *input.BusinessHours
	}
	if input.BankInfo != nil {
		store.BankInfo = *input.BankInfo
	}
	if input.Status != nil {
		store.Status = *input.Status
	}
	applyDeliveryInfo(&store.DeliveryInfo, input.DeliveryInfo)
}

func applyDeliveryInfo(info *entity.DeliveryInfo, input *usecase.DeliveryInfoInput) {
	if input == nil {
		return
	}
	if input.Fee != nil {
		info.Fee = decimal.NewNullDecimal(*input.Fee)
	}
	if input.MinOrderAmount != nil {
		info.MinOrderAmount = decimal.NewNullDecimal(*input.MinOrderAmount)
	}
	if input.Note != nil {
		info.Note = *input.Note
	}
}

func applyProductPatch(product *entity.Product, input *usecase.UpdateProductInput) {
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.DiscountPrice != nil {
		product.DiscountPrice = decimal.NewNullDecimal(*input.DiscountPrice)
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Options != nil {
		product.Options = slices.Clone(*input.Options)
	}
	if input.Images != nil {
		product.Images = slices.Clone(*input.Images)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Status != nil {
		product.Status = *input.Status
	}
}

func validateDeliveryInfo(input *usecase.DeliveryInfoInput) error {
	if input == nil {
		return nil
	}
	if input.Fee != nil && input.Fee.IsNegative() {
		return errors.Wrap(domainerrors.ErrValidationFailed, "delivery fee must not be negative")
	}
	if input.MinOrderAmount != nil && input.MinOrderAmount.IsNegative() {
		return errors.Wrap(domainerrors.ErrValidationFailed, "minimum order amount must not be negative")
	}

	return nil
}

func validatePricing(price decimal.Decimal, discount *decimal.Decimal, options []entity.ProductOption) error {
	if price.IsNegative() {
		return errors.Wrap(domainerrors.ErrValidationFailed, "price must not be negative")
	}
	if discount != nil && (discount.IsNegative() || discount.GreaterThan(price)) {
		return errors.Wrap(domainerrors.ErrValidationFailed, "discount price must be between 0 and the price")
	}
	for _, option := range options {
		if option.Name == "" {
			return errors.Wrap(domainerrors.ErrValidationFailed, "option name is required")
		}
		if option.Price.IsNegative() {
			return errors.Wrapf(domainerrors.ErrValidationFailed, "option %q price must not be negative", option.Name)
		}
	}

	return nil
}
