package main

import (
	"context"
	"log/slog"

	"market/config"
	"market/internal/domain/service"
	"market/internal/infra/auth"
	logs "market/internal/infra/log"
	"market/internal/infra/persistence"
	"market/internal/infra/pubsub"
	"market/internal/infra/qrcode"
	"market/internal/usecase"
	"market/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// marketApp holds the services a subcommand may use.
type marketApp struct {
	fx.In

	Logger   *slog.Logger
	Tokens   service.TokenService
	Users    usecase.UserUsecase
	Roles    usecase.RoleUsecase
	Catalog  usecase.CatalogUsecase
	Orders   usecase.OrderUsecase
	Checkout usecase.CheckoutUsecase
	Cart     usecase.CartUsecase
}

// withApp starts the dependency graph, runs fn and stops the graph again so that
// publishers, buckets and connections are closed.
func withApp(ctx context.Context, fn func(app *marketApp) error) error {
	var app marketApp

	fxApp := fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		fx.Populate(&app),
		fx.NopLogger,
	)
	if err := fxApp.Err(); err != nil {
		return errors.Wrap(err, "failed to build application")
	}

	if err := fxApp.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start application")
	}

	runErr := fn(&app)

	if err := fxApp.Stop(context.WithoutCancel(ctx)); err != nil && runErr == nil {
		return errors.Wrap(err, "failed to stop application")
	}

	return runErr
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
		),
		persistence.Module,
		pubsub.Module,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			newQRCodeService,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) (service.QRCodeService, error) {
	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewRoleService,
			impl.NewCatalogService,
			impl.NewOrderService,
			impl.NewCheckoutService,
			impl.NewCartService,
		),
	)
}
