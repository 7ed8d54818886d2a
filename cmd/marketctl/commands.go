package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"market/internal/domain/entity"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// session is the -token flag shared by every guarded command.
type session struct {
	token *string
}

func withSession(fs *flag.FlagSet) session {
	return session{token: fs.String("token", os.Getenv("MARKET_TOKEN"), "Session token (defaults to $MARKET_TOKEN)")}
}

// actor validates the session token and returns the user it names.
func (s session) actor(app *marketApp) (uuid.UUID, error) {
	if *s.token == "" {
		return uuid.Nil, errors.New("a session token is required (-token or MARKET_TOKEN)")
	}

	claims, err := app.Tokens.ValidateToken(*s.token)
	if err != nil {
		return uuid.Nil, err
	}

	return claims.UserID, nil
}

func bootstrapAdminCommand() command {
	fs := flag.NewFlagSet("bootstrap-admin", flag.ExitOnError)
	email := fs.String("email", "", "Admin email")
	name := fs.String("name", "", "Admin display name")

	return command{flags: fs, run: func(ctx context.Context, app *marketApp) error {
		user, err := app.Users.BootstrapAdmin(ctx, &usecase.BootstrapAdminInput{Email: *email, Name: *name})
		if err != nil {
			return err
		}

		return printSession(app, user, entity.RoleAdmin)
	}}
}

func signUpCommand() command {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "Account email")
	name := fs.String("name", "", "Display name")
	phone := fs.String("phone", "", "Contact phone")
	address := fs.String("address", "", "Default shipping address")
	role := fs.String("role", string(entity.RoleBuyer), "Role: buyer or seller")

	return command{flags: fs, run: func(ctx context.Context, app *marketApp) error {
		user, err := app.Users.SignUp(ctx, &usecase.SignUpInput{
			Email:   *email,
			Name:    *name,
			Phone:   *phone,
			Address: *address,
			Role:    entity.Role(*role),
		})
		if err != nil {
			return err
		}

		return printSession(app, user, entity.Role(*role))
	}}
}

func tokenCommand() command {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	userFlag := fs.String("user", "", "User ID")

	return command{flags: fs, run: func(ctx context.Context, app *marketApp) error {
		userID, err := uuid.Parse(*userFlag)
		if err != nil {
			return errors.Wrap(err, "invalid -user")
		}

		user, err := app.Users.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		role, err := app.Roles.GetRole(ctx, userID)
		if err != nil {
			return err
		}

		return printSession(app, user, role)
	}}
}

func registerStoreCommand() command {
	fs := flag.NewFlagSet("register-store", flag.ExitOnError)
	sess := withSession(fs)
	name := fs.String("name", "", "Store name")
	phone := fs.String("phone", "", "Store phone")
	address := fs.String("address", "", "Store address")
	description := fs.String("description", "", "Store description")
	fee := fs.String("delivery-fee", "", "Delivery fee (marketplace default when empty)")
	minOrder := fs.String("free-shipping-from", "", "Free-shipping threshold (marketplace default when empty)")

	return command{flags: fs, run: func(ctx context.Context, app *marketApp) error {
		actorID, err := sess.actor(app)
		if err != nil {
			return err
		}

		input := &usecase.RegisterStoreInput{
			Name:        *name,
			Phone:       *phone,
			Address:     *address,
			Description: *description,
		}
		if *fee != "" || *minOrder != "" {
			input.DeliveryInfo = &usecase.DeliveryInfoInput{}
			if input.DeliveryInfo.Fee, err = parseAmount(*fee); err != nil {
				return errors.Wrap(err, "invalid -delivery-fee")
			}
			if input.DeliveryInfo.MinOrderAmount, err = parseAmount(*minOrder); err != nil {
				return errors.Wrap(err, "invalid -free-shipping-from")
			}
		}

		store, err := app.Catalog.RegisterStore(ctx, actorID, input)
		if err != nil {
			return err
		}

		return printJSON(store)
	}}
}

func addProductCommand() command {
	fs := flag.NewFlagSet("add-product", flag.ExitOnError)
	sess := withSession(fs)
	storeID := fs.Int64("store", 0, "Store ID")
	name := fs.String("name", "", "Product name")
	price := fs.String("price", "0", "Unit price")
	stock := fs.Int("stock", 0, "Units in stock")

	return command{flags: fs, run: func(ctx context.Context, app *marketApp) error {
		actorID, err := sess.actor(app)
		if err != nil {
			return err
		}

		amount, err := decimal.NewFromString(*price)
		if err != nil {
			return errors.Wrap(err, "invalid -price")
		}

		product, err := app.Catalog.AddProduct(ctx, actorID, *storeID, &usecase.AddProductInput{
			Name:  *name,
			Price: amount,
			Stock: *stock,
		})
		if err != nil {
			return err
		}

		return printJSON(product)
	}}
}

func setOrderStatusCommand() command {
	fs := flag.NewFlagSet("set-order-status", flag.ExitOnError)
	sess := withSession(fs)
	orderFlag := fs.String("order", "", "Order ID")
	status := fs.String("status", "", "New status: pending, processing, shipped, delivered, cancelled or refunded")

	return command{flags: fs, run: func(ctx context.Context, app *marketApp) error {
		actorID, err := sess.actor(app)
		if err != nil {
			return err
		}

		orderID, err := uuid.Parse(*orderFlag)
		if err != nil {
			return errors.Wrap(err, "invalid -order")
		}

		order, err := app.Orders.UpdateOrderStatus(ctx, actorID, orderID, *status)
		if err != nil {
			return err
		}

		return printJSON(order)
	}}
}

func storeOrdersCommand() command {
	fs := flag.NewFlagSet("store-orders", flag.ExitOnError)
	sess := withSession(fs)
	storeID := fs.Int64("store", 0, "Store ID")

	return command{flags: fs, run: func(ctx context.Context, app *marketApp) error {
		actorID, err := sess.actor(app)
		if err != nil {
			return err
		}

		orders, err := app.Orders.ListStoreOrders(ctx, actorID, *storeID)
		if err != nil {
			return err
		}

		return printJSON(orders)
	}}
}

func storeQRCommand() command {
	fs := flag.NewFlagSet("store-qr", flag.ExitOnError)
	storeID := fs.Int64("store", 0, "Store ID")
	output := fs.String("out", "", "Output PNG file (defaults to store-<id>.png)")

	return command{flags: fs, run: func(ctx context.Context, app *marketApp) error {
		png, err := app.Catalog.StoreShareQR(ctx, *storeID)
		if err != nil {
			return err
		}

		path := *output
		if path == "" {
			path = fmt.Sprintf("store-%d.png", *storeID)
		}
		if err := os.WriteFile(path, png, 0o600); err != nil {
			return errors.Wrap(err, "failed to write QR code")
		}

		fmt.Println(path)

		return nil
	}}
}

func printSession(app *marketApp, user *entity.User, role entity.Role) error {
	token, err := app.Tokens.GenerateToken(user.ID, role)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"user":       user,
		"role":       role,
		"token":      token,
		"expires_in": app.Tokens.TokenDuration().String(),
	})
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return errors.Wrap(encoder.Encode(v), "failed to write output")
}

func parseAmount(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}

	return &amount, nil
}
