package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	domainerrors "market/internal/domain/errors"
	"market/internal/infra/requestctx"

	"github.com/pkg/errors"
)

// Supported subcommands:
// - bootstrap-admin:  Create the first admin account
// - signup:           Create a buyer or seller account
// - token:            Issue a session token for an account
// - register-store:   Register a store owned by the session's seller
// - add-product:      Add a product to a store
// - set-order-status: Move an order to another status
// - store-orders:     List the orders of a store
// - store-qr:         Write the share QR code of a store

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runSubcommand(ctx, os.Args[1], os.Args[2:]); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// command is one subcommand: its flag set and the action run after parsing.
type command struct {
	flags *flag.FlagSet
	run   func(ctx context.Context, app *marketApp) error
}

func commands() map[string]command {
	return map[string]command{
		"bootstrap-admin":  bootstrapAdminCommand(),
		"signup":           signUpCommand(),
		"token":            tokenCommand(),
		"register-store":   registerStoreCommand(),
		"add-product":      addProductCommand(),
		"set-order-status": setOrderStatusCommand(),
		"store-orders":     storeOrdersCommand(),
		"store-qr":         storeQRCommand(),
	}
}

func runSubcommand(ctx context.Context, name string, args []string) error {
	cmd, ok := commands()[name]
	if !ok {
		printUsage()

		return errors.Errorf("unknown subcommand %q", name)
	}

	if err := cmd.flags.Parse(args); err != nil {
		return errors.Wrapf(err, "failed to parse %s flags", name)
	}

	return withApp(ctx, func(app *marketApp) error {
		return cmd.run(requestctx.New(ctx, app.Logger), app)
	})
}

// printError reports the business code of err when it carries one.
func printError(err error) {
	info := domainerrors.ToErrorInfo(err)
	if info.Code == domainerrors.ErrInternalError.ErrorCode() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return
	}

	fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", info.Code, info.Message)
	if info.Details != nil {
		fmt.Fprintf(os.Stderr, "  %v\n", info.Details)
	}
}

func printUsage() {
	fmt.Println("Usage: marketctl <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  bootstrap-admin   Create the first admin account")
	fmt.Println("  signup            Create a buyer or seller account")
	fmt.Println("  token             Issue a session token for an account")
	fmt.Println("  register-store    Register a store owned by the session's seller")
	fmt.Println("  add-product       Add a product to a store")
	fmt.Println("  set-order-status  Move an order to another status")
	fmt.Println("  store-orders      List the orders of a store")
	fmt.Println("  store-qr          Write the share QR code of a store")
	fmt.Println()
	fmt.Println("Run 'marketctl <command> -h' for command options.")
	fmt.Println("Configuration is read from config/config.yaml and environment overrides.")
}
