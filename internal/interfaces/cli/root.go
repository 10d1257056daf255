// internal/interfaces/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/your-org/grocery-storefront/internal/app"
	"github.com/your-org/grocery-storefront/internal/domain/address"
	"github.com/your-org/grocery-storefront/internal/domain/cart"
	"github.com/your-org/grocery-storefront/internal/domain/catalog"
	"github.com/your-org/grocery-storefront/internal/domain/checkout"
	"github.com/your-org/grocery-storefront/internal/domain/order"
	"github.com/your-org/grocery-storefront/internal/domain/session"
	"github.com/your-org/grocery-storefront/internal/infrastructure/api"
)

// ValidFormats lists the accepted output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// AppFactory builds the storefront client for one command invocation.
type AppFactory func(opts app.Options) (*app.App, error)

// RootOptions holds global flags.
type RootOptions struct {
	Verbose bool
	Format  string
	Yes     bool
}

// NewRootCommand creates the root command for the storefront CLI.
func NewRootCommand(newApp AppFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Grocery storefront client",
		Long: `storefront browses the catalog, manages the cart and places orders
against the grocery backend. The signed-in session is kept between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidFormats {
				if opts.Format == f {
					return nil
				}
			}
			msg := fmt.Sprintf("invalid format %q: must be one of %s", opts.Format, strings.Join(ValidFormats, ", "))
			fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", ErrCodeInvalidInput, msg)
			return NewExitError(ExitCommandError, msg)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "Output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Yes, "yes", "y", false, "Confirm online payments without asking")

	r := &runner{opts: opts, newApp: newApp}

	cmd.AddCommand(newLoginCommand(r))
	cmd.AddCommand(newSignupCommand(r))
	cmd.AddCommand(newLogoutCommand(r))
	cmd.AddCommand(newWhoamiCommand(r))
	cmd.AddCommand(newCatalogCommand(r))
	cmd.AddCommand(newCartCommand(r))
	cmd.AddCommand(newAddressCommand(r))
	cmd.AddCommand(newOrdersCommand(r))
	cmd.AddCommand(newCheckoutCommand(r))

	return cmd
}

// runner builds the app around a command and maps its errors to exit codes
type runner struct {
	opts   *RootOptions
	newApp AppFactory
}

type runFunc func(ctx context.Context, a *app.App, out *OutputFormatter) error

func (r *runner) run(cmd *cobra.Command, fn runFunc) error {
	out := &OutputFormatter{
		Format:    r.opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   r.opts.Verbose,
	}

	a, err := r.newApp(app.Options{
		Prompter: &prompter{out: out},
		Gateway:  &confirmGateway{in: cmd.InOrStdin(), out: out, autoConfirm: r.opts.Yes},
	})
	if err != nil {
		return r.fail(out, err, WrapExitError(ExitCommandError, "failed to start storefront", err))
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.Start(ctx)
	if user := a.Session.Current(); user != nil {
		out.VerboseLog("Signed in as %s (%s)", user.Name, user.Phone)
	}

	if err := fn(ctx, a, out); err != nil {
		return r.fail(out, err, classify(err))
	}
	return nil
}

func (r *runner) fail(out *OutputFormatter, cause error, exitErr *ExitError) error {
	_ = out.Error(errorCode(cause, exitErr.Code), exitErr.Error())
	return exitErr
}

// classify maps domain errors onto exit codes
func classify(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var authErr *session.AuthError
	var payErr *checkout.PaymentError
	switch {
	case errors.Is(err, cart.ErrLoginRequired), errors.Is(err, session.ErrNotAuthenticated):
		return &ExitError{Code: ExitAuthRequired, Err: err}
	case errors.As(err, &authErr):
		return WrapExitError(ExitFailure, "authentication failed", err)
	case errors.As(err, &payErr):
		return WrapExitError(ExitFailure, "checkout failed", err)
	case api.IsTransport(err):
		return WrapExitError(ExitCommandError, "backend unavailable", err)
	}
	// rejections and domain errors carry a message meant for the user
	return &ExitError{Code: ExitFailure, Err: err}
}

func errorCode(cause error, exitCode int) string {
	var payErr *checkout.PaymentError
	switch {
	case exitCode == ExitAuthRequired:
		return ErrCodeAuthRequired
	case errors.As(cause, &payErr):
		return ErrCodePayment
	case api.IsTransport(cause):
		return ErrCodeTransport
	case errors.Is(cause, address.ErrAddressNotFound), errors.Is(cause, order.ErrOrderNotFound),
		errors.Is(cause, catalog.ErrVariantNotFound):
		return ErrCodeNotFound
	case errors.Is(cause, cart.ErrInvalidQuantity), errors.Is(cause, order.ErrInvalidPaymentMethod),
		errors.Is(cause, checkout.ErrEmptyCart), errors.Is(cause, checkout.ErrNoDeliveryAddress),
		errors.Is(cause, catalog.ErrOutOfStock), exitCode == ExitCommandError:
		return ErrCodeInvalidInput
	}
	if _, ok := api.AsRejection(cause); ok {
		return ErrCodeRejected
	}
	return ErrCodeGeneric
}
