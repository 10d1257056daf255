// internal/interfaces/cli/checkout.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/your-org/grocery-storefront/internal/app"
	"github.com/your-org/grocery-storefront/internal/domain/order"
)

func newCheckoutCommand(r *runner) *cobra.Command {
	var method, notes string
	var summaryOnly bool

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Long: `Place an order for everything in the cart, delivered to the default
address. Online payments ask for confirmation unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				summary := a.Checkout.Summary()
				if summaryOnly {
					return out.Success(summary, func(w io.Writer) {
						fmt.Fprintf(w, "%d item(s)\n", summary.ItemCount)
						fmt.Fprintf(w, "Subtotal:  %s %.2f\n", summary.Currency, summary.Subtotal)
						fmt.Fprintf(w, "Delivery:  %s %.2f\n", summary.Currency, summary.DeliveryFee)
						fmt.Fprintf(w, "Total:     %s %.2f\n", summary.Currency, summary.Total)
						if summary.Address != nil {
							fmt.Fprintf(w, "Deliver to %s\n", summary.Address.Snapshot())
						}
					})
				}

				placed, err := a.Checkout.Checkout(ctx, order.PaymentMethod(method), notes)
				if err != nil {
					return err
				}
				return out.Success(placed, func(w io.Writer) {
					fmt.Fprintf(w, "Order %s placed: %d item(s), total %s %.2f\n",
						placed.DisplayNumber(), placed.ItemCount(), summary.Currency, placed.Total)
					fmt.Fprintf(w, "Delivering to %s\n", placed.Address)
				})
			})
		},
	}

	cmd.Flags().StringVar(&method, "payment", string(order.PaymentCOD), "Payment method (cod|online)")
	cmd.Flags().StringVar(&notes, "notes", "", "Delivery notes")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "Only show the priced cart")

	return cmd
}
