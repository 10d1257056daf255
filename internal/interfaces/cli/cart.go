// internal/interfaces/cli/cart.go
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/your-org/grocery-storefront/internal/app"
	"github.com/your-org/grocery-storefront/internal/domain/cart"
	"github.com/your-org/grocery-storefront/internal/domain/session"
)

type cartView struct {
	Lines  []cart.Line `json:"lines"`
	Totals cart.Totals `json:"totals"`
}

func newCartCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				return printCart(out, a)
			})
		},
	})

	var quantity int
	add := &cobra.Command{
		Use:   "add <productId> <variantId>",
		Short: "Add a product variant to the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if a.Cart.RequireLogin() {
					return cart.ErrLoginRequired
				}
				product, err := a.Catalog.Product(ctx, args[0])
				if err != nil {
					return err
				}
				line, err := product.LineFor(args[1], quantity)
				if err != nil {
					return err
				}
				if err := a.Cart.AddToCart(ctx, line); err != nil {
					return err
				}
				out.VerboseLog("Added %d x %s %s", quantity, line.Name, line.VariantLabel)
				return printCart(out, a)
			})
		},
	}
	add.Flags().IntVarP(&quantity, "qty", "q", 1, "Quantity to add")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "update <productId> <variantId> <quantity>",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				qty, err := strconv.Atoi(args[2])
				if err != nil {
					return NewExitError(ExitCommandError, fmt.Sprintf("invalid quantity %q", args[2]))
				}
				if a.Session.Current() == nil {
					return session.ErrNotAuthenticated
				}
				if err := a.Cart.UpdateQuantity(ctx, args[0], args[1], qty); err != nil {
					return err
				}
				return printCart(out, a)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <productId> <variantId>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if a.Session.Current() == nil {
					return session.ErrNotAuthenticated
				}
				if err := a.Cart.RemoveFromCart(ctx, args[0], args[1]); err != nil {
					return err
				}
				return printCart(out, a)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if a.Session.Current() == nil {
					return session.ErrNotAuthenticated
				}
				if err := a.Cart.ClearCart(ctx); err != nil {
					return err
				}
				return printCart(out, a)
			})
		},
	})

	return cmd
}

func printCart(out *OutputFormatter, a *app.App) error {
	view := cartView{Lines: a.Cart.Lines(), Totals: a.Cart.Totals()}
	if view.Lines == nil {
		view.Lines = []cart.Line{}
	}

	return out.Success(view, func(w io.Writer) {
		if len(view.Lines) == 0 {
			fmt.Fprintln(w, "Your cart is empty")
			return
		}
		tw := newTable(w)
		fmt.Fprintln(tw, "ITEM\tPACK\tQTY\tPRICE\tSUBTOTAL")
		for _, l := range view.Lines {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\n", l.Name, l.VariantLabel, l.Quantity, l.UnitPrice, l.Subtotal())
		}
		tw.Flush()
		fmt.Fprintf(w, "%d item(s), total %.2f\n", view.Totals.TotalQuantity, view.Totals.SubTotal)
	})
}
