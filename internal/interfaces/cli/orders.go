// internal/interfaces/cli/orders.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/your-org/grocery-storefront/internal/app"
	"github.com/your-org/grocery-storefront/internal/domain/order"
	"github.com/your-org/grocery-storefront/internal/domain/session"
)

func newOrdersCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order history and receipts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List past orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if a.Session.Current() == nil {
					return session.ErrNotAuthenticated
				}
				orders := a.Orders.Orders()
				if orders == nil {
					orders = []order.Order{}
				}
				return out.Success(orders, func(w io.Writer) {
					if len(orders) == 0 {
						fmt.Fprintln(w, "No orders yet")
						return
					}
					tw := newTable(w)
					fmt.Fprintln(tw, "ORDER\tSTATUS\tITEMS\tTOTAL\tPAYMENT\tPLACED")
					for _, o := range orders {
						fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%s\t%s\n", o.DisplayNumber(), o.Status, o.ItemCount(),
							o.Total, o.PaymentMethod, o.CreatedAt.Local().Format("2006-01-02 15:04"))
					}
					tw.Flush()
				})
			})
		},
	})

	var pdfPath, htmlPath string
	receipt := &cobra.Command{
		Use:   "receipt <order>",
		Short: "Render the receipt of an order by id or order number",
		Long: `Render the receipt of an order. Without --pdf or --html the HTML is
written to standard output. PDF output needs wkhtmltopdf installed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if a.Session.Current() == nil {
					return session.ErrNotAuthenticated
				}
				o, err := a.Orders.Find(args[0])
				if err != nil {
					return err
				}

				if pdfPath != "" {
					buf, err := a.Receipts.PDF(o)
					if err != nil {
						return err
					}
					return writeReceipt(out, o, pdfPath, buf.Bytes())
				}

				html, err := a.Receipts.HTML(o)
				if err != nil {
					return err
				}
				if htmlPath != "" {
					return writeReceipt(out, o, htmlPath, html)
				}
				_, err = out.Writer.Write(html)
				return err
			})
		},
	}
	receipt.Flags().StringVar(&pdfPath, "pdf", "", "Write the receipt as PDF to this file")
	receipt.Flags().StringVar(&htmlPath, "html", "", "Write the receipt as HTML to this file")
	receipt.MarkFlagsMutuallyExclusive("pdf", "html")
	cmd.AddCommand(receipt)

	return cmd
}

func writeReceipt(out *OutputFormatter, o *order.Order, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return out.Success(map[string]string{"order": o.DisplayNumber(), "file": path}, func(w io.Writer) {
		fmt.Fprintf(w, "Receipt for %s written to %s\n", o.DisplayNumber(), path)
	})
}
