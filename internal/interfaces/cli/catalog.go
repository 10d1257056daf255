// internal/interfaces/cli/catalog.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/your-org/grocery-storefront/internal/app"
	"github.com/your-org/grocery-storefront/internal/domain/catalog"
)

func newCatalogCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse categories and products",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				categories, err := a.Catalog.Categories(ctx)
				if err != nil {
					return err
				}
				return out.Success(categories, func(w io.Writer) {
					tw := newTable(w)
					fmt.Fprintln(tw, "ID\tNAME\tSLUG")
					for _, c := range categories {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Slug)
					}
					tw.Flush()
				})
			})
		},
	})

	var category string
	products := &cobra.Command{
		Use:   "products",
		Short: "List active products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				list, err := a.Catalog.Products(ctx, category)
				if err != nil {
					return err
				}
				return out.Success(list, func(w io.Writer) {
					tw := newTable(w)
					fmt.Fprintln(tw, "PRODUCT\tVARIANT\tNAME\tPACK\tPRICE\tSTOCK")
					for _, p := range list {
						for _, v := range p.Variants {
							fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\n", p.ID, v.ID, p.Name, v.Label, v.Price, stockLabel(v))
						}
					}
					tw.Flush()
				})
			})
		},
	}
	products.Flags().StringVar(&category, "category", "", "Only products in this category id")
	cmd.AddCommand(products)

	cmd.AddCommand(&cobra.Command{
		Use:   "product <id>",
		Short: "Show one product with its variants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				p, err := a.Catalog.Product(ctx, args[0])
				if err != nil {
					return err
				}
				return out.Success(p, func(w io.Writer) {
					fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
					if p.Description != "" {
						fmt.Fprintln(w, p.Description)
					}
					tw := newTable(w)
					fmt.Fprintln(tw, "VARIANT\tPACK\tPRICE\tMRP\tSTOCK")
					for _, v := range p.Variants {
						fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%s\n", v.ID, v.Label, v.Price, v.ComparePrice, stockLabel(v))
					}
					tw.Flush()
				})
			})
		},
	})

	return cmd
}

func stockLabel(v catalog.Variant) string {
	if v.InStock {
		return "in stock"
	}
	return "out of stock"
}
