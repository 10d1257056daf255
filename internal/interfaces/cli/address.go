// internal/interfaces/cli/address.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/your-org/grocery-storefront/internal/app"
	"github.com/your-org/grocery-storefront/internal/domain/address"
	"github.com/your-org/grocery-storefront/internal/domain/session"
)

func newAddressCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "address",
		Aliases: []string{"addresses"},
		Short:   "Manage delivery addresses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if a.Session.Current() == nil {
					return session.ErrNotAuthenticated
				}
				return printAddresses(out, a.Addresses.Addresses())
			})
		},
	})

	var req address.CreateAddressRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Save a new address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				created, err := a.Addresses.Create(ctx, req)
				if err != nil {
					return err
				}
				return out.Success(created, func(w io.Writer) {
					fmt.Fprintf(w, "Saved address %s: %s\n", created.ID, created.Snapshot())
				})
			})
		},
	}
	add.Flags().StringVar(&req.Name, "name", "", "Recipient name")
	add.Flags().StringVar(&req.Phone, "phone", "", "Recipient phone")
	add.Flags().StringVar(&req.AddressLine1, "line1", "", "Address line 1")
	add.Flags().StringVar(&req.AddressLine2, "line2", "", "Address line 2")
	add.Flags().StringVar(&req.City, "city", "", "City")
	add.Flags().StringVar(&req.State, "state", "", "State")
	add.Flags().StringVar(&req.Pincode, "pincode", "", "6-digit pincode")
	add.Flags().StringVar(&req.Landmark, "landmark", "", "Nearby landmark")
	add.Flags().BoolVar(&req.IsDefault, "default", false, "Use as the default delivery address")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "default <id>",
		Short: "Make an address the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if err := a.Addresses.SetDefault(ctx, args[0]); err != nil {
					return err
				}
				return printAddresses(out, a.Addresses.Addresses())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if err := a.Addresses.Delete(ctx, args[0]); err != nil {
					return err
				}
				return printAddresses(out, a.Addresses.Addresses())
			})
		},
	})

	return cmd
}

func printAddresses(out *OutputFormatter, list []address.Address) error {
	if list == nil {
		list = []address.Address{}
	}
	return out.Success(list, func(w io.Writer) {
		if len(list) == 0 {
			fmt.Fprintln(w, "No saved addresses")
			return
		}
		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tDEFAULT\tADDRESS")
		for _, adr := range list {
			mark := ""
			if adr.IsDefault {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", adr.ID, mark, adr.Snapshot())
		}
		tw.Flush()
	})
}
