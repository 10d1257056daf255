// internal/interfaces/cli/auth.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/your-org/grocery-storefront/internal/app"
	"github.com/your-org/grocery-storefront/internal/domain/session"
)

func newLoginCommand(r *runner) *cobra.Command {
	var phone, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with phone and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				identity, err := a.Session.Login(ctx, phone, password)
				if err != nil {
					return err
				}
				return printSignedIn(out, a, identity)
			})
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Registered phone number")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newSignupCommand(r *runner) *cobra.Command {
	var req session.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				identity, err := a.Session.Signup(ctx, req)
				if err != nil {
					return err
				}
				return printSignedIn(out, a, identity)
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "10-digit phone number")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().StringVar(&req.DateOfBirth, "dob", "", "Date of birth (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				a.Session.Logout(ctx)
				return out.Success(map[string]bool{"signedIn": false}, func(w io.Writer) {
					fmt.Fprintln(w, "Logged out")
				})
			})
		},
	}
}

func newWhoamiCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				user := a.Session.Current()
				if user == nil {
					return out.Success(map[string]bool{"signedIn": false}, func(w io.Writer) {
						fmt.Fprintln(w, "Not signed in")
					})
				}
				user.Token = ""
				return out.Success(user, func(w io.Writer) {
					fmt.Fprintf(w, "%s (%s), role %s\n", user.Name, user.Phone, user.Role)
				})
			})
		},
	}
}

func printSignedIn(out *OutputFormatter, a *app.App, identity *session.Identity) error {
	identity.Token = ""
	return out.Success(identity, func(w io.Writer) {
		fmt.Fprintf(w, "Signed in as %s (%s)\n", identity.Name, identity.Phone)
		if n := a.Cart.CartItemCount(); n > 0 {
			fmt.Fprintf(w, "Your cart has %d item(s)\n", n)
		}
	})
}
