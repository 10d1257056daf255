// internal/interfaces/cli/prompt.go
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/your-org/grocery-storefront/internal/domain/cart"
	"github.com/your-org/grocery-storefront/internal/domain/payment"
)

// prompter prints the login prompt with the commands that resolve it
type prompter struct {
	out *OutputFormatter
}

func (p *prompter) PromptLogin(prompt cart.LoginPrompt) {
	w := p.out.GetErrWriter()
	fmt.Fprintf(w, "%s\n%s\n", prompt.Title, prompt.Message)
	for _, action := range prompt.Actions {
		switch action {
		case cart.ActionLogin:
			fmt.Fprintln(w, "  storefront login --phone <phone> --password <password>")
		case cart.ActionSignup:
			fmt.Fprintln(w, "  storefront signup --name <name> --phone <phone> --password <password>")
		}
	}
}

// confirmGateway asks on the terminal before an online payment goes through
type confirmGateway struct {
	in          io.Reader
	out         *OutputFormatter
	autoConfirm bool
}

func (g *confirmGateway) Confirm(_ context.Context, req payment.Request) (payment.Result, error) {
	if !g.autoConfirm {
		fmt.Fprintf(g.out.GetErrWriter(), "Confirm payment of %s %.2f? [y/N] ", req.Currency, req.Amount)
		answer, err := bufio.NewReader(g.in).ReadString('\n')
		if err != nil && answer == "" {
			return payment.Result{Reason: "payment was not confirmed"}, nil
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			return payment.Result{Reason: "cancelled by user"}, nil
		}
	}

	g.out.VerboseLog("Payment %s confirmed", req.Reference)
	return payment.Result{Success: true, TransactionID: req.Reference}, nil
}
