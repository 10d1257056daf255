// internal/domain/payment/gateway.go
package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Request describes the amount to be confirmed by a gateway
type Request struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method"`
}

// Result is the gateway's answer. A declined payment is a Result with
// Success false, not an error; errors mean the gateway could not be reached.
type Result struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Gateway confirms a payment
type Gateway interface {
	Confirm(ctx context.Context, req Request) (Result, error)
}

// GatewayFunc adapts a function to Gateway
type GatewayFunc func(ctx context.Context, req Request) (Result, error)

func (f GatewayFunc) Confirm(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// CashOnDelivery is paid at the door, so confirmation always succeeds
type CashOnDelivery struct{}

func (CashOnDelivery) Confirm(_ context.Context, req Request) (Result, error) {
	return Result{Success: true, TransactionID: "cod-" + req.Reference}, nil
}

// NewReference returns a unique merchant reference for a payment attempt
func NewReference() string {
	return "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Validate checks the request before it is handed to a gateway
func (r Request) Validate() error {
	if r.Reference == "" {
		return fmt.Errorf("payment reference is required")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("payment amount must be positive, got %.2f", r.Amount)
	}
	if r.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	return nil
}
