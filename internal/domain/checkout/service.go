// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/domain/address"
	"github.com/your-org/grocery-storefront/internal/domain/cart"
	"github.com/your-org/grocery-storefront/internal/domain/order"
	"github.com/your-org/grocery-storefront/internal/domain/payment"
	"github.com/your-org/grocery-storefront/internal/domain/session"
)

var (
	// ErrEmptyCart is returned when checking out with no lines
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoDeliveryAddress is returned when the user has no default address
	ErrNoDeliveryAddress = errors.New("no delivery address selected")
)

// PaymentError is returned when the gateway declines the payment
type PaymentError struct {
	Reference string
	Reason    string
}

func (e *PaymentError) Error() string {
	if e.Reason == "" {
		return "payment was declined"
	}
	return "payment was declined: " + e.Reason
}

// Cart is the part of the cart manager checkout reads and clears
type Cart interface {
	Lines() []cart.Line
	CartTotal() float64
	CartItemCount() int
	ClearCart(ctx context.Context) error
}

// Addresses supplies the delivery address
type Addresses interface {
	Default() *address.Address
}

// Orders places orders and reloads the history
type Orders interface {
	PlaceOrder(ctx context.Context, req order.PlaceRequest) (*order.Order, error)
	FetchOrders(ctx context.Context)
}

// Summary is the priced view of the cart shown before placing the order
type Summary struct {
	Lines       []cart.Line      `json:"lines"`
	ItemCount   int              `json:"itemCount"`
	Subtotal    float64          `json:"subtotal"`
	DeliveryFee float64          `json:"deliveryFee"`
	Total       float64          `json:"total"`
	Currency    string           `json:"currency"`
	Address     *address.Address `json:"address,omitempty"`
}

// Service runs the pay, place and clear sequence
type Service struct {
	session   session.Reader
	cart      Cart
	addresses Addresses
	orders    Orders
	gateway   payment.Gateway
	config    *config.Config
	logger    *logrus.Logger
}

// NewService creates a new checkout service
func NewService(sess session.Reader, c Cart, addresses Addresses, orders Orders, gateway payment.Gateway, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		session:   sess,
		cart:      c,
		addresses: addresses,
		orders:    orders,
		gateway:   gateway,
		config:    cfg,
		logger:    logger,
	}
}

// Summary prices the current cart
func (s *Service) Summary() Summary {
	lines := s.cart.Lines()
	subtotal := s.cart.CartTotal()

	summary := Summary{
		Lines:     lines,
		ItemCount: s.cart.CartItemCount(),
		Subtotal:  subtotal,
		Currency:  s.config.Checkout.Currency,
		Address:   s.addresses.Default(),
	}
	if len(lines) > 0 {
		summary.DeliveryFee = s.config.DeliveryFeeFor(subtotal)
	}
	summary.Total = summary.Subtotal + summary.DeliveryFee
	return summary
}

// Checkout pays for and places the order, then empties the cart and reloads
// the order history
func (s *Service) Checkout(ctx context.Context, method order.PaymentMethod, notes string) (*order.Order, error) {
	user := s.session.Current()
	if user == nil {
		return nil, session.ErrNotAuthenticated
	}
	if !method.IsValid() {
		return nil, order.ErrInvalidPaymentMethod
	}

	summary := s.Summary()
	if len(summary.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if summary.Address == nil {
		return nil, ErrNoDeliveryAddress
	}

	var paymentRef string
	if method == order.PaymentOnline {
		ref, err := s.pay(ctx, summary)
		if err != nil {
			return nil, err
		}
		paymentRef = ref
	}

	placed, err := s.orders.PlaceOrder(ctx, order.PlaceRequest{
		AddressID:     summary.Address.ID,
		Address:       summary.Address.Snapshot(),
		PaymentMethod: method,
		PaymentRef:    paymentRef,
		DeliveryFee:   summary.DeliveryFee,
		Notes:         notes,
	})
	if err != nil {
		if paymentRef != "" {
			s.logger.WithFields(logrus.Fields{
				"user_id":     user.ID,
				"payment_ref": paymentRef,
			}).Error("Order was not placed after a confirmed payment")
		}
		return nil, err
	}

	if err := s.cart.ClearCart(ctx); err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"order_id": placed.ID,
		}).WithError(err).Warn("Failed to clear cart after placing order")
	}

	s.orders.FetchOrders(ctx)
	return placed, nil
}

func (s *Service) pay(ctx context.Context, summary Summary) (string, error) {
	req := payment.Request{
		Reference: payment.NewReference(),
		Amount:    summary.Total,
		Currency:  summary.Currency,
		Method:    string(order.PaymentOnline),
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	res, err := s.gateway.Confirm(ctx, req)
	if err != nil {
		return "", fmt.Errorf("payment failed: %w", err)
	}
	if !res.Success {
		s.logger.WithFields(logrus.Fields{
			"reference": req.Reference,
			"reason":    res.Reason,
		}).Info("Payment declined")
		return "", &PaymentError{Reference: req.Reference, Reason: res.Reason}
	}

	if res.TransactionID != "" {
		return res.TransactionID, nil
	}
	return req.Reference, nil
}
