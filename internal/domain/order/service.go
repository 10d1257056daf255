// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/domain/session"
	"github.com/your-org/grocery-storefront/internal/infrastructure/api"
)

// ErrInvalidPaymentMethod is returned for a payment method other than cod or online
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// ErrOrderNotFound is returned when an order is not in the loaded history
var ErrOrderNotFound = errors.New("order not found")

// Service places orders and holds the order history of the signed-in user
type Service struct {
	api     api.Requester
	session session.Reader
	logger  *logrus.Logger

	mu     sync.RWMutex
	orders []Order
	closed bool
}

// NewService creates a new order service
func NewService(requester api.Requester, sess session.Reader, logger *logrus.Logger) *Service {
	return &Service{
		api:     requester,
		session: sess,
		logger:  logger,
	}
}

// HandleSessionChange drops the history on logout and loads it on login
func (s *Service) HandleSessionChange(ctx context.Context, change session.Change) {
	switch {
	case change.LoggedOut():
		s.mu.Lock()
		s.orders = nil
		s.mu.Unlock()
	case change.LoggedIn():
		s.mu.Lock()
		s.orders = nil
		s.mu.Unlock()
		s.FetchOrders(ctx)
	}
}

// FetchOrders reloads the history. On failure the previous list is kept.
func (s *Service) FetchOrders(ctx context.Context) {
	user := s.session.Current()
	if user == nil {
		return
	}

	var orders []Order
	if err := s.api.Get(ctx, "/orders", url.Values{"userId": {user.ID}}, &orders); err != nil {
		s.logger.WithField("user_id", user.ID).WithError(err).Error("Failed to fetch orders")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	// the user may have changed while the request was in flight
	if current := s.session.Current(); current == nil || current.ID != user.ID {
		return
	}
	s.orders = orders
}

// Orders returns a copy of the loaded history
func (s *Service) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Find looks up an order in the loaded history by id or order number
func (s *Service) Find(ref string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].ID == ref || s.orders[i].OrderNumber == ref {
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// PlaceOrder submits an order built by the server from the current cart.
// It does not clear the cart.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceRequest) (*Order, error) {
	user := s.session.Current()
	if user == nil {
		return nil, session.ErrNotAuthenticated
	}
	if !req.PaymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	body := &createOrderRequest{
		UserID:        user.ID,
		AddressID:     req.AddressID,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		PaymentRef:    req.PaymentRef,
		DeliveryFee:   req.DeliveryFee,
		Notes:         req.Notes,
	}

	var created Order
	if err := s.api.Post(ctx, "/orders", body, &created); err != nil {
		if _, ok := api.AsRejection(err); ok {
			return nil, err
		}
		s.logger.WithField("user_id", user.ID).WithError(err).Error("Failed to place order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":      user.ID,
		"order_id":     created.ID,
		"order_number": created.OrderNumber,
		"total":        created.Total,
	}).Info("Order placed")

	return &created, nil
}

// Close stops late history responses from being applied
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
