// internal/domain/cart/service.go
package cart

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

var (
	// ErrLoginRequired is returned by AddToCart for guests, after the login prompt
	ErrLoginRequired = errors.New("login required")
	// ErrInvalidQuantity rejects quantities below one; removal has its own call
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	ErrAddFailed    = errors.New("failed to add item to cart")
	ErrUpdateFailed = errors.New("failed to update item quantity")
	ErrRemoveFailed = errors.New("failed to remove item from cart")
	ErrClearFailed  = errors.New("failed to clear cart")
)

// Manager owns the local view of the server cart. Every accepted mutation is
// followed by a full refetch that replaces the list; lines are never patched
// locally.
type Manager struct {
	api      api.Requester
	session  session.Reader
	prompter Prompter
	logger   *logrus.Logger

	mu      sync.RWMutex
	lines   []Line
	issued  uint64 // last sequence number handed out
	applied uint64 // sequence number of the snapshot currently held
	closed  bool
}

// NewManager creates a cart manager
func NewManager(requester api.Requester, sess session.Reader, prompter Prompter, logger *logrus.Logger) *Manager {
	return &Manager{
		api:      requester,
		session:  sess,
		prompter: prompter,
		logger:   logger,
	}
}

// HandleSessionChange keeps the cart in step with the session: logout empties it
// at once, a new user gets exactly one refresh.
func (m *Manager) HandleSessionChange(ctx context.Context, change session.Change) {
	switch {
	case change.LoggedOut():
		m.ClearLocal()
	case change.LoggedIn():
		m.Refresh(ctx)
	}
}

// Refresh replaces the local list with the server cart. Failures leave an empty
// cart and are logged, never returned.
func (m *Manager) Refresh(ctx context.Context) {
	seq := m.nextSeq()

	user := m.session.Current()
	if user == nil {
		m.apply(seq, nil)
		return
	}

	var payload serverCart
	err := m.api.Get(ctx, "/cart", url.Values{"userId": {user.ID}}, &payload)
	if err != nil {
		m.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"seq":     seq,
		}).WithError(err).Error("Failed to refresh cart")
		m.apply(seq, nil)
		return
	}

	m.apply(seq, m.mapLines(payload.Items))
}

// AddToCart asks the server to add the line. Guests get the login prompt and
// ErrLoginRequired. The server merges repeated adds of the same variant.
func (m *Manager) AddToCart(ctx context.Context, line Line) error {
	user := m.session.Current()
	if m.guard(user) {
		return ErrLoginRequired
	}
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}

	req := &lineRequest{
		UserID:    user.ID,
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Quantity:  line.Quantity,
	}
	if err := m.api.Post(ctx, "/cart/add", req, nil); err != nil {
		return m.mutationError(ErrAddFailed, err, req)
	}

	m.Refresh(ctx)
	return nil
}

// UpdateQuantity sets the absolute quantity of a line. It is a silent no-op for
// guests since the cart view implies a session.
func (m *Manager) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int) error {
	user := m.session.Current()
	if user == nil {
		return nil
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	req := &lineRequest{
		UserID:    user.ID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	}
	if err := m.api.Put(ctx, "/cart/update", req, nil); err != nil {
		return m.mutationError(ErrUpdateFailed, err, req)
	}

	m.Refresh(ctx)
	return nil
}

// RemoveFromCart deletes a line
func (m *Manager) RemoveFromCart(ctx context.Context, productID, variantID string) error {
	user := m.session.Current()
	if user == nil {
		return nil
	}

	req := &lineRequest{
		UserID:    user.ID,
		ProductID: productID,
		VariantID: variantID,
	}
	if err := m.api.Delete(ctx, "/cart/remove", req, nil); err != nil {
		return m.mutationError(ErrRemoveFailed, err, req)
	}

	m.Refresh(ctx)
	return nil
}

// ClearCart empties the server cart. The server guarantees an empty cart on
// success, so the local list is emptied without a refetch. The empty snapshot is
// sequenced when the request is sent; refreshes issued after it still win.
func (m *Manager) ClearCart(ctx context.Context) error {
	user := m.session.Current()
	if user == nil {
		return nil
	}

	seq := m.nextSeq()
	if err := m.api.Delete(ctx, "/cart/clear", &clearRequest{UserID: user.ID}, nil); err != nil {
		if _, ok := api.AsRejection(err); ok {
			return err
		}
		m.logger.WithField("user_id", user.ID).WithError(err).Error("Failed to clear cart")
		return fmt.Errorf("%w: %w", ErrClearFailed, err)
	}

	m.apply(seq, nil)
	return nil
}

// ClearLocal empties the local list without any I/O. Refreshes issued before the
// call can no longer land.
func (m *Manager) ClearLocal() {
	m.apply(m.nextSeq(), nil)
}

// Close detaches the manager from its owner; late responses are dropped
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Lines returns a snapshot of the cart
func (m *Manager) Lines() []Line {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out
}

// Line looks up a line by composite id
func (m *Manager) Line(compositeID string) (Line, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.lines {
		if l.CompositeID == compositeID {
			return l, true
		}
	}
	return Line{}, false
}

// CartTotal returns the sum of unit price times quantity
func (m *Manager) CartTotal() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, l := range m.lines {
		total += l.Subtotal()
	}
	return total
}

// CartItemCount returns the sum of quantities
func (m *Manager) CartItemCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, l := range m.lines {
		count += l.Quantity
	}
	return count
}

// Totals returns the derived totals in one pass
func (m *Manager) Totals() Totals {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return calculateTotals(m.lines)
}

func calculateTotals(lines []Line) Totals {
	var totals Totals
	totals.ItemCount = len(lines)
	for _, l := range lines {
		totals.TotalQuantity += l.Quantity
		totals.SubTotal += l.Subtotal()
	}
	return totals
}

func (m *Manager) nextSeq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	return m.issued
}

// apply installs lines if seq is newer than the snapshot currently held
func (m *Manager) apply(seq uint64, lines []Line) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false
	}
	if seq <= m.applied {
		m.logger.WithFields(logrus.Fields{
			"seq":     seq,
			"applied": m.applied,
		}).Debug("Discarding stale cart snapshot")
		return false
	}

	m.applied = seq
	m.lines = lines
	return true
}

func (m *Manager) mapLines(items []serverLine) []Line {
	lines := make([]Line, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		line := item.toLine()
		if line.Quantity <= 0 {
			continue
		}
		if seen[line.CompositeID] {
			m.logger.WithField("composite_id", line.CompositeID).Warn("Server cart returned a duplicate line")
			continue
		}
		seen[line.CompositeID] = true
		lines = append(lines, line)
	}
	return lines
}

func (m *Manager) mutationError(op error, err error, req *lineRequest) error {
	if _, ok := api.AsRejection(err); ok {
		return err
	}
	m.logger.WithFields(logrus.Fields{
		"user_id":    req.UserID,
		"product_id": req.ProductID,
		"variant_id": req.VariantID,
	}).WithError(err).Error(op.Error())
	return fmt.Errorf("%w: %w", op, err)
}
