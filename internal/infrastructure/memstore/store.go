// internal/infrastructure/memstore/store.go
package memstore

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/domain/address"
	"github.com/your-org/grocery-storefront/internal/domain/catalog"
	"github.com/your-org/grocery-storefront/internal/domain/order"
	"github.com/your-org/grocery-storefront/internal/domain/session"
	"github.com/your-org/grocery-storefront/internal/pkg/auth"
)

var (
	ErrPhoneTaken         = errors.New("an account with this phone number already exists")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrItemNotInCart      = errors.New("item not found in cart")
	ErrAddressNotFound    = errors.New("address not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidPayment     = errors.New("invalid payment method")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// CartItem is a cart line as stored and served by the backend
type CartItem struct {
	ProductID    string  `json:"productId"`
	VariantID    string  `json:"variantId"`
	Name         string  `json:"name"`
	VariantLabel string  `json:"variantLabel"`
	UnitPrice    float64 `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
	Image        string  `json:"image,omitempty"`
}

// Cart is the payload of GET /cart
type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// NewOrder is the input of CreateOrder
type NewOrder struct {
	UserID        string
	AddressID     string
	Address       address.Snapshot
	PaymentMethod order.PaymentMethod
	PaymentRef    string
	Notes         string
}

type userRecord struct {
	identity     session.Identity
	passwordHash string
}

// Store is an in-memory implementation of the storefront backend state
type Store struct {
	passwords *auth.PasswordManager
	config    *config.Config
	now       func() time.Time

	mu         sync.RWMutex
	users      map[string]*userRecord
	byPhone    map[string]string
	carts      map[string][]CartItem
	addresses  map[string][]address.Address
	orders     map[string][]order.Order
	orderSeq   int
	categories []catalog.Category
	products   map[string]catalog.Product
	productIDs []string
}

// New creates an empty store
func New(cfg *config.Config) *Store {
	return &Store{
		passwords: auth.NewPasswordManager(cfg),
		config:    cfg,
		now:       time.Now,
		users:     make(map[string]*userRecord),
		byPhone:   make(map[string]string),
		carts:     make(map[string][]CartItem),
		addresses: make(map[string][]address.Address),
		orders:    make(map[string][]order.Order),
		products:  make(map[string]catalog.Product),
	}
}

// CreateUser registers an account
func (s *Store) CreateUser(req session.SignupRequest) (*session.Identity, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byPhone[req.Phone]; exists {
		return nil, ErrPhoneTaken
	}

	rec := &userRecord{
		identity: session.Identity{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(req.Name),
			Phone:       req.Phone,
			DateOfBirth: req.DateOfBirth,
			Role:        req.Role,
		},
		passwordHash: hash,
	}
	s.users[rec.identity.ID] = rec
	s.byPhone[req.Phone] = rec.identity.ID

	identity := rec.identity
	return &identity, nil
}

// SeedAdmin registers an admin account from an existing bcrypt hash. An
// account already holding the phone is promoted instead.
func (s *Store) SeedAdmin(name, phone, passwordHash string) (*session.Identity, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || passwordHash == "" {
		return nil, fmt.Errorf("admin phone and password hash are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.byPhone[phone]; exists {
		rec := s.users[id]
		rec.identity.Role = session.RoleAdmin
		rec.passwordHash = passwordHash
		identity := rec.identity
		return &identity, nil
	}

	rec := &userRecord{
		identity: session.Identity{
			ID:    uuid.NewString(),
			Name:  name,
			Phone: phone,
			Role:  session.RoleAdmin,
		},
		passwordHash: passwordHash,
	}
	s.users[rec.identity.ID] = rec
	s.byPhone[phone] = rec.identity.ID

	identity := rec.identity
	return &identity, nil
}

// Authenticate checks a phone and password
func (s *Store) Authenticate(phone, password string) (*session.Identity, error) {
	s.mu.RLock()
	id, ok := s.byPhone[strings.TrimSpace(phone)]
	var rec *userRecord
	if ok {
		rec = s.users[id]
	}
	s.mu.RUnlock()

	if rec == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.passwords.VerifyPassword(password, rec.passwordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	identity := rec.identity
	return &identity, nil
}

// User returns an account by id
func (s *Store) User(id string) (*session.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	identity := rec.identity
	return &identity, nil
}

// Cart returns the cart of a user; a user without one has an empty cart
func (s *Store) Cart(userID string) Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]CartItem, len(s.carts[userID]))
	copy(items, s.carts[userID])
	return Cart{UserID: userID, Items: items}
}

// AddItem adds quantity of a variant, merging with an existing line
func (s *Store) AddItem(userID, productID, variantID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	v, ok := p.Variant(variantID)
	if !ok {
		return ErrVariantNotFound
	}
	if !v.InStock {
		return ErrOutOfStock
	}

	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID && items[i].VariantID == variantID {
			items[i].Quantity += quantity
			items[i].UnitPrice = v.Price
			return nil
		}
	}

	s.carts[userID] = append(items, CartItem{
		ProductID:    productID,
		VariantID:    variantID,
		Name:         p.Name,
		VariantLabel: v.Label,
		UnitPrice:    v.Price,
		Quantity:     quantity,
		Image:        p.PrimaryImage(),
	})
	return nil
}

// UpdateItem sets the absolute quantity of a line
func (s *Store) UpdateItem(userID, productID, variantID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID && items[i].VariantID == variantID {
			items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotInCart
}

// RemoveItem deletes a line
func (s *Store) RemoveItem(userID, productID, variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID && items[i].VariantID == variantID {
			s.carts[userID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotInCart
}

// ClearCart empties the cart of a user
func (s *Store) ClearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// Addresses returns the addresses of a user, default first
func (s *Store) Addresses(userID string) []address.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]address.Address, len(s.addresses[userID]))
	copy(out, s.addresses[userID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsDefault && !out[j].IsDefault
	})
	return out
}

// Address returns one address owned by userID
func (s *Store) Address(userID, id string) (*address.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.addresses[userID] {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, ErrAddressNotFound
}

// CreateAddress adds an address. The first address always becomes the default.
func (s *Store) CreateAddress(req address.CreateAddressRequest) (*address.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.addresses[req.UserID]
	a := address.Address{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		Name:         req.Name,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Landmark:     req.Landmark,
		IsDefault:    req.IsDefault || len(list) == 0,
	}
	if a.IsDefault {
		unsetDefault(list)
	}
	s.addresses[req.UserID] = append(list, a)
	return &a, nil
}

// UpdateAddress applies a partial update to an address owned by userID
func (s *Store) UpdateAddress(userID, id string, req address.UpdateAddressRequest) (*address.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.addresses[userID]
	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrAddressNotFound
	}

	a := &list[idx]
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Phone != nil {
		a.Phone = *req.Phone
	}
	if req.AddressLine1 != nil {
		a.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		a.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		a.City = *req.City
	}
	if req.State != nil {
		a.State = *req.State
	}
	if req.Pincode != nil {
		a.Pincode = *req.Pincode
	}
	if req.Landmark != nil {
		a.Landmark = *req.Landmark
	}
	if req.IsDefault != nil && *req.IsDefault {
		unsetDefault(list)
		a.IsDefault = true
	}

	updated := *a
	return &updated, nil
}

// DeleteAddress removes an address. If it was the default, the oldest
// remaining address takes over.
func (s *Store) DeleteAddress(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.addresses[userID]
	for i := range list {
		if list[i].ID != id {
			continue
		}
		wasDefault := list[i].IsDefault
		list = append(list[:i:i], list[i+1:]...)
		if wasDefault && len(list) > 0 {
			list[0].IsDefault = true
		}
		s.addresses[userID] = list
		return nil
	}
	return ErrAddressNotFound
}

func unsetDefault(list []address.Address) {
	for i := range list {
		list[i].IsDefault = false
	}
}

// CreateOrder turns the current cart into an order. The cart is left as is;
// the client clears it once the order is confirmed.
func (s *Store) CreateOrder(req NewOrder) (*order.Order, error) {
	if !req.PaymentMethod.IsValid() {
		return nil, ErrInvalidPayment
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[req.UserID]
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot := req.Address
	if req.AddressID != "" {
		found := false
		for _, a := range s.addresses[req.UserID] {
			if a.ID == req.AddressID {
				snapshot = a.Snapshot()
				found = true
				break
			}
		}
		if !found {
			return nil, ErrAddressNotFound
		}
	}

	now := s.now().UTC()
	s.orderSeq++

	o := order.Order{
		ID:            uuid.NewString(),
		OrderNumber:   order.GenerateOrderNumber(now, s.orderSeq),
		UserID:        req.UserID,
		Status:        order.StatusPlaced,
		Address:       snapshot,
		PaymentMethod: req.PaymentMethod,
		PaymentRef:    req.PaymentRef,
		Notes:         req.Notes,
		CreatedAt:     now,
	}
	for _, item := range items {
		o.Items = append(o.Items, order.Item{
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			Name:         item.Name,
			VariantLabel: item.VariantLabel,
			Quantity:     item.Quantity,
			Price:        item.UnitPrice,
		})
		o.Subtotal += item.UnitPrice * float64(item.Quantity)
	}
	o.DeliveryFee = s.config.DeliveryFeeFor(o.Subtotal)
	o.Total = o.Subtotal + o.DeliveryFee

	s.orders[req.UserID] = append(s.orders[req.UserID], o)
	return &o, nil
}

// Orders returns the orders of a user, newest first
func (s *Store) Orders(userID string) []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.orders[userID]
	out := make([]order.Order, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out
}

// UpdateOrderStatus moves an order along the status machine
func (s *Store) UpdateOrderStatus(orderID string, status order.Status) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, list := range s.orders {
		for i := range list {
			if list[i].ID != orderID {
				continue
			}
			if !list[i].Status.CanTransitionTo(status) {
				return nil, fmt.Errorf("%w from %s to %s", ErrInvalidTransition, list[i].Status, status)
			}
			list[i].Status = status
			s.orders[userID] = list
			o := list[i]
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}
