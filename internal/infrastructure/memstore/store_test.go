package memstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/domain/address"
	"github.com/your-org/grocery-storefront/internal/domain/order"
	"github.com/your-org/grocery-storefront/internal/domain/session"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{
		Security: config.SecurityConfig{BcryptCost: 4},
		Checkout: config.CheckoutConfig{DeliveryFee: 40, FreeDeliveryThreshold: 500},
	}
	s := New(cfg)
	s.now = func() time.Time { return time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC) }
	s.Seed()
	return s
}

func newUser(t *testing.T, s *Store) *session.Identity {
	t.Helper()
	u, err := s.CreateUser(session.SignupRequest{Name: "Asha", Phone: "9876543210", Password: "secret1"})
	require.NoError(t, err)
	return u
}

func TestUsers(t *testing.T) {
	s := newStore(t)
	u := newUser(t, s)
	assert.Equal(t, session.RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)

	_, err := s.CreateUser(session.SignupRequest{Name: "Other", Phone: "9876543210", Password: "secret2"})
	assert.ErrorIs(t, err, ErrPhoneTaken)

	got, err := s.Authenticate("9876543210", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate("9876543210", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate("0000000000", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCart_AddMergesAndUpdatesAreAbsolute(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.AddItem("u1", "apple", "1kg", 1))
	require.NoError(t, s.AddItem("u1", "apple", "1kg", 2))
	require.NoError(t, s.AddItem("u1", "milk", "1l", 1))

	c := s.Cart("u1")
	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "Shimla Apple", c.Items[0].Name)
	assert.Equal(t, 170.0, c.Items[0].UnitPrice)

	require.NoError(t, s.UpdateItem("u1", "apple", "1kg", 5))
	assert.Equal(t, 5, s.Cart("u1").Items[0].Quantity)

	assert.ErrorIs(t, s.UpdateItem("u1", "apple", "1kg", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, s.UpdateItem("u1", "rice", "1kg", 1), ErrItemNotInCart)

	require.NoError(t, s.RemoveItem("u1", "apple", "1kg"))
	assert.Len(t, s.Cart("u1").Items, 1)
	assert.ErrorIs(t, s.RemoveItem("u1", "apple", "1kg"), ErrItemNotInCart)

	s.ClearCart("u1")
	assert.Empty(t, s.Cart("u1").Items)
}

func TestCart_AddValidation(t *testing.T) {
	s := newStore(t)
	assert.ErrorIs(t, s.AddItem("u1", "apple", "1kg", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, s.AddItem("u1", "nope", "1kg", 1), ErrProductNotFound)
	assert.ErrorIs(t, s.AddItem("u1", "apple", "2kg", 1), ErrVariantNotFound)
	assert.ErrorIs(t, s.AddItem("u1", "banana", "12pc", 1), ErrOutOfStock)
}

func addressReq(isDefault bool) address.CreateAddressRequest {
	return address.CreateAddressRequest{
		UserID:       "u1",
		Name:         "Asha",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "KA",
		Pincode:      "560001",
		IsDefault:    isDefault,
	}
}

func TestAddresses_SingleDefault(t *testing.T) {
	s := newStore(t)

	first, err := s.CreateAddress(addressReq(false))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := s.CreateAddress(addressReq(true))
	require.NoError(t, err)

	list := s.Addresses("u1")
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)

	yes := true
	_, err = s.UpdateAddress("u1", first.ID, address.UpdateAddressRequest{IsDefault: &yes})
	require.NoError(t, err)
	defaults := 0
	for _, a := range s.Addresses("u1") {
		if a.IsDefault {
			defaults++
			assert.Equal(t, first.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	require.NoError(t, s.DeleteAddress("u1", first.ID))
	list = s.Addresses("u1")
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)

	assert.ErrorIs(t, s.DeleteAddress("u2", second.ID), ErrAddressNotFound)
	_, err = s.UpdateAddress("u2", second.ID, address.UpdateAddressRequest{})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestCreateOrder(t *testing.T) {
	s := newStore(t)
	a, err := s.CreateAddress(addressReq(true))
	require.NoError(t, err)

	_, err = s.CreateOrder(NewOrder{UserID: "u1", AddressID: a.ID, PaymentMethod: order.PaymentCOD})
	assert.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, s.AddItem("u1", "apple", "1kg", 2))
	o, err := s.CreateOrder(NewOrder{UserID: "u1", AddressID: a.ID, PaymentMethod: order.PaymentCOD, Notes: "gate 2"})
	require.NoError(t, err)

	assert.Equal(t, "ORD-20260201-00001", o.OrderNumber)
	assert.Equal(t, order.StatusPlaced, o.Status)
	assert.Equal(t, 340.0, o.Subtotal)
	assert.Equal(t, 40.0, o.DeliveryFee)
	assert.Equal(t, 380.0, o.Total)
	assert.Equal(t, "560001", o.Address.Pincode)
	assert.Len(t, s.Cart("u1").Items, 1)

	require.NoError(t, s.UpdateItem("u1", "apple", "1kg", 3))
	big, err := s.CreateOrder(NewOrder{UserID: "u1", AddressID: a.ID, PaymentMethod: order.PaymentOnline, PaymentRef: "txn"})
	require.NoError(t, err)
	assert.Zero(t, big.DeliveryFee)

	orders := s.Orders("u1")
	require.Len(t, orders, 2)
	assert.Equal(t, big.ID, orders[0].ID)

	_, err = s.CreateOrder(NewOrder{UserID: "u1", AddressID: "missing", PaymentMethod: order.PaymentCOD})
	assert.ErrorIs(t, err, ErrAddressNotFound)
	_, err = s.CreateOrder(NewOrder{UserID: "u1", PaymentMethod: "card"})
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestUpdateOrderStatus(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddItem("u1", "milk", "1l", 1))
	o, err := s.CreateOrder(NewOrder{UserID: "u1", Address: address.Snapshot{Name: "Asha"}, PaymentMethod: order.PaymentCOD})
	require.NoError(t, err)

	updated, err := s.UpdateOrderStatus(o.ID, order.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, updated.Status)

	_, err = s.UpdateOrderStatus(o.ID, order.StatusPlaced)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.UpdateOrderStatus("nope", order.StatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCatalog(t *testing.T) {
	s := newStore(t)

	categories := s.Categories()
	require.Len(t, categories, 3)
	assert.Equal(t, "fruits", categories[0].ID)

	fruits := s.Products("fruits")
	require.Len(t, fruits, 2)
	assert.Len(t, s.Products(""), 5)

	p, err := s.Product("rice")
	require.NoError(t, err)
	assert.Equal(t, "Basmati Rice", p.Name)
	_, err = s.Product("caviar")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSeedAdmin(t *testing.T) {
	s := newStore(t)
	hash, err := s.passwords.HashPassword("admin-pass")
	require.NoError(t, err)

	admin, err := s.SeedAdmin("Store Admin", "9000000000", hash)
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, admin.Role)

	got, err := s.Authenticate("9000000000", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	_, err = s.SeedAdmin("Store Admin", "", hash)
	assert.Error(t, err)
}

func TestSeedAdmin_PromotesExistingAccount(t *testing.T) {
	s := newStore(t)
	user, err := s.CreateUser(session.SignupRequest{Name: "Asha", Phone: "9876543210", Password: "secret1"})
	require.NoError(t, err)
	hash, err := s.passwords.HashPassword("admin-pass")
	require.NoError(t, err)

	admin, err := s.SeedAdmin("ignored", "9876543210", hash)
	require.NoError(t, err)
	assert.Equal(t, user.ID, admin.ID)
	assert.Equal(t, session.RoleAdmin, admin.Role)

	_, err = s.Authenticate("9876543210", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
