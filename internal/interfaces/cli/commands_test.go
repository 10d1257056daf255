package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-storefront/internal/app"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/domain/cart"
	"github.com/your-org/grocery-storefront/internal/domain/order"
	"github.com/your-org/grocery-storefront/internal/infrastructure/memstore"
	backend "github.com/your-org/grocery-storefront/internal/interfaces/http"
	"github.com/your-org/grocery-storefront/internal/pkg/logger"
	"github.com/your-org/grocery-storefront/internal/testutil"
)

// harness runs CLI invocations against the reference backend. The session
// store is shared, so a login survives between invocations like on disk.
type harness struct {
	t        *testing.T
	cfg      *config.Config
	sessions *testutil.MemoryStore
	srv      *httptest.Server
}

type result struct {
	stdout string
	stderr string
	err    error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		App:      config.AppConfig{Name: "test", Environment: "test"},
		Session:  config.SessionConfig{Store: "file", StorageKey: "storefront:session"},
		JWT:      config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4},
		Checkout: config.CheckoutConfig{Currency: "INR", DeliveryFee: 40, FreeDeliveryThreshold: 500},
		Receipt:  config.ReceiptConfig{CompanyName: "Grocery Storefront"},
	}

	store := memstore.New(cfg)
	store.Seed()
	srv := httptest.NewServer(backend.NewServer(cfg, store, logger.Discard()).Handler())
	t.Cleanup(srv.Close)
	cfg.API.BaseURL = srv.URL

	return &harness{t: t, cfg: cfg, sessions: testutil.NewMemoryStore(), srv: srv}
}

func (h *harness) runWithInput(stdin string, args ...string) result {
	h.t.Helper()
	cmd := NewRootCommand(func(opts app.Options) (*app.App, error) {
		opts.Store = h.sessions
		opts.HTTPClient = h.srv.Client()
		return app.New(h.cfg, logger.Discard(), opts)
	})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (h *harness) run(args ...string) result {
	h.t.Helper()
	return h.runWithInput("", args...)
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	res := h.run(args...)
	require.NoError(h.t, res.err, "storefront %v\nstdout: %s\nstderr: %s", args, res.stdout, res.stderr)
	return res.stdout
}

func (h *harness) signup() {
	h.t.Helper()
	out := h.mustRun("signup", "--name", "Asha", "--phone", "9876543210", "--password", "secret1", "--dob", "1990-01-01")
	require.Contains(h.t, out, "Signed in as Asha")
}

func (h *harness) addAddress() {
	h.t.Helper()
	h.mustRun("address", "add", "--name", "Asha", "--phone", "9876543210", "--line1", "12 MG Road",
		"--city", "Bengaluru", "--state", "Karnataka", "--pincode", "560001")
}

func decodeData(t *testing.T, stdout string, v interface{}) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestCatalogCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("catalog", "categories")
	assert.Contains(t, out, "Fruits & Vegetables")
	assert.Less(t, strings.Index(out, "Fruits"), strings.Index(out, "Staples"))

	out = h.mustRun("catalog", "products", "--category", "dairy")
	assert.Contains(t, out, "Toned Milk")
	assert.NotContains(t, out, "Shimla Apple")

	out = h.mustRun("catalog", "product", "banana")
	assert.Contains(t, out, "out of stock")
}

func TestCartAdd_GuestIsPromptedWithoutCalls(t *testing.T) {
	h := newHarness(t)

	res := h.run("cart", "add", "apple", "500g")
	require.Error(t, res.err)
	assert.Equal(t, ExitAuthRequired, GetExitCode(res.err))
	assert.Contains(t, res.stderr, "Login required")
	assert.Contains(t, res.stderr, "storefront login")
	assert.Contains(t, res.stderr, "Error [E004]")
}

func TestSessionPersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t)
	h.signup()

	assert.Contains(t, h.mustRun("whoami"), "Asha (9876543210)")

	h.mustRun("logout")
	assert.Contains(t, h.mustRun("whoami"), "Not signed in")

	out := h.mustRun("login", "--phone", "9876543210", "--password", "secret1")
	assert.Contains(t, out, "Signed in as Asha")
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.signup()
	h.mustRun("logout")

	res := h.run("login", "--phone", "9876543210", "--password", "wrong-pass")
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, h.mustRun("whoami"), "Not signed in")
}

func TestCartCommands(t *testing.T) {
	h := newHarness(t)
	h.signup()

	h.mustRun("cart", "add", "apple", "500g", "--qty", "2")
	h.mustRun("cart", "add", "apple", "500g")

	out := h.mustRun("--format", "json", "cart", "show")
	var view cartView
	decodeData(t, out, &view)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "apple_500g", view.Lines[0].CompositeID)
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.InDelta(t, 270.0, view.Totals.SubTotal, 0.001)

	h.mustRun("cart", "update", "apple", "500g", "1")
	h.mustRun("cart", "add", "milk", "1l")
	out = h.mustRun("cart", "show")
	assert.Contains(t, out, "Shimla Apple")
	assert.Contains(t, out, "Toned Milk")
	assert.Contains(t, out, "2 item(s), total 144.00")

	h.mustRun("cart", "remove", "milk", "1l")
	out = h.mustRun("--format", "json", "cart", "show")
	decodeData(t, out, &view)
	assert.Len(t, view.Lines, 1)

	assert.Contains(t, h.mustRun("cart", "clear"), "Your cart is empty")
}

func TestCartCommands_LocalValidation(t *testing.T) {
	h := newHarness(t)
	h.signup()

	res := h.run("cart", "add", "banana", "12pc")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "out of stock")

	res = h.run("cart", "update", "apple", "500g", "0")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, cart.ErrInvalidQuantity)

	res = h.run("cart", "update", "apple", "500g", "many")
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}

func TestAddressCommands(t *testing.T) {
	h := newHarness(t)
	h.signup()

	h.addAddress()
	h.mustRun("address", "add", "--name", "Asha", "--phone", "9876543210", "--line1", "7 Park Street",
		"--city", "Kolkata", "--state", "West Bengal", "--pincode", "700016")

	out := h.mustRun("--format", "json", "address", "list")
	var list []struct {
		ID        string `json:"id"`
		City      string `json:"city"`
		IsDefault bool   `json:"isDefault"`
	}
	decodeData(t, out, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Bengaluru", list[0].City)
	assert.True(t, list[0].IsDefault)

	var kolkata string
	for _, a := range list {
		if a.City == "Kolkata" {
			kolkata = a.ID
		}
	}
	h.mustRun("address", "default", kolkata)

	out = h.mustRun("--format", "json", "address", "list")
	decodeData(t, out, &list)
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			assert.Equal(t, kolkata, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	h.mustRun("address", "delete", kolkata)
	out = h.mustRun("--format", "json", "address", "list")
	decodeData(t, out, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)
}

func TestCheckout_CashOnDelivery(t *testing.T) {
	h := newHarness(t)
	h.signup()

	res := h.run("checkout")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "cart is empty")

	h.mustRun("cart", "add", "apple", "500g", "--qty", "2")
	h.mustRun("cart", "add", "milk", "1l")

	res = h.run("checkout")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "no delivery address")

	h.addAddress()

	out := h.mustRun("checkout", "--summary")
	assert.Contains(t, out, "Subtotal:  INR 234.00")
	assert.Contains(t, out, "Delivery:  INR 40.00")
	assert.Contains(t, out, "Total:     INR 274.00")

	out = h.mustRun("--format", "json", "checkout", "--notes", "ring the bell")
	var placed order.Order
	decodeData(t, out, &placed)
	assert.True(t, strings.HasPrefix(placed.OrderNumber, "ORD-"))
	assert.Equal(t, 3, placed.ItemCount())
	assert.InDelta(t, 274.0, placed.Total, 0.001)
	assert.Equal(t, order.PaymentCOD, placed.PaymentMethod)
	assert.Equal(t, "Bengaluru", placed.Address.City)

	assert.Contains(t, h.mustRun("cart", "show"), "Your cart is empty")

	out = h.mustRun("orders", "list")
	assert.Contains(t, out, placed.OrderNumber)
	assert.Contains(t, out, "placed")
}

func TestCheckout_OnlinePayment(t *testing.T) {
	h := newHarness(t)
	h.signup()
	h.addAddress()
	h.mustRun("cart", "add", "rice", "1kg")

	res := h.runWithInput("n\n", "checkout", "--payment", "online")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Confirm payment of INR 180.00?")
	assert.Contains(t, res.stderr, "Error [E007]")
	assert.Contains(t, h.mustRun("cart", "show"), "Basmati Rice")

	res = h.runWithInput("y\n", "checkout", "--payment", "online")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "placed")

	out := h.mustRun("--format", "json", "orders", "list")
	var orders []order.Order
	decodeData(t, out, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, order.PaymentOnline, orders[0].PaymentMethod)
	assert.True(t, strings.HasPrefix(orders[0].PaymentRef, "pay_"))
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	h := newHarness(t)
	h.signup()

	res := h.run("checkout", "--payment", "barter")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, order.ErrInvalidPaymentMethod)
}

func TestOrdersReceipt(t *testing.T) {
	h := newHarness(t)
	h.signup()
	h.addAddress()
	h.mustRun("cart", "add", "eggs", "6pc")
	h.mustRun("--yes", "checkout")

	out := h.mustRun("--format", "json", "orders", "list")
	var orders []order.Order
	decodeData(t, out, &orders)
	require.Len(t, orders, 1)
	number := orders[0].OrderNumber

	html := h.mustRun("orders", "receipt", number)
	assert.Contains(t, html, "RCPT-"+number)
	assert.Contains(t, html, "Farm Eggs")

	path := filepath.Join(t.TempDir(), "receipt.html")
	out = h.mustRun("orders", "receipt", orders[0].ID, "--html", path)
	assert.Contains(t, out, "written to")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RCPT-"+number)

	res := h.run("orders", "receipt", "ORD-00000000-99999")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, order.ErrOrderNotFound)
}

func TestGuestCommandsRequireLogin(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"cart", "clear"},
		{"address", "list"},
		{"orders", "list"},
		{"checkout"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			res := h.run(args...)
			require.Error(t, res.err)
			assert.Equal(t, ExitAuthRequired, GetExitCode(res.err))
		})
	}
}

func TestBackendUnavailable(t *testing.T) {
	h := newHarness(t)
	h.srv.Close()

	res := h.run("catalog", "categories")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.stderr, "E003")
}
