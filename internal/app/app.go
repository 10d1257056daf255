// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/domain/address"
	"github.com/your-org/grocery-storefront/internal/domain/cart"
	"github.com/your-org/grocery-storefront/internal/domain/catalog"
	"github.com/your-org/grocery-storefront/internal/domain/checkout"
	"github.com/your-org/grocery-storefront/internal/domain/order"
	"github.com/your-org/grocery-storefront/internal/domain/payment"
	"github.com/your-org/grocery-storefront/internal/domain/session"
	"github.com/your-org/grocery-storefront/internal/infrastructure/api"
	"github.com/your-org/grocery-storefront/internal/infrastructure/storage"
	"github.com/your-org/grocery-storefront/internal/pkg/receipt"
)

// Options overrides the collaborators New would otherwise build from config
type Options struct {
	Store      storage.Store
	HTTPClient *http.Client
	Prompter   cart.Prompter
	Gateway    payment.Gateway
}

// App is the storefront client with every state wired to the shared session
type App struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  storage.Store
	API    *api.Client

	Session   *session.State
	Cart      *cart.Manager
	Addresses *address.State
	Orders    *order.Service
	Catalog   *catalog.Service
	Checkout  *checkout.Service
	Receipts  *receipt.Service
}

// New builds the application. Call Start before use and Close when done.
func New(cfg *config.Config, logger *logrus.Logger, opts Options) (*App, error) {
	store := opts.Store
	if store == nil {
		var err error
		store, err = storage.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
	}

	var (
		client *api.Client
		err    error
	)
	if opts.HTTPClient != nil {
		client, err = api.NewClientWithHTTP(cfg.API.BaseURL, opts.HTTPClient, logger)
	} else {
		client, err = api.NewClient(cfg, logger)
	}
	if err != nil {
		store.Close()
		return nil, err
	}

	gateway := opts.Gateway
	if gateway == nil {
		gateway = payment.GatewayFunc(func(context.Context, payment.Request) (payment.Result, error) {
			return payment.Result{}, errors.New("online payments are not configured")
		})
	}

	sess := session.NewState(client, store, cfg.Session.StorageKey, logger)
	client.SetTokenSource(sess.Token)

	cartManager := cart.NewManager(client, sess, opts.Prompter, logger)
	addresses := address.NewState(client, sess, logger)
	orders := order.NewService(client, sess, logger)

	// cart first so a login shows the cart before anything else loads
	sess.Subscribe(cartManager.HandleSessionChange)
	sess.Subscribe(addresses.HandleSessionChange)
	sess.Subscribe(orders.HandleSessionChange)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		API:       client,
		Session:   sess,
		Cart:      cartManager,
		Addresses: addresses,
		Orders:    orders,
		Catalog:   catalog.NewService(client, logger),
		Checkout:  checkout.NewService(sess, cartManager, addresses, orders, gateway, cfg, logger),
		Receipts:  receipt.NewService(cfg),
	}, nil
}

// Start restores the persisted session, which loads the cart, addresses and
// orders of a returning user
func (a *App) Start(ctx context.Context) {
	a.Session.Restore(ctx)
}

// Close detaches the states and releases the store
func (a *App) Close() error {
	a.Cart.Close()
	a.Orders.Close()
	return a.Store.Close()
}
