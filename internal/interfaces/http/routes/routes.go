// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/infrastructure/memstore"
	"github.com/your-org/grocery-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/grocery-storefront/internal/interfaces/http/middleware"
)

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(r gin.IRouter, store *memstore.Store, cfg *config.Config, logger *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(store, cfg, logger)

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(r gin.IRouter, store *memstore.Store, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(store)

	cart := r.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/add", cartHandler.AddToCart)
		cart.PUT("/update", cartHandler.UpdateQuantity)
		cart.DELETE("/remove", cartHandler.RemoveFromCart)
		cart.DELETE("/clear", cartHandler.ClearCart)
	}
}

// SetupAddressRoutes sets up address related routes
func SetupAddressRoutes(r gin.IRouter, store *memstore.Store, cfg *config.Config) {
	addressHandler := handlers.NewAddressHandler(store)

	addresses := r.Group("/addresses")
	addresses.Use(middleware.AuthMiddleware(cfg))
	{
		addresses.POST("", addressHandler.CreateAddress)
		// one wildcard name per segment: GET takes a user id, PUT/DELETE an address id
		addresses.GET("/:userId", addressHandler.GetAddresses)
		addresses.PUT("/:id", addressHandler.UpdateAddress)
		addresses.DELETE("/:id", addressHandler.DeleteAddress)
	}
}

// SetupOrderRoutes sets up order related routes
func SetupOrderRoutes(r gin.IRouter, store *memstore.Store, cfg *config.Config, logger *logrus.Logger) {
	orderHandler := handlers.NewOrderHandler(store, logger)

	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetOrders)
		orders.POST("", orderHandler.CreateOrder)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	}
}

// SetupCatalogRoutes sets up public catalog routes
func SetupCatalogRoutes(r gin.IRouter, store *memstore.Store) {
	catalogHandler := handlers.NewCatalogHandler(store)

	r.GET("/categories", catalogHandler.GetCategories)
	r.GET("/products", catalogHandler.GetProducts)
	r.GET("/products/:id", catalogHandler.GetProduct)
}

// SetupRoutes sets up all routes
func SetupRoutes(r gin.IRouter, store *memstore.Store, cfg *config.Config, logger *logrus.Logger) {
	SetupAuthRoutes(r, store, cfg, logger)
	SetupCartRoutes(r, store, cfg)
	SetupAddressRoutes(r, store, cfg)
	SetupOrderRoutes(r, store, cfg, logger)
	SetupCatalogRoutes(r, store)
}
