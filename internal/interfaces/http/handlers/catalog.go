// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-storefront/internal/infrastructure/memstore"
)

// CatalogHandler serves categories and products as bare JSON
type CatalogHandler struct {
	store *memstore.Store
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(store *memstore.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// GetCategories handles GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Categories())
}

// GetProducts handles GET /products?category=
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Products(c.Query("category")))
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.store.Product(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}
