// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-storefront/internal/infrastructure/memstore"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	store *memstore.Store
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store *memstore.Store) *CartHandler {
	return &CartHandler{store: store}
}

type cartLineRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type clearCartRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// GetCart handles GET /cart?userId=
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		fail(c, http.StatusBadRequest, "userId is required")
		return
	}
	if !ownsUser(c, userID) {
		return
	}

	respond(c, http.StatusOK, "Cart retrieved successfully", h.store.Cart(userID))
}

// AddToCart handles POST /cart/add
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !ownsUser(c, req.UserID) {
		return
	}

	if err := h.store.AddItem(req.UserID, req.ProductID, req.VariantID, req.Quantity); err != nil {
		failWith(c, err)
		return
	}

	respond(c, http.StatusOK, "Item added to cart successfully", nil)
}

// UpdateQuantity handles PUT /cart/update
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !ownsUser(c, req.UserID) {
		return
	}

	if err := h.store.UpdateItem(req.UserID, req.ProductID, req.VariantID, req.Quantity); err != nil {
		failWith(c, err)
		return
	}

	respond(c, http.StatusOK, "Cart item updated successfully", nil)
}

// RemoveFromCart handles DELETE /cart/remove
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !ownsUser(c, req.UserID) {
		return
	}

	if err := h.store.RemoveItem(req.UserID, req.ProductID, req.VariantID); err != nil {
		failWith(c, err)
		return
	}

	respond(c, http.StatusOK, "Item removed from cart successfully", nil)
}

// ClearCart handles DELETE /cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	var req clearCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !ownsUser(c, req.UserID) {
		return
	}

	h.store.ClearCart(req.UserID)
	respond(c, http.StatusOK, "Cart cleared successfully", nil)
}
