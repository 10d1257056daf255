// internal/interfaces/http/handlers/address.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-storefront/internal/domain/address"
	"github.com/your-org/grocery-storefront/internal/infrastructure/memstore"
	"github.com/your-org/grocery-storefront/internal/interfaces/http/middleware"
)

// AddressHandler handles address endpoints
type AddressHandler struct {
	store *memstore.Store
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(store *memstore.Store) *AddressHandler {
	return &AddressHandler{store: store}
}

// GetAddresses handles GET /addresses/:userId
func (h *AddressHandler) GetAddresses(c *gin.Context) {
	userID := c.Param("userId")
	if !ownsUser(c, userID) {
		return
	}

	// bare list, like the catalog endpoints
	c.JSON(http.StatusOK, h.store.Addresses(userID))
}

// CreateAddress handles POST /addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req address.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !ownsUser(c, req.UserID) {
		return
	}

	created, err := h.store.CreateAddress(req)
	if err != nil {
		failWith(c, err)
		return
	}

	respond(c, http.StatusCreated, "Address created successfully", created)
}

// UpdateAddress handles PUT /addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req address.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.store.UpdateAddress(userID, c.Param("id"), req)
	if err != nil {
		failWith(c, err)
		return
	}

	respond(c, http.StatusOK, "Address updated successfully", updated)
}

// DeleteAddress handles DELETE /addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	if err := h.store.DeleteAddress(userID, c.Param("id")); err != nil {
		failWith(c, err)
		return
	}

	respond(c, http.StatusOK, "Address deleted successfully", nil)
}
