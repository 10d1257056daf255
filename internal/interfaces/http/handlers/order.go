// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/domain/address"
	"github.com/your-org/grocery-storefront/internal/domain/order"
	"github.com/your-org/grocery-storefront/internal/infrastructure/memstore"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	store  *memstore.Store
	logger *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(store *memstore.Store, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		store:  store,
		logger: logger,
	}
}

type createOrderRequest struct {
	UserID        string              `json:"userId" binding:"required"`
	AddressID     string              `json:"addressId"`
	Address       address.Snapshot    `json:"address"`
	PaymentMethod order.PaymentMethod `json:"paymentMethod" binding:"required"`
	PaymentRef    string              `json:"paymentRef"`
	DeliveryFee   float64             `json:"deliveryFee"`
	Notes         string              `json:"notes"`
}

type updateStatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// GetOrders handles GET /orders?userId=
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		fail(c, http.StatusBadRequest, "userId is required")
		return
	}
	if !ownsUser(c, userID) {
		return
	}

	respond(c, http.StatusOK, "Orders retrieved successfully", h.store.Orders(userID))
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !ownsUser(c, req.UserID) {
		return
	}

	created, err := h.store.CreateOrder(memstore.NewOrder{
		UserID:        req.UserID,
		AddressID:     req.AddressID,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		PaymentRef:    req.PaymentRef,
		Notes:         req.Notes,
	})
	if err != nil {
		failWith(c, err)
		return
	}

	// the fee is recomputed server-side; a mismatch means the client priced a stale cart
	if req.DeliveryFee != created.DeliveryFee {
		h.logger.WithFields(logrus.Fields{
			"order_id":     created.ID,
			"client_fee":   req.DeliveryFee,
			"computed_fee": created.DeliveryFee,
		}).Warn("Delivery fee differs from client quote")
	}

	respond(c, http.StatusCreated, "Order placed successfully", created)
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.store.UpdateOrderStatus(c.Param("id"), req.Status)
	if err != nil {
		failWith(c, err)
		return
	}

	respond(c, http.StatusOK, "Order status updated successfully", updated)
}
