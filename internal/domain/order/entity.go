// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/your-org/grocery-storefront/internal/domain/address"
)

// Status represents the order status. The client only observes it.
type Status string

const (
	StatusPlaced     Status = "placed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var validTransitions = map[Status][]Status{
	StatusPlaced:     {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
}

// CanTransitionTo reports whether the server may move an order from s to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPlaced, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how the order is paid
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

// Order represents a placed order as the server returns it
type Order struct {
	ID            string           `json:"id"`
	OrderNumber   string           `json:"orderNumber"`
	UserID        string           `json:"userId"`
	Status        Status           `json:"status"`
	Items         []Item           `json:"items"`
	Subtotal      float64          `json:"subtotal"`
	DeliveryFee   float64          `json:"deliveryFee"`
	Total         float64          `json:"total"`
	Address       address.Snapshot `json:"address"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	PaymentRef    string           `json:"paymentRef,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// Item represents one line of an order
type Item struct {
	ProductID    string  `json:"productId"`
	VariantID    string  `json:"variantId"`
	Name         string  `json:"name"`
	VariantLabel string  `json:"variantLabel"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
}

// LineTotal returns price times quantity
func (i Item) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ItemCount returns the sum of item quantities
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// DisplayNumber returns the order number, falling back to the id
func (o *Order) DisplayNumber() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return o.ID
}

// GenerateOrderNumber formats an order number as ORD-YYYYMMDD-XXXXX
func GenerateOrderNumber(at time.Time, seq int) string {
	return fmt.Sprintf("ORD-%s-%05d", at.Format("20060102"), seq)
}

// PlaceRequest is what the checkout flow supplies to place an order
type PlaceRequest struct {
	AddressID     string
	Address       address.Snapshot
	PaymentMethod PaymentMethod
	PaymentRef    string
	DeliveryFee   float64
	Notes         string
}

// createOrderRequest is the body of POST /orders
type createOrderRequest struct {
	UserID        string           `json:"userId"`
	AddressID     string           `json:"addressId"`
	Address       address.Snapshot `json:"address"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	PaymentRef    string           `json:"paymentRef,omitempty"`
	DeliveryFee   float64          `json:"deliveryFee"`
	Notes         string           `json:"notes"`
}
