// internal/domain/cart/entity.go
package cart

import (
	"bytes"
	"encoding/json"
)

// Line is one product variant in the cart with the price captured by the server
type Line struct {
	CompositeID  string  `json:"compositeId"`
	ProductID    string  `json:"productId"`
	VariantID    string  `json:"variantId"`
	Name         string  `json:"name"`
	VariantLabel string  `json:"variantLabel"`
	UnitPrice    float64 `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
	Image        string  `json:"image,omitempty"`
}

// CompositeID is the stable identity of a cart line
func CompositeID(productID, variantID string) string {
	return productID + "_" + variantID
}

// Subtotal returns unit price times quantity
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int     `json:"item_count"`     // Number of unique lines
	TotalQuantity int     `json:"total_quantity"` // Sum of all quantities
	SubTotal      float64 `json:"sub_total"`
}

// ProductRef is the product reference on a server cart line. The backend sends
// either the bare product id or the populated product document.
type ProductRef struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Images []string `json:"images,omitempty"`
}

// UnmarshalJSON accepts "p1" as well as {"id":"p1",...} and {"_id":"p1",...}
func (p *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.ID)
	}

	var doc struct {
		ID      string   `json:"id"`
		MongoID string   `json:"_id"`
		Name    string   `json:"name"`
		Images  []string `json:"images"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	p.ID = doc.ID
	if p.ID == "" {
		p.ID = doc.MongoID
	}
	p.Name = doc.Name
	p.Images = doc.Images
	return nil
}

// serverLine is a cart line as the backend returns it
type serverLine struct {
	ProductID    ProductRef `json:"productId"`
	VariantID    string     `json:"variantId"`
	Name         string     `json:"name"`
	VariantLabel string     `json:"variantLabel"`
	UnitPrice    float64    `json:"unitPrice"`
	Quantity     int        `json:"quantity"`
	Image        string     `json:"image"`
}

// toLine maps the server shape onto a Line
func (s serverLine) toLine() Line {
	line := Line{
		CompositeID:  CompositeID(s.ProductID.ID, s.VariantID),
		ProductID:    s.ProductID.ID,
		VariantID:    s.VariantID,
		Name:         s.Name,
		VariantLabel: s.VariantLabel,
		UnitPrice:    s.UnitPrice,
		Quantity:     s.Quantity,
		Image:        s.Image,
	}
	if line.Name == "" {
		line.Name = s.ProductID.Name
	}
	if line.Image == "" && len(s.ProductID.Images) > 0 {
		line.Image = s.ProductID.Images[0]
	}
	return line
}

// serverCart is the data payload of GET /cart
type serverCart struct {
	UserID string       `json:"userId"`
	Items  []serverLine `json:"items"`
}

// lineRequest is the body of the add, update and remove endpoints
type lineRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity,omitempty"`
}

type clearRequest struct {
	UserID string `json:"userId"`
}
