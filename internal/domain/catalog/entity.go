// internal/domain/catalog/entity.go
package catalog

import (
	"errors"

	"github.com/your-org/grocery-storefront/internal/domain/cart"
)

var (
	ErrVariantNotFound = errors.New("variant not found")
	ErrOutOfStock      = errors.New("variant is out of stock")
)

// Category represents a product category
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SortOrder   int    `json:"sortOrder"`
}

// Product represents a sellable product and its variants
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category"`
	Images      []string  `json:"images,omitempty"`
	Variants    []Variant `json:"variants"`
	IsActive    bool      `json:"isActive"`
}

// Variant is one purchasable size/pack of a product
type Variant struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Price        float64 `json:"price"`
	ComparePrice float64 `json:"mrp,omitempty"`
	InStock      bool    `json:"inStock"`
}

// Discount returns the saving against the compare price, or 0
func (v Variant) Discount() float64 {
	if v.ComparePrice > v.Price {
		return v.ComparePrice - v.Price
	}
	return 0
}

// Variant looks up a variant by id
func (p *Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// DefaultVariant returns the first in-stock variant
func (p *Product) DefaultVariant() (Variant, bool) {
	for _, v := range p.Variants {
		if v.InStock {
			return v, true
		}
	}
	return Variant{}, false
}

// PrimaryImage returns the first image, if any
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// LineFor builds the cart line for a variant, capturing its name, label and price
func (p *Product) LineFor(variantID string, quantity int) (cart.Line, error) {
	if quantity < 1 {
		return cart.Line{}, cart.ErrInvalidQuantity
	}
	v, ok := p.Variant(variantID)
	if !ok {
		return cart.Line{}, ErrVariantNotFound
	}
	if !v.InStock {
		return cart.Line{}, ErrOutOfStock
	}

	return cart.Line{
		CompositeID:  cart.CompositeID(p.ID, v.ID),
		ProductID:    p.ID,
		VariantID:    v.ID,
		Name:         p.Name,
		VariantLabel: v.Label,
		UnitPrice:    v.Price,
		Quantity:     quantity,
		Image:        p.PrimaryImage(),
	}, nil
}
