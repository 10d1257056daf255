// internal/infrastructure/memstore/catalog.go
package memstore

import (
	"sort"

	"github.com/your-org/grocery-storefront/internal/domain/catalog"
)

// AddCategory registers a category
func (s *Store) AddCategory(c catalog.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

// AddProduct registers or replaces a product
func (s *Store) AddProduct(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[p.ID]; !exists {
		s.productIDs = append(s.productIDs, p.ID)
	}
	s.products[p.ID] = p
}

// Categories returns every category in sort order
func (s *Store) Categories() []catalog.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Category, len(s.categories))
	copy(out, s.categories)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// Products returns the products of a category, or all products for ""
func (s *Store) Products(categoryID string) []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Product, 0, len(s.productIDs))
	for _, id := range s.productIDs {
		p := s.products[id]
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// Product returns one product
func (s *Store) Product(id string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// Seed loads a small demo catalog
func (s *Store) Seed() {
	categories := []catalog.Category{
		{ID: "fruits", Name: "Fruits & Vegetables", Slug: "fruits-vegetables", SortOrder: 1},
		{ID: "dairy", Name: "Dairy & Eggs", Slug: "dairy-eggs", SortOrder: 2},
		{ID: "staples", Name: "Staples", Slug: "staples", SortOrder: 3},
	}
	for _, c := range categories {
		s.AddCategory(c)
	}

	products := []catalog.Product{
		{
			ID: "apple", Name: "Shimla Apple", CategoryID: "fruits", IsActive: true,
			Images: []string{"/images/apple.jpg"},
			Variants: []catalog.Variant{
				{ID: "500g", Label: "500 g", Price: 90, ComparePrice: 110, InStock: true},
				{ID: "1kg", Label: "1 kg", Price: 170, ComparePrice: 210, InStock: true},
			},
		},
		{
			ID: "banana", Name: "Robusta Banana", CategoryID: "fruits", IsActive: true,
			Images: []string{"/images/banana.jpg"},
			Variants: []catalog.Variant{
				{ID: "6pc", Label: "6 pcs", Price: 45, InStock: true},
				{ID: "12pc", Label: "12 pcs", Price: 85, InStock: false},
			},
		},
		{
			ID: "milk", Name: "Toned Milk", CategoryID: "dairy", IsActive: true,
			Variants: []catalog.Variant{
				{ID: "500ml", Label: "500 ml", Price: 28, InStock: true},
				{ID: "1l", Label: "1 L", Price: 54, InStock: true},
			},
		},
		{
			ID: "eggs", Name: "Farm Eggs", CategoryID: "dairy", IsActive: true,
			Variants: []catalog.Variant{
				{ID: "6pc", Label: "6 pcs", Price: 48, InStock: true},
			},
		},
		{
			ID: "rice", Name: "Basmati Rice", CategoryID: "staples", IsActive: true,
			Variants: []catalog.Variant{
				{ID: "1kg", Label: "1 kg", Price: 140, ComparePrice: 160, InStock: true},
				{ID: "5kg", Label: "5 kg", Price: 650, ComparePrice: 780, InStock: true},
			},
		},
	}
	for _, p := range products {
		s.AddProduct(p)
	}
}
