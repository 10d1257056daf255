// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/infrastructure/api"
)

// Service reads categories and products. The catalog endpoints return bare JSON.
type Service struct {
	api    api.Requester
	logger *logrus.Logger
}

// NewService creates a new catalog service
func NewService(requester api.Requester, logger *logrus.Logger) *Service {
	return &Service{
		api:    requester,
		logger: logger,
	}
}

// Categories returns every category ordered by sort order then name
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.api.Get(ctx, "/categories", nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// Products returns the active products, optionally limited to one category
func (s *Service) Products(ctx context.Context, categoryID string) ([]Product, error) {
	var query url.Values
	if categoryID = strings.TrimSpace(categoryID); categoryID != "" {
		query = url.Values{"category": {categoryID}}
	}

	var products []Product
	if err := s.api.Get(ctx, "/products", query, &products); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	active := products[:0]
	for _, p := range products {
		if p.IsActive {
			active = append(active, p)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"category": categoryID,
		"count":    len(active),
	}).Debug("Fetched products")

	return active, nil
}

// Product returns one product by id
func (s *Service) Product(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := s.api.Get(ctx, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return &product, nil
}
