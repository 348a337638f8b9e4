// Package catalog exposes the product listings the bargaining core reads
// its reference prices from.
package catalog

import (
	"errors"
	"log"

	"bargainhub/backend/internal/models"
	"bargainhub/backend/internal/storage"
)

// ErrProductNotFound is returned when a listing does not exist or is no
// longer active.
var ErrProductNotFound = errors.New("product not found")

// Service provides read access to listings plus seeding for ops tooling.
type Service struct {
	Storage storage.Storage
}

// NewService creates a catalog service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// GetProduct returns the active listing with the given id.
func (s *Service) GetProduct(id string) (*models.Product, error) {
	product, err := s.Storage.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts returns all active listings, newest first.
func (s *Service) ListProducts() ([]models.Product, error) {
	return s.Storage.ListProducts()
}

// Seed stores the given listings, skipping ones whose id already exists.
func (s *Service) Seed(products []models.Product) error {
	for i := range products {
		p := products[i]
		if p.ID != "" {
			existing, err := s.Storage.GetProductByID(p.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
		}
		if err := s.Storage.SaveProduct(&p); err != nil {
			return err
		}
		log.Printf("Seeded product %q (%s) at %.2f", p.Title, p.ID, p.Price)
	}
	return nil
}
