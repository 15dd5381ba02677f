package repositories

import (
	"storefront/internal/models"
)

// ProductRepository defines the interface for catalog data access.
// GetByIDs is the batched read the order core depends on: all requested
// products come back with their variants in a single query, so the whole
// cart is priced against one consistent catalog snapshot.
type ProductRepository interface {
	GetByBrand(brandID string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByIDs(ids []string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
