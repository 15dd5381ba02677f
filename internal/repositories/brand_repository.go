package repositories

import "storefront/internal/models"

// BrandRepository defines the interface for brand data access.
type BrandRepository interface {
	Create(brand *models.Brand) error
	GetByID(id string) (*models.Brand, error)
	GetBySlug(slug string) (*models.Brand, error)
	GetByOwner(ownerID string) ([]models.Brand, error)
	Update(brand *models.Brand) error
}
