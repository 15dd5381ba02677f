package repositories

import (
	"fmt"
	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBrandRepository is a GORM implementation of BrandRepository.
type GORMBrandRepository struct {
	db *gorm.DB
}

// NewGORMBrandRepository creates a new instance of GORMBrandRepository.
func NewGORMBrandRepository(db *gorm.DB) *GORMBrandRepository {
	return &GORMBrandRepository{
		db: db,
	}
}

// Create creates a new brand in the database.
func (r *GORMBrandRepository) Create(brand *models.Brand) error {
	if brand.ID == "" {
		brand.ID = uuid.New().String()
	}
	if err := r.db.Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}

// GetByID retrieves a brand by its ID.
func (r *GORMBrandRepository) GetByID(id string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.First(&brand, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("brand with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get brand by ID %s: %w", id, err)
	}
	return &brand, nil
}

// GetBySlug retrieves a brand by its slug.
func (r *GORMBrandRepository) GetBySlug(slug string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.First(&brand, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("brand with slug %s not found", slug)
		}
		return nil, fmt.Errorf("failed to get brand by slug %s: %w", slug, err)
	}
	return &brand, nil
}

// GetByOwner retrieves all brands owned by a user.
func (r *GORMBrandRepository) GetByOwner(ownerID string) ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.Where("owner_id = ?", ownerID).Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to get brands for owner %s: %w", ownerID, err)
	}
	return brands, nil
}

// Update updates an existing brand in the database.
func (r *GORMBrandRepository) Update(brand *models.Brand) error {
	res := r.db.Save(brand)
	if res.Error != nil {
		return fmt.Errorf("failed to update brand: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("brand with ID %s not found for update", brand.ID)
	}
	return nil
}
