package repositories

import (
	"fmt"
	"sync"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockBrandRepository is an in-memory implementation of BrandRepository.
type MockBrandRepository struct {
	brands map[string]models.Brand
	mu     sync.RWMutex
}

// NewMockBrandRepository creates a new instance of MockBrandRepository.
func NewMockBrandRepository() *MockBrandRepository {
	return &MockBrandRepository{
		brands: make(map[string]models.Brand),
	}
}

// Create adds a new brand.
func (r *MockBrandRepository) Create(brand *models.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if brand.ID == "" {
		brand.ID = uuid.New().String()
	}
	for _, b := range r.brands {
		if b.Slug == brand.Slug {
			return fmt.Errorf("brand with slug %s already exists", brand.Slug)
		}
	}
	r.brands[brand.ID] = *brand
	return nil
}

// GetByID returns a brand by its ID.
func (r *MockBrandRepository) GetByID(id string) (*models.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	brand, ok := r.brands[id]
	if !ok {
		return nil, fmt.Errorf("brand with ID %s not found", id)
	}
	return &brand, nil
}

// GetBySlug returns a brand by its slug.
func (r *MockBrandRepository) GetBySlug(slug string) (*models.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.brands {
		if b.Slug == slug {
			brand := b
			return &brand, nil
		}
	}
	return nil, fmt.Errorf("brand with slug %s not found", slug)
}

// GetByOwner returns all brands owned by a user.
func (r *MockBrandRepository) GetByOwner(ownerID string) ([]models.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	brandList := make([]models.Brand, 0)
	for _, b := range r.brands {
		if b.OwnerID == ownerID {
			brandList = append(brandList, b)
		}
	}
	return brandList, nil
}

// Update modifies an existing brand.
func (r *MockBrandRepository) Update(brand *models.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.brands[brand.ID]
	if !ok {
		return fmt.Errorf("brand with ID %s not found for update", brand.ID)
	}
	r.brands[brand.ID] = *brand
	return nil
}
