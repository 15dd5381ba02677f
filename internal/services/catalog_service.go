package services

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CatalogService handles business logic for brand-owned products and their
// variants.
type CatalogService struct {
	productRepo repositories.ProductRepository
	brandRepo   repositories.BrandRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(productRepo repositories.ProductRepository, brandRepo repositories.BrandRepository) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		brandRepo:   brandRepo,
	}
}

// GetBrandProducts retrieves all products for a brand, variants included.
func (s *CatalogService) GetBrandProducts(brandID string) ([]models.Product, error) {
	return s.productRepo.GetByBrand(brandID)
}

// GetProductByID retrieves a single product with its variants.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// CreateProduct creates a new product for a brand. The brand must exist and
// the product must carry at least one variant, since variants hold prices.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	if _, err := s.brandRepo.GetByID(product.BrandID); err != nil {
		return fmt.Errorf("cannot create product: %w", err)
	}
	if len(product.Variants) == 0 {
		return fmt.Errorf("product must have at least one variant")
	}
	return s.productRepo.Create(product)
}

// UpdateProduct updates an existing product. The product's identity is
// immutable; only price and metadata change.
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	existing, err := s.productRepo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing.BrandID != product.BrandID {
		return fmt.Errorf("product %s does not belong to brand %s", product.ID, product.BrandID)
	}
	return s.productRepo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *CatalogService) DeleteProduct(id string) error {
	return s.productRepo.Delete(id)
}

// CreateBrand creates a new brand for an owner.
func (s *CatalogService) CreateBrand(brand *models.Brand) error {
	if existing, err := s.brandRepo.GetBySlug(brand.Slug); err == nil && existing != nil {
		return fmt.Errorf("brand slug '%s' already taken", brand.Slug)
	}
	return s.brandRepo.Create(brand)
}

// GetBrandByID retrieves a single brand.
func (s *CatalogService) GetBrandByID(id string) (*models.Brand, error) {
	return s.brandRepo.GetByID(id)
}

// GetOwnerBrands retrieves all brands owned by a user.
func (s *CatalogService) GetOwnerBrands(ownerID string) ([]models.Brand, error) {
	return s.brandRepo.GetByOwner(ownerID)
}
