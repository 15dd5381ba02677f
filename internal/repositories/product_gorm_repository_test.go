package repositories_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Variant{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestGORMProductRepository_GetByIDsBatched(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newProductTestDB(t))

	shirt := models.Product{
		ID:      "P1",
		BrandID: "brand-1",
		Name:    "Tour T-Shirt",
		Variants: []models.Variant{
			{ID: "V1", Title: "M", Price: decimal.RequireFromString("19.99"), ExternalVariantID: "ext-1", Stock: 10},
			{ID: "V2", Title: "L", Price: decimal.RequireFromString("19.99"), ExternalVariantID: "ext-2", Stock: 4},
		},
	}
	mug := models.Product{
		ID:      "P2",
		BrandID: "brand-1",
		Name:    "Logo Mug",
		Variants: []models.Variant{
			{ID: "V3", Title: "11oz", Price: decimal.RequireFromString("12.50"), ExternalVariantID: "ext-3", Stock: 50},
		},
	}
	assert.NoError(t, repo.Create(&shirt))
	assert.NoError(t, repo.Create(&mug))

	// Both products come back with variants in one read; unknown ids are
	// simply absent rather than an error at this layer.
	products, err := repo.GetByIDs([]string{"P1", "P2", "P-missing"})
	assert.NoError(t, err)
	assert.Len(t, products, 2)

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	assert.Len(t, byID["P1"].Variants, 2)
	assert.Len(t, byID["P2"].Variants, 1)
	assert.True(t, decimal.RequireFromString("12.50").Equal(byID["P2"].Variants[0].Price))

	empty, err := repo.GetByIDs(nil)
	assert.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGORMProductRepository_UpdateReprice(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newProductTestDB(t))

	product := models.Product{
		ID:      "P1",
		BrandID: "brand-1",
		Name:    "Tour T-Shirt",
		Variants: []models.Variant{
			{ID: "V1", Title: "M", Price: decimal.RequireFromString("19.99"), ExternalVariantID: "ext-1"},
		},
	}
	assert.NoError(t, repo.Create(&product))

	product.Variants[0].Price = decimal.RequireFromString("24.99")
	assert.NoError(t, repo.Update(&product))

	loaded, err := repo.GetByID("P1")
	assert.NoError(t, err)
	assert.True(t, decimal.RequireFromString("24.99").Equal(loaded.Variants[0].Price))
}
