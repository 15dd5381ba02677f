package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a merchandise item owned by a brand. Pricing lives on
// the variants, not the product itself.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	BrandID     string    `json:"brand_id" gorm:"index;type:varchar(36)" validate:"required"`
	Name        string    `json:"name" validate:"required,min=3,max=100"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
	Variants    []Variant `json:"variants" gorm:"foreignKey:ProductID" validate:"required,min=1,dive"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Variant is a purchasable variation of a product (size, color, ...).
// ExternalVariantID identifies the same variant on the fulfillment platform
// and is what gets submitted when an order is placed.
type Variant struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID         string          `json:"product_id" gorm:"index;type:varchar(36)"`
	Title             string          `json:"title" validate:"required,min=1,max=100"`
	Price             decimal.Decimal `json:"price" gorm:"type:decimal(12,2)" validate:"required"`
	ExternalVariantID string          `json:"external_variant_id" gorm:"type:varchar(64)" validate:"required"`
	Stock             int             `json:"stock" validate:"gte=0"`
	gorm.Model
}

// VariantByID finds a variant on the product by its id. Returns nil when the
// variant does not belong to this product.
func (p *Product) VariantByID(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
