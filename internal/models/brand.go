package models

import "gorm.io/gorm"

// Brand represents a storefront owned by a brand-owner user. Products and
// orders are scoped to a brand.
type Brand struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100,lowercase"`
	Description string `json:"description" validate:"omitempty,max=500"`
	OwnerID     string `json:"owner_id" gorm:"index;type:varchar(36)" validate:"required"`
	gorm.Model
}
