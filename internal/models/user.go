package models

import "gorm.io/gorm"

// Roles a user can hold on the platform.
const (
	RoleCustomer   = "customer"
	RoleBrandOwner = "brand_owner"
	RoleAdmin      = "admin"
)

// User represents a registered user of the platform (customer or brand owner).
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role       string `json:"role" gorm:"type:varchar(20);default:customer" validate:"omitempty,oneof=customer brand_owner admin"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Purchaser is the minimal identity projection exposed to brand owners
// alongside their orders.
type Purchaser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AsPurchaser projects a user down to what a brand owner is allowed to see.
func (u *User) AsPurchaser() Purchaser {
	return Purchaser{ID: u.ID, Username: u.Username, Email: u.Email}
}
