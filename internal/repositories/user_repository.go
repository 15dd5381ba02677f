package repositories

import "storefront/internal/models"

// UserRepository defines the interface for user data access. GetByIDs is the
// batched read backing the purchaser projection on brand order listings.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetByIDs(ids []string) ([]models.User, error)
}
