package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// Create must persist the order, its items, and its shipping address as one
// durable write, and must be idempotent keyed by the order's external order
// id: if a row with the same ExternalOrderID already exists, that row is
// loaded into the passed order and no duplicate is written. This is what
// makes re-attempting the local write after a post-submission failure safe.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByExternalID(externalID string) (*models.Order, error)
	GetByUser(userID string, limit, offset int) ([]models.Order, error)
	GetByBrand(brandID string, limit, offset int) ([]models.Order, error)
	UpdateStatus(id string, status string) (*models.Order, error)
	// Orders are never deleted; cancellation is a status.
}
