package repositories

import (
	"fmt"
	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order together with its items and shipping address in
// a single transaction. If an order with the same external order id already
// exists (a retried write after a partial failure), the existing row is
// returned instead of creating a duplicate.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if order.ExternalOrderID != "" {
			var existing models.Order
			err := tx.Preload("Items").Preload("ShippingAddress").
				First(&existing, "external_order_id = ?", order.ExternalOrderID).Error
			if err == nil {
				*order = existing
				return nil
			}
			if err != gorm.ErrRecordNotFound {
				return fmt.Errorf("failed to check for existing order: %w", err)
			}
		}

		if order.ID == "" {
			order.ID = uuid.New().String()
		}
		for i := range order.Items {
			if order.Items[i].ID == "" {
				order.Items[i].ID = uuid.New().String()
			}
			order.Items[i].OrderID = order.ID
		}
		if order.ShippingAddress.ID == "" {
			order.ShippingAddress.ID = uuid.New().String()
		}
		order.ShippingAddress.OrderID = order.ID

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a single order with its items and shipping address.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Preload("ShippingAddress").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByExternalID retrieves an order by the id assigned by the external
// fulfillment platform.
func (r *GORMOrderRepository) GetByExternalID(externalID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Preload("ShippingAddress").First(&order, "external_order_id = ?", externalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with external ID %s not found", externalID)
		}
		return nil, fmt.Errorf("failed to get order by external ID %s: %w", externalID, err)
	}
	return &order, nil
}

// GetByUser retrieves a user's orders, newest first.
func (r *GORMOrderRepository) GetByUser(userID string, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Preload("ShippingAddress").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// GetByBrand retrieves a brand's orders, newest first.
func (r *GORMOrderRepository) GetByBrand(brandID string, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Preload("ShippingAddress").
		Where("brand_id = ?", brandID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for brand %s: %w", brandID, err)
	}
	return orders, nil
}

// UpdateStatus sets the order's status and returns the updated order.
// Transition legality is the service's concern; the repository only writes.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order with ID %s not found for status update", id)
	}
	return r.GetByID(id)
}
