package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order. Mirrors the GORM implementation's idempotency:
// an order with an already-seen external id is returned as-is.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ExternalOrderID != "" {
		for _, existing := range r.orders {
			if existing.ExternalOrderID == order.ExternalOrderID {
				*order = existing
				return nil
			}
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
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	return &order, nil
}

// GetByExternalID returns an order by its external fulfillment-platform ID.
func (r *MockOrderRepository) GetByExternalID(externalID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.ExternalOrderID == externalID {
			o := order
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order with external ID %s not found", externalID)
}

// GetByUser returns a user's orders, newest first.
func (r *MockOrderRepository) GetByUser(userID string, limit, offset int) ([]models.Order, error) {
	return r.listBy(func(o models.Order) bool { return o.UserID == userID }, limit, offset)
}

// GetByBrand returns a brand's orders, newest first.
func (r *MockOrderRepository) GetByBrand(brandID string, limit, offset int) ([]models.Order, error) {
	return r.listBy(func(o models.Order) bool { return o.BrandID == brandID }, limit, offset)
}

func (r *MockOrderRepository) listBy(match func(models.Order) bool, limit, offset int) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if match(order) {
			orderList = append(orderList, order)
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	if offset >= len(orderList) {
		return []models.Order{}, nil
	}
	orderList = orderList[offset:]
	if limit > 0 && limit < len(orderList) {
		orderList = orderList[:limit]
	}
	return orderList, nil
}

// UpdateStatus updates the status of an order and returns the updated order.
func (r *MockOrderRepository) UpdateStatus(id string, status string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found for status update", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return &order, nil
}
