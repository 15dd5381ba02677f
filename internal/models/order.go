package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order lifecycle statuses. Transitions are constrained: an order moves
// pending -> processing -> fulfilled, and may be cancelled from pending or
// processing. Fulfilled and cancelled are terminal.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusFulfilled  = "fulfilled"
	OrderStatusCancelled  = "cancelled"
)

// statusTransitions maps each status to the set of statuses it may move to.
var statusTransitions = map[string]map[string]bool{
	OrderStatusPending:    {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusFulfilled: true, OrderStatusCancelled: true},
	OrderStatusFulfilled:  {},
	OrderStatusCancelled:  {},
}

// IsValidOrderStatus reports whether s is one of the known order statuses.
func IsValidOrderStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionOrderStatus reports whether an order may move from one status
// to another. Setting the current status again is allowed so that retried
// updates stay idempotent.
func CanTransitionOrderStatus(from, to string) bool {
	if from == to {
		return IsValidOrderStatus(to)
	}
	allowed, ok := statusTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// Shipping rate resolution outcomes recorded on the order. A zero shipping
// cost with status "quoted" means the provider really quoted zero; status
// "unavailable" means the provider returned no rates and the cost defaulted.
const (
	ShippingRateQuoted      = "quoted"
	ShippingRateUnavailable = "unavailable"
)

// ShippingAddress is the destination supplied by the caller at checkout.
// It is copied into an OrderShippingAddress when the order is persisted;
// addresses are never shared between orders.
type ShippingAddress struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Address1  string `json:"address1" validate:"required,min=1,max=255"`
	Address2  string `json:"address2" validate:"omitempty,max=255"`
	City      string `json:"city" validate:"required,min=1,max=100"`
	State     string `json:"state" validate:"omitempty,max=100"`
	Country   string `json:"country" validate:"required,min=2,max=100"`
	ZipCode   string `json:"zip_code" validate:"required,min=1,max=20"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

// Order represents a placed customer order. It is created exactly once by the
// order service and mutated only through status updates.
type Order struct {
	ID                 string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber        string               `json:"order_number" gorm:"uniqueIndex;type:varchar(64)"`
	UserID             string               `json:"user_id" gorm:"index;type:varchar(36)"`
	BrandID            string               `json:"brand_id" gorm:"index;type:varchar(36)"`
	ExternalOrderID    string               `json:"external_order_id" gorm:"uniqueIndex;type:varchar(64)"`
	Total              decimal.Decimal      `json:"total" gorm:"type:decimal(12,2)"`
	ShippingCost       decimal.Decimal      `json:"shipping_cost" gorm:"type:decimal(12,2)"`
	ShippingRateStatus string               `json:"shipping_rate_status" gorm:"type:varchar(20)"` // ShippingRateQuoted or ShippingRateUnavailable
	Status             string               `json:"status" gorm:"type:varchar(20)"`
	Items              []OrderItem          `json:"items" gorm:"foreignKey:OrderID"`
	ShippingAddress    OrderShippingAddress `json:"shipping_address" gorm:"foreignKey:OrderID"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	DeletedAt          gorm.DeletedAt       `json:"-" gorm:"index"`
}

// OrderItem is one line of an order. UnitPrice is the variant price captured
// at order time; later catalog price changes must never touch it.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36)"`
	VariantID string          `json:"variant_id" gorm:"type:varchar(36)"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2)"`
}

// OrderShippingAddress is the persisted copy of the shipping address at order
// time, one row per order.
type OrderShippingAddress struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string `json:"order_id" gorm:"uniqueIndex;type:varchar(36)"`
	FirstName string `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string `json:"last_name" gorm:"type:varchar(100)"`
	Address1  string `json:"address1" gorm:"type:varchar(255)"`
	Address2  string `json:"address2" gorm:"type:varchar(255)"`
	City      string `json:"city" gorm:"type:varchar(100)"`
	State     string `json:"state" gorm:"type:varchar(100)"`
	Country   string `json:"country" gorm:"type:varchar(100)"`
	ZipCode   string `json:"zip_code" gorm:"type:varchar(20)"`
	Phone     string `json:"phone" gorm:"type:varchar(30)"`
}

// BrandOrder pairs an order with the minimal purchaser identity a brand
// owner is allowed to see.
type BrandOrder struct {
	Order     Order     `json:"order"`
	Purchaser Purchaser `json:"purchaser"`
}
