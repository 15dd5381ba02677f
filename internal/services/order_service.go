package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/fulfillment"
	"storefront/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pagination bounds for order list reads.
const (
	DefaultOrderPageSize = 50
	MaxOrderPageSize     = 200
)

// orderNumberPrefix starts every generated order number.
const orderNumberPrefix = "ORD"

// CartLine is one requested line of a checkout: what the caller wants, never
// trusted for pricing.
type CartLine struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id" validate:"required"`
	// Quantity is validated by the order service so a non-positive value
	// surfaces as InvalidQuantityError rather than a generic shape error.
	Quantity int `json:"quantity"`
}

// CreateOrderRequest is the full input to CreateOrder.
type CreateOrderRequest struct {
	UserID          string                 `json:"user_id" validate:"required"`
	BrandID         string                 `json:"brand_id" validate:"required"`
	Items           []CartLine             `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" validate:"required"`
}

// CreatedOrder pairs the persisted local order with the external platform's
// order handle so the caller can reconcile both identifiers.
type CreatedOrder struct {
	Order           *models.Order `json:"order"`
	ExternalOrderID string        `json:"external_order_id"`
}

// OrderService handles business logic related to orders. It is the only
// component with ordering rules; the repositories and the fulfillment client
// are data-access and external-call leaves.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	rates       fulfillment.ShippingRateResolver
	submitter   fulfillment.OrderSubmitter
	publisher   rabbitmq.EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case event publication is skipped.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	rates fulfillment.ShippingRateResolver,
	submitter fulfillment.OrderSubmitter,
	publisher rabbitmq.EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		rates:       rates,
		submitter:   submitter,
		publisher:   publisher,
	}
}

// resolvedLine is a cart line after catalog resolution, with the unit price
// snapshotted from the variant.
type resolvedLine struct {
	item    models.OrderItem
	variant models.Variant
}

// CreateOrder places an order: it resolves every cart line against the live
// catalog, prices the cart from the resolved variant prices, quotes
// shipping, submits the order to the fulfillment platform, and only then
// persists the local order with its items and address in one durable write.
//
// External submission strictly precedes local persistence, so the only
// inconsistency this can leave behind is "external order exists, local row
// does not". That case is surfaced as *PersistenceError carrying the
// external handle.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*CreatedOrder, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	// 1. Resolve catalog state in one batched read.
	productIDs := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := s.productRepo.GetByIDs(productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog state: %w", err)
	}
	productsByID := make(map[string]*models.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	// 2. Validate every line and accumulate prices. All validation happens
	// before any external call; the first offending line aborts the whole
	// order.
	lineTotal := decimal.Zero
	resolved := make([]resolvedLine, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: line.ProductID, VariantID: line.VariantID, Quantity: line.Quantity}
		}
		product, ok := productsByID[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		variant := product.VariantByID(line.VariantID)
		if variant == nil {
			return nil, &VariantNotFoundError{ProductID: line.ProductID, VariantID: line.VariantID}
		}

		// Snapshot the unit price now; later catalog changes must never
		// touch this order.
		resolved = append(resolved, resolvedLine{
			item: models.OrderItem{
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Quantity:  line.Quantity,
				UnitPrice: variant.Price,
			},
			variant: *variant,
		})
		lineTotal = lineTotal.Add(variant.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	externalLines := make([]fulfillment.LineItem, 0, len(resolved))
	for _, rl := range resolved {
		externalLines = append(externalLines, fulfillment.LineItem{
			ExternalVariantID: rl.variant.ExternalVariantID,
			Quantity:          rl.item.Quantity,
		})
	}

	// 3. Shipping resolution: first returned rate wins. An empty rate list
	// falls back to zero cost, recorded as an unavailable-rate order so the
	// fallback is visible rather than silent.
	shippingCost := decimal.Zero
	rateStatus := models.ShippingRateUnavailable
	addr := req.ShippingAddress
	ratesResp, err := s.rates.CalculateShipping(fulfillment.RateRequest{
		LineItems: externalLines,
		AddressTo: fulfillment.RateAddress{
			City:    addr.City,
			Region:  addr.State,
			Country: addr.Country,
			Zip:     addr.ZipCode,
		},
	})
	if err != nil {
		return nil, &ShippingRateError{Err: err}
	}
	if len(ratesResp) > 0 {
		shippingCost = ratesResp[0].Price
		rateStatus = models.ShippingRateQuoted
	} else {
		log.Printf("No shipping rates returned for order by user %s; defaulting shipping cost to zero", req.UserID)
	}

	// 4. Total, computed once.
	total := lineTotal.Add(shippingCost)

	// 5. External submission, strictly before any local write.
	customer := fulfillment.Customer{FirstName: addr.FirstName, LastName: addr.LastName}
	if user, userErr := s.userRepo.GetByID(req.UserID); userErr == nil {
		customer.Email = user.Email
	}
	externalOrder, err := s.submitter.SubmitOrder(fulfillment.OrderSubmission{
		LineItems: externalLines,
		Customer:  customer,
		AddressTo: fulfillment.SubmissionAddress{
			FirstName: addr.FirstName,
			LastName:  addr.LastName,
			Address1:  addr.Address1,
			Address2:  addr.Address2,
			City:      addr.City,
			Region:    addr.State,
			Country:   addr.Country,
			Zip:       addr.ZipCode,
			Phone:     addr.Phone,
		},
	})
	if err != nil {
		return nil, &ExternalSubmissionError{Err: err}
	}

	// 6. Local persistence: order, items, and address in one durable write.
	order := &models.Order{
		ID:                 uuid.New().String(),
		OrderNumber:        generateOrderNumber(),
		UserID:             req.UserID,
		BrandID:            req.BrandID,
		ExternalOrderID:    externalOrder.ID,
		Total:              total,
		ShippingCost:       shippingCost,
		ShippingRateStatus: rateStatus,
		Status:             models.OrderStatusPending,
		Items:              make([]models.OrderItem, 0, len(resolved)),
		ShippingAddress: models.OrderShippingAddress{
			FirstName: addr.FirstName,
			LastName:  addr.LastName,
			Address1:  addr.Address1,
			Address2:  addr.Address2,
			City:      addr.City,
			State:     addr.State,
			Country:   addr.Country,
			ZipCode:   addr.ZipCode,
			Phone:     addr.Phone,
		},
	}
	for _, rl := range resolved {
		order.Items = append(order.Items, rl.item)
	}

	if err := s.orderRepo.Create(order); err != nil {
		// The external order exists; hand its id to the caller so the local
		// write can be re-attempted without a second submission.
		return nil, &PersistenceError{ExternalOrderID: externalOrder.ID, Err: err}
	}

	s.publishEvent(rabbitmq.OrderCreatedKey, map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"brand_id":     order.BrandID,
		"external_id":  order.ExternalOrderID,
		"status":       order.Status,
		"total":        order.Total,
	})

	// 7. Return both identifiers.
	return &CreatedOrder{Order: order, ExternalOrderID: externalOrder.ID}, nil
}

// GetOrder retrieves a single order with its items and shipping address.
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	return s.orderRepo.GetByID(orderID)
}

// GetUserOrders retrieves a user's orders, newest first. limit and offset
// bound the read; limit falls back to DefaultOrderPageSize and is capped at
// MaxOrderPageSize.
func (s *OrderService) GetUserOrders(userID string, limit, offset int) ([]models.Order, error) {
	limit, offset = clampPage(limit, offset)
	return s.orderRepo.GetByUser(userID, limit, offset)
}

// GetBrandOrders retrieves a brand's orders, newest first, each paired with
// the minimal purchaser identity the brand owner is allowed to see.
func (s *OrderService) GetBrandOrders(brandID string, limit, offset int) ([]models.BrandOrder, error) {
	limit, offset = clampPage(limit, offset)
	orders, err := s.orderRepo.GetByBrand(brandID, limit, offset)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(orders))
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			userIDs = append(userIDs, o.UserID)
		}
	}
	users, err := s.userRepo.GetByIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve purchasers: %w", err)
	}
	purchasers := make(map[string]models.Purchaser, len(users))
	for i := range users {
		purchasers[users[i].ID] = users[i].AsPurchaser()
	}

	brandOrders := make([]models.BrandOrder, 0, len(orders))
	for _, o := range orders {
		brandOrders = append(brandOrders, models.BrandOrder{
			Order:     o,
			Purchaser: purchasers[o.UserID],
		})
	}
	return brandOrders, nil
}

// UpdateOrderStatus moves an order to a new lifecycle status. Unknown
// statuses and disallowed transitions are rejected; setting the current
// status again is a no-op write so retried updates stay idempotent.
func (s *OrderService) UpdateOrderStatus(orderID string, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionOrderStatus(order.Status, status) {
		return nil, &InvalidStatusTransitionError{From: order.Status, To: status}
	}
	if order.Status == status {
		return order, nil
	}

	updated, err := s.orderRepo.UpdateStatus(orderID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", orderID, err)
	}

	s.publishEvent(rabbitmq.OrderStatusUpdatedKey, map[string]interface{}{
		"order_id": updated.ID,
		"status":   updated.Status,
	})

	return updated, nil
}

// publishEvent publishes best-effort: a broker failure is logged, never
// propagated to the caller.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultOrderPageSize
	}
	if limit > MaxOrderPageSize {
		limit = MaxOrderPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// generateOrderNumber builds a human-legible, creation-time-sortable order
// number. The timestamp token keeps numbers legible and sortable; the uuid
// fragment removes the same-millisecond collision risk of a pure timestamp.
func generateOrderNumber() string {
	ts := time.Now().UnixMilli()
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("%s-%d-%s", orderNumberPrefix, ts, suffix)
}
