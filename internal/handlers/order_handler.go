package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)

	router.Get("/users/me/orders", h.HandleGetMyOrders)
	router.Get("/brands/:id/orders", h.HandleGetBrandOrders)
}

// HandleCreateOrder places a new order. The authenticated user is the
// purchaser; the body carries the cart lines and shipping address.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create-order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		req.UserID = userID
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMessages(err),
		})
	}

	created, err := h.service.CreateOrder(req)
	if err != nil {
		return h.mapCreateOrderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// mapCreateOrderError turns the order core's typed failures into HTTP
// responses: validation classes are 4xx with nothing written, external
// dependency failures are 502 and safe to retry, and a post-submission
// persistence failure is a 500 that carries the external order handle so
// the caller can reconcile.
func (h *OrderHandler) mapCreateOrderError(c *fiber.Ctx, err error) error {
	log.Printf("Error creating order: %v", err)

	var productErr *services.ProductNotFoundError
	var variantErr *services.VariantNotFoundError
	var quantityErr *services.InvalidQuantityError
	var rateErr *services.ShippingRateError
	var submitErr *services.ExternalSubmissionError
	var persistErr *services.PersistenceError

	switch {
	case errors.As(err, &productErr), errors.As(err, &variantErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Order references an unknown product or variant",
			"error":   err.Error(),
		})
	case errors.As(err, &quantityErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order contains an invalid quantity",
			"error":   err.Error(),
		})
	case errors.As(err, &rateErr), errors.As(err, &submitErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Fulfillment platform rejected the order; it is safe to retry",
			"error":   err.Error(),
		})
	case errors.As(err, &persistErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message":           "Order was submitted externally but could not be recorded; do not resubmit",
			"external_order_id": persistErr.ExternalOrderID,
			"error":             err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrder(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleGetMyOrders retrieves the authenticated user's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	orders, err := h.service.GetUserOrders(userID, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetBrandOrders retrieves a brand's orders with purchaser identity,
// newest first.
func (h *OrderHandler) HandleGetBrandOrders(c *fiber.Ctx) error {
	brandID := c.Params("id")
	orders, err := h.service.GetBrandOrders(brandID, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		log.Printf("Error getting orders for brand %s: %v", brandID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve brand orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus moves an order to a new lifecycle status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.UpdateOrderStatus(orderID, updateData.Status)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)

		var transitionErr *services.InvalidStatusTransitionError
		switch {
		case errors.As(err, &transitionErr), strings.Contains(err.Error(), "invalid order status"):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Order status update not allowed",
				"error":   err.Error(),
			})
		case strings.Contains(err.Error(), "not found"):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update order status",
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(order)
}

// validationErrorMessages flattens validator errors into a field -> message
// map for the response body.
func validationErrorMessages(err error) map[string]string {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	} else {
		errorMessages["request"] = err.Error()
	}
	return errorMessages
}
