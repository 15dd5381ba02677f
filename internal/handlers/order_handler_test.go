package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/fulfillment"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// testEnv wires an app with in-memory repositories and a mock fulfillment
// client, with an authenticated test user injected in place of the JWT
// middleware.
type testEnv struct {
	app         *fiber.App
	orderRepo   *repositories.MockOrderRepository
	productRepo *repositories.MockProductRepository
	fulfillment *fulfillment.MockClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	userRepo := repositories.NewMockUserRepository()
	client := fulfillment.NewMockClient(decimal.RequireFromString("5.00"))

	assert.NoError(t, userRepo.Create(&models.User{
		ID: "user-1", Username: "ada", Email: "ada@example.com", Password: "x",
	}))
	assert.NoError(t, productRepo.Create(&models.Product{
		ID:      "P1",
		BrandID: "brand-1",
		Name:    "Tour T-Shirt",
		Variants: []models.Variant{
			{ID: "V1", Title: "M", Price: decimal.RequireFromString("12.50"), ExternalVariantID: "ext-v1", Stock: 10},
		},
	}))

	orderService := services.NewOrderService(orderRepo, productRepo, userRepo, client, client, nil)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		// Stand-in for the JWT middleware.
		c.Locals("user_id", "user-1")
		c.Locals("username", "ada")
		return c.Next()
	})
	handlers.NewOrderHandler(orderService).RegisterRoutes(app.Group("/api/v1"))

	return &testEnv{
		app:         app,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		fulfillment: client,
	}
}

func createOrderBody() map[string]interface{} {
	return map[string]interface{}{
		"brand_id": "brand-1",
		"items": []map[string]interface{}{
			{"product_id": "P1", "variant_id": "V1", "quantity": 2},
		},
		"shipping_address": map[string]interface{}{
			"first_name": "Ada",
			"last_name":  "Lovelace",
			"address1":   "12 Analytical Way",
			"city":       "London",
			"country":    "GB",
			"zip_code":   "N1 9GU",
		},
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	decoded := make(map[string]interface{})
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	env := newTestEnv(t)

	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", createOrderBody())

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["external_order_id"])
	order, ok := body["order"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "user-1", order["user_id"])
	assert.Equal(t, "30", fmt.Sprint(order["total"]))
	assert.Equal(t, "pending", order["status"])

	// The mock platform saw exactly one submission.
	assert.Len(t, env.fulfillment.Submitted(), 1)
}

func TestOrderHandler_CreateOrder_UnknownVariant(t *testing.T) {
	env := newTestEnv(t)

	payload := createOrderBody()
	payload["items"] = []map[string]interface{}{
		{"product_id": "P1", "variant_id": "V-missing", "quantity": 1},
	}
	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", payload)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["error"], "V-missing")
	assert.Empty(t, env.fulfillment.Submitted())
}

func TestOrderHandler_CreateOrder_InvalidQuantity(t *testing.T) {
	env := newTestEnv(t)

	payload := createOrderBody()
	payload["items"] = []map[string]interface{}{
		{"product_id": "P1", "variant_id": "V1", "quantity": 0},
	}
	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", payload)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "invalid quantity")
	assert.Empty(t, env.fulfillment.Submitted())
}

func TestOrderHandler_CreateOrder_MissingAddressFields(t *testing.T) {
	env := newTestEnv(t)

	payload := createOrderBody()
	payload["shipping_address"] = map[string]interface{}{
		"first_name": "Ada",
		// last_name, address1, city, country, zip_code all missing
	}
	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", payload)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Empty(t, env.fulfillment.Submitted())
}

func TestOrderHandler_CreateOrder_ExternalSubmissionFailure(t *testing.T) {
	env := newTestEnv(t)
	env.fulfillment.SubmitErr = fmt.Errorf("platform down")

	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", createOrderBody())

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body["message"], "safe to retry")

	// Nothing was persisted locally.
	orders, err := env.orderRepo.GetByUser("user-1", 10, 0)
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderHandler_GetOrderByID(t *testing.T) {
	env := newTestEnv(t)

	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", createOrderBody())
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	orderID := body["order"].(map[string]interface{})["id"].(string)

	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, orderID, body["id"])

	resp, _ = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestOrderHandler_GetMyOrders(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", createOrderBody())
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me/orders", nil)
	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var orders []map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &orders))
	assert.Len(t, orders, 2)
}

func TestOrderHandler_UpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)

	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", createOrderBody())
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	orderID := body["order"].(map[string]interface{})["id"].(string)

	resp, body = doJSON(t, env.app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status",
		map[string]string{"status": "processing"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "processing", body["status"])

	// Skipping straight to fulfilled from a fresh pending order is illegal,
	// and so is any unknown status.
	resp, _ = doJSON(t, env.app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status",
		map[string]string{"status": "pending"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, env.app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status",
		map[string]string{"status": "shipped"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, env.app, http.MethodPatch, "/api/v1/orders/missing/status",
		map[string]string{"status": "processing"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
