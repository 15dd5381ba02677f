package fulfillment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/pkg/fulfillment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *fulfillment.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := fulfillment.NewClient(fulfillment.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		ShopID:  "shop-1",
	})
	return server, client
}

func TestClient_CalculateShipping(t *testing.T) {
	var gotAuth string
	var gotPath string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req fulfillment.RateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.LineItems, 1)
		assert.Equal(t, "ext-v1", req.LineItems[0].ExternalVariantID)
		assert.Equal(t, "GB", req.AddressTo.Country)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates":[{"id":"standard","name":"Standard","price":"5.00"},{"id":"express","name":"Express","price":"15.00"}]}`))
	})

	rates, err := client.CalculateShipping(fulfillment.RateRequest{
		LineItems: []fulfillment.LineItem{{ExternalVariantID: "ext-v1", Quantity: 2}},
		AddressTo: fulfillment.RateAddress{City: "London", Country: "GB", Zip: "N1 9GU"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/shops/shop-1/shipping/rates", gotPath)
	assert.Len(t, rates, 2)
	// Provider preference order is preserved: the first rate is the one the
	// order service will charge.
	assert.Equal(t, "standard", rates[0].ID)
	assert.True(t, decimal.RequireFromString("5.00").Equal(rates[0].Price))
}

func TestClient_CalculateShipping_EmptyRates(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":[]}`))
	})

	rates, err := client.CalculateShipping(fulfillment.RateRequest{})
	assert.NoError(t, err)
	assert.Empty(t, rates)
}

func TestClient_SubmitOrder(t *testing.T) {
	var gotPath string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var req fulfillment.OrderSubmission
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ada", req.AddressTo.FirstName)
		assert.Len(t, req.LineItems, 1)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"ext-order-1","status":"on-hold"}`))
	})

	order, err := client.SubmitOrder(fulfillment.OrderSubmission{
		LineItems: []fulfillment.LineItem{{ExternalVariantID: "ext-v1", Quantity: 2}},
		Customer:  fulfillment.Customer{FirstName: "Ada", LastName: "Lovelace"},
		AddressTo: fulfillment.SubmissionAddress{FirstName: "Ada", LastName: "Lovelace", Address1: "12 Analytical Way", City: "London", Country: "GB", Zip: "N1 9GU"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "/shops/shop-1/orders", gotPath)
	assert.Equal(t, "ext-order-1", order.ID)
	assert.Equal(t, "on-hold", order.Status)
}

func TestClient_SubmitOrder_PlatformError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"variant ext-v1 is discontinued"}`))
	})

	order, err := client.SubmitOrder(fulfillment.OrderSubmission{
		LineItems: []fulfillment.LineItem{{ExternalVariantID: "ext-v1", Quantity: 1}},
	})

	assert.Nil(t, order)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "discontinued")
}

func TestClient_SubmitOrder_MissingID(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"on-hold"}`))
	})

	order, err := client.SubmitOrder(fulfillment.OrderSubmission{
		LineItems: []fulfillment.LineItem{{ExternalVariantID: "ext-v1", Quantity: 1}},
	})

	assert.Nil(t, order)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "without an id")
}

func TestMockClient(t *testing.T) {
	client := fulfillment.NewMockClient(decimal.RequireFromString("4.99"))

	rates, err := client.CalculateShipping(fulfillment.RateRequest{})
	assert.NoError(t, err)
	assert.Len(t, rates, 1)
	assert.True(t, decimal.RequireFromString("4.99").Equal(rates[0].Price))

	client.NoRates = true
	rates, err = client.CalculateShipping(fulfillment.RateRequest{})
	assert.NoError(t, err)
	assert.Empty(t, rates)

	order, err := client.SubmitOrder(fulfillment.OrderSubmission{
		LineItems: []fulfillment.LineItem{{ExternalVariantID: "ext-v1", Quantity: 1}},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Len(t, client.Submitted(), 1)
}
