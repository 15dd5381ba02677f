package fulfillment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one line of a shipping-rate request or order submission,
// addressed by the variant id the fulfillment platform knows.
type LineItem struct {
	ExternalVariantID string `json:"variant_id"`
	Quantity          int    `json:"quantity"`
}

// RateAddress is the destination subset the rate API needs. Street lines are
// not required for quoting.
type RateAddress struct {
	City    string `json:"city"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
}

// RateRequest asks the platform for shipping rates for a set of line items
// to one destination.
type RateRequest struct {
	LineItems []LineItem  `json:"line_items"`
	AddressTo RateAddress `json:"address_to"`
}

// Rate is one candidate shipping rate, in the platform's preference order.
type Rate struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// SubmissionAddress is the full shipping address sent with an order.
type SubmissionAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Region    string `json:"region,omitempty"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone,omitempty"`
}

// Customer is the minimal purchaser identity the platform requires.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// OrderSubmission is the payload for creating an order on the platform.
type OrderSubmission struct {
	ExternalReference string            `json:"external_id,omitempty"`
	LineItems         []LineItem        `json:"line_items"`
	Customer          Customer          `json:"customer"`
	AddressTo         SubmissionAddress `json:"address_to"`
}

// ExternalOrder is the platform-side record returned for a submitted order.
type ExternalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ShippingRateResolver quotes shipping for a cart. The returned slice keeps
// the platform's preference order and may be empty.
type ShippingRateResolver interface {
	CalculateShipping(req RateRequest) ([]Rate, error)
}

// OrderSubmitter creates an order on the fulfillment platform. Failures
// propagate to the caller; this layer does not retry.
type OrderSubmitter interface {
	SubmitOrder(req OrderSubmission) (*ExternalOrder, error)
}

// Config holds fulfillment platform connection details.
type Config struct {
	BaseURL string
	APIKey  string
	ShopID  string
	Timeout time.Duration
}

// Client is an HTTP client for the fulfillment platform. It implements both
// ShippingRateResolver and OrderSubmitter.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new fulfillment platform client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CalculateShipping requests shipping rates for the given line items and
// destination.
func (c *Client) CalculateShipping(req RateRequest) ([]Rate, error) {
	var resp struct {
		Rates []Rate `json:"rates"`
	}
	if err := c.post(fmt.Sprintf("/shops/%s/shipping/rates", c.cfg.ShopID), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to calculate shipping rates: %w", err)
	}
	return resp.Rates, nil
}

// SubmitOrder creates an order on the fulfillment platform and returns the
// platform's order record.
func (c *Client) SubmitOrder(req OrderSubmission) (*ExternalOrder, error) {
	var resp ExternalOrder
	if err := c.post(fmt.Sprintf("/shops/%s/orders", c.cfg.ShopID), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("fulfillment platform returned an order without an id")
	}
	return &resp, nil
}

// post performs an authenticated JSON POST and decodes the response into out.
func (c *Client) post(path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded amount of the body for the error message.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request to %s returned status %d: %s", path, resp.StatusCode, string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
