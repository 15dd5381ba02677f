package fulfillment

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockClient is an in-memory stand-in for the fulfillment platform, used by
// main when no API key is configured and by tests. It quotes a flat rate and
// records every submitted order.
type MockClient struct {
	FlatRate  decimal.Decimal
	NoRates   bool  // when true, CalculateShipping returns an empty list
	RateErr   error // when set, CalculateShipping fails with it
	SubmitErr error // when set, SubmitOrder fails with it

	mu        sync.Mutex
	submitted []OrderSubmission
}

// NewMockClient creates a MockClient quoting the given flat shipping rate.
func NewMockClient(flatRate decimal.Decimal) *MockClient {
	return &MockClient{FlatRate: flatRate}
}

// CalculateShipping returns a single flat rate, or nothing when NoRates is
// set.
func (m *MockClient) CalculateShipping(req RateRequest) ([]Rate, error) {
	if m.RateErr != nil {
		return nil, m.RateErr
	}
	if m.NoRates {
		return []Rate{}, nil
	}
	return []Rate{{ID: "standard", Name: "Standard", Price: m.FlatRate}}, nil
}

// SubmitOrder records the submission and returns a generated order handle.
func (m *MockClient) SubmitOrder(req OrderSubmission) (*ExternalOrder, error) {
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}
	if len(req.LineItems) == 0 {
		return nil, fmt.Errorf("order submission has no line items")
	}
	m.mu.Lock()
	m.submitted = append(m.submitted, req)
	m.mu.Unlock()
	return &ExternalOrder{ID: "ext-" + uuid.New().String(), Status: "on-hold"}, nil
}

// Submitted returns a copy of every order submitted so far.
func (m *MockClient) Submitted() []OrderSubmission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]OrderSubmission, len(m.submitted))
	copy(out, m.submitted)
	return out
}
