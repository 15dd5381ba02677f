package services

import "fmt"

// Order-creation failure classes. Each class gets its own type so callers can
// tell validation failures (safe to reject, nothing happened), external
// dependency failures (nothing written locally, safe to retry the whole
// call), and post-submission persistence failures (external order exists,
// local record does not) apart with errors.As.

// ProductNotFoundError means a requested product id does not exist in the
// catalog. No external call has been made.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// VariantNotFoundError means a requested variant does not belong to its
// product. No external call has been made.
type VariantNotFoundError struct {
	ProductID string
	VariantID string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variant %s not found on product %s", e.VariantID, e.ProductID)
}

// InvalidQuantityError means a line item carried a zero or negative quantity.
// No external call has been made.
type InvalidQuantityError struct {
	ProductID string
	VariantID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for variant %s of product %s", e.Quantity, e.VariantID, e.ProductID)
}

// ShippingRateError means the shipping-rate call to the fulfillment platform
// failed (as opposed to returning no rates, which is the documented
// zero-cost fallback). Nothing has been written locally or submitted.
type ShippingRateError struct {
	Err error
}

func (e *ShippingRateError) Error() string {
	return fmt.Sprintf("shipping rate calculation failed: %v", e.Err)
}

func (e *ShippingRateError) Unwrap() error { return e.Err }

// ExternalSubmissionError means the order could not be created on the
// fulfillment platform. Nothing has been written locally, so the whole
// createOrder call can be retried.
type ExternalSubmissionError struct {
	Err error
}

func (e *ExternalSubmissionError) Error() string {
	return fmt.Sprintf("external order submission failed: %v", e.Err)
}

func (e *ExternalSubmissionError) Unwrap() error { return e.Err }

// PersistenceError means the external platform accepted the order but the
// local write failed. ExternalOrderID carries the platform's order handle so
// an operator (or a retry of the local write alone) can reconcile without
// submitting the order externally a second time.
type PersistenceError struct {
	ExternalOrderID string
	Err             error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persisted externally as %s but local persistence failed: %v", e.ExternalOrderID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// InvalidStatusTransitionError means an order status update asked for a move
// the lifecycle does not allow.
type InvalidStatusTransitionError struct {
	From string
	To   string
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order status from %s to %s", e.From, e.To)
}
