package payments

import "context"

// Status is the provider-reported state of a payment. Anything the
// provider returns outside the three known values maps to StatusOther.
type Status string

const (
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
	StatusOther    Status = "other"
)

func StatusFrom(raw string) Status {
	switch raw {
	case "approved":
		return StatusApproved
	case "pending":
		return StatusPending
	case "rejected":
		return StatusRejected
	default:
		return StatusOther
	}
}

// Payment is the authoritative view fetched from the provider's lookup
// endpoint. The webhook payload is never trusted for status.
type Payment struct {
	ID                string
	Status            Status
	ExternalReference string
}

type CreatedPayment struct {
	ID          string
	CheckoutURL string
}

type Provider interface {
	Name() string

	// CreatePayment registers the charge with the provider and returns
	// the checkout link to hand back to the buyer.
	CreatePayment(ctx context.Context, req Request) (CreatedPayment, error)

	// GetPayment fetches the current status for a payment id.
	GetPayment(ctx context.Context, paymentID string) (Payment, error)
}
