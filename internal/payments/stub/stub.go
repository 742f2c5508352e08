// Package stub is a local in-memory provider for development. It hands
// out a /pay/stub checkout URL served by this process; "paying" there
// flips the stored status and fires the same signed webhook a real
// provider would.
package stub

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"pdfstore-bot/internal/apperr"
	"pdfstore-bot/internal/payments"
)

type Provider struct {
	baseURL string

	mu      sync.Mutex
	created map[string]payments.Payment
}

func New(baseURL string) *Provider {
	return &Provider{
		baseURL: baseURL,
		created: map[string]payments.Payment{},
	}
}

func (p *Provider) Name() string { return "stub" }

func (p *Provider) CreatePayment(ctx context.Context, req payments.Request) (payments.CreatedPayment, error) {
	id := uuid.NewString()

	p.mu.Lock()
	p.created[id] = payments.Payment{
		ID:                id,
		Status:            payments.StatusPending,
		ExternalReference: req.ExternalReference,
	}
	p.mu.Unlock()

	url := "/pay/stub?payment_id=" + id
	if p.baseURL != "" {
		url = p.baseURL + url
	}
	return payments.CreatedPayment{ID: id, CheckoutURL: url}, nil
}

func (p *Provider) GetPayment(ctx context.Context, paymentID string) (payments.Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pay, ok := p.created[paymentID]
	if !ok {
		return payments.Payment{}, apperr.New(apperr.KindMalformed, "stub: unknown payment %s", paymentID)
	}
	return pay, nil
}

// SetStatus flips a stored payment, standing in for the buyer finishing
// (or abandoning) checkout.
func (p *Provider) SetStatus(paymentID string, status payments.Status) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pay, ok := p.created[paymentID]
	if !ok {
		return fmt.Errorf("stub: unknown payment %s", paymentID)
	}
	pay.Status = status
	p.created[paymentID] = pay
	return nil
}
