package payments

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdfstore-bot/internal/catalog"
)

// Request carries everything the provider needs to register a charge.
// It lives only for the duration of the outbound call; nothing is
// persisted locally.
type Request struct {
	Amount            decimal.Decimal
	Description       string
	PaymentMethodID   string
	PayerEmail        string
	ExternalReference string
	NotificationURL   string
	IdempotencyKey    string
}

// RequestBuilder fixes the per-deployment fields of a payment request.
// The payer email is a configured constant rather than real buyer data;
// Telegram does not expose an email to attach.
type RequestBuilder struct {
	PayerEmail      string
	NotificationURL string
}

func (b RequestBuilder) Build(chatID int64, p catalog.Product) Request {
	return Request{
		Amount:            p.Price,
		Description:       fmt.Sprintf("PDF %s - %s", p.ID, p.Title),
		PaymentMethodID:   "pix",
		PayerEmail:        b.PayerEmail,
		ExternalReference: EncodeReference(chatID, p.ID),
		NotificationURL:   b.NotificationURL,
		IdempotencyKey:    uuid.NewString(),
	}
}
