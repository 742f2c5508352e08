package payments

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pdfstore-bot/internal/catalog"
)

func TestRequestBuilder_Build(t *testing.T) {
	b := RequestBuilder{
		PayerEmail:      "comprador@pdfstore.local",
		NotificationURL: "https://bot.example.com/payment_webhook",
	}
	p := catalog.Product{
		ID:              "pdf3",
		Title:           "Dicas para Economizar Energia em Casa",
		ResourceLocator: "https://example.com/pdf3.pdf",
		Price:           decimal.RequireFromString("10.00"),
	}

	req := b.Build(42, p)
	require.True(t, req.Amount.Equal(p.Price))
	require.Equal(t, "pix", req.PaymentMethodID)
	require.Equal(t, "42:pdf3", req.ExternalReference)
	require.Equal(t, b.PayerEmail, req.PayerEmail)
	require.Equal(t, b.NotificationURL, req.NotificationURL)
	require.Equal(t, "PDF pdf3 - Dicas para Economizar Energia em Casa", req.Description)
	require.NotEmpty(t, req.IdempotencyKey)

	// a fresh key per request
	req2 := b.Build(42, p)
	require.NotEqual(t, req.IdempotencyKey, req2.IdempotencyKey)
}
