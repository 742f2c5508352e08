package mercadopago_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pdfstore-bot/internal/apperr"
	"pdfstore-bot/internal/payments"
	"pdfstore-bot/internal/payments/mercadopago"
)

func testRequest() payments.Request {
	return payments.Request{
		Amount:            decimal.RequireFromString("10.00"),
		Description:       "PDF pdf1",
		PaymentMethodID:   "pix",
		PayerEmail:        "comprador@pdfstore.local",
		ExternalReference: "42:pdf1",
		NotificationURL:   "https://bot.example.com/payment_webhook",
		IdempotencyKey:    "key-1",
	}
}

func TestCreatePayment_HappyPath(t *testing.T) {
	var gotBody map[string]any
	var gotIdem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payments", r.URL.Path)
		require.Equal(t, "Bearer mp-token", r.Header.Get("Authorization"))
		gotIdem = r.Header.Get("X-Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 123456,
			"status": "pending",
			"point_of_interaction": {"transaction_data": {"ticket_url": "https://mp.example.com/ticket/123456"}}
		}`))
	}))
	defer srv.Close()

	c := mercadopago.New("mp-token", srv.URL, 5*time.Second, zap.NewNop())
	created, err := c.CreatePayment(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, "123456", created.ID)
	require.Equal(t, "https://mp.example.com/ticket/123456", created.CheckoutURL)

	require.Equal(t, "key-1", gotIdem)
	require.Equal(t, "42:pdf1", gotBody["external_reference"])
	require.Equal(t, "pix", gotBody["payment_method_id"])
	require.Equal(t, 10.00, gotBody["transaction_amount"])
}

func TestCreatePayment_ClientErrorIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid payer"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := mercadopago.New("mp-token", srv.URL, 5*time.Second, zap.NewNop())
	_, err := c.CreatePayment(context.Background(), testRequest())
	require.Error(t, err)
	require.False(t, apperr.IsTransient(err))
}

func TestCreatePayment_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := mercadopago.New("mp-token", srv.URL, 5*time.Second, zap.NewNop())
	_, err := c.CreatePayment(context.Background(), testRequest())
	require.True(t, apperr.IsTransient(err))
}

func TestCreatePayment_NetworkErrorIsTransient(t *testing.T) {
	c := mercadopago.New("mp-token", "http://127.0.0.1:1", 500*time.Millisecond, zap.NewNop())
	_, err := c.CreatePayment(context.Background(), testRequest())
	require.True(t, apperr.IsTransient(err))
}

func TestGetPayment_MapsStatusAndReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/987", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 987, "status": "approved", "external_reference": "7:pdf1"}`))
	}))
	defer srv.Close()

	c := mercadopago.New("mp-token", srv.URL, 5*time.Second, zap.NewNop())
	p, err := c.GetPayment(context.Background(), "987")
	require.NoError(t, err)
	require.Equal(t, payments.StatusApproved, p.Status)
	require.Equal(t, "7:pdf1", p.ExternalReference)
	require.Equal(t, "987", p.ID)
}

func TestGetPayment_UnknownStatusMapsToOther(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "status": "in_mediation", "external_reference": "7:pdf1"}`))
	}))
	defer srv.Close()

	c := mercadopago.New("mp-token", srv.URL, 5*time.Second, zap.NewNop())
	p, err := c.GetPayment(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, payments.StatusOther, p.Status)
}

func TestGetPayment_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := mercadopago.New("mp-token", srv.URL, 5*time.Second, zap.NewNop())
	_, err := c.GetPayment(context.Background(), "1")
	require.True(t, apperr.IsTransient(err))
}
