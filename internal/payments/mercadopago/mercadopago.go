// Package mercadopago is the real payment provider: a thin client for
// the Mercado Pago v1 payments API.
package mercadopago

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"pdfstore-bot/internal/apperr"
	"pdfstore-bot/internal/payments"
)

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func New(token, baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	httpc := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetTimeout(timeout)
	return &Client{http: httpc, logger: logger}
}

func (c *Client) Name() string { return "mercadopago" }

type createBody struct {
	TransactionAmount float64 `json:"transaction_amount"`
	Description       string  `json:"description"`
	PaymentMethodID   string  `json:"payment_method_id"`
	Payer             payer   `json:"payer"`
	ExternalReference string  `json:"external_reference"`
	NotificationURL   string  `json:"notification_url,omitempty"`
}

type payer struct {
	Email string `json:"email"`
}

type createResponse struct {
	ID                 int64  `json:"id"`
	Status             string `json:"status"`
	PointOfInteraction struct {
		TransactionData struct {
			TicketURL string `json:"ticket_url"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

type paymentResponse struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

func (c *Client) CreatePayment(ctx context.Context, req payments.Request) (payments.CreatedPayment, error) {
	amount, _ := req.Amount.Float64()
	var out createResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Idempotency-Key", req.IdempotencyKey).
		SetBody(createBody{
			TransactionAmount: amount,
			Description:       req.Description,
			PaymentMethodID:   req.PaymentMethodID,
			Payer:             payer{Email: req.PayerEmail},
			ExternalReference: req.ExternalReference,
			NotificationURL:   req.NotificationURL,
		}).
		SetResult(&out).
		Post("/v1/payments")
	if err != nil {
		return payments.CreatedPayment{}, apperr.Wrap(apperr.KindTransient, fmt.Errorf("create payment: %w", err))
	}
	if resp.StatusCode() >= 500 {
		return payments.CreatedPayment{}, apperr.New(apperr.KindTransient, "create payment: provider returned %d", resp.StatusCode())
	}
	if resp.IsError() {
		c.logger.Warn("payment creation rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("external_reference", req.ExternalReference))
		return payments.CreatedPayment{}, apperr.New(apperr.KindInternal, "create payment: provider returned %d", resp.StatusCode())
	}

	link := out.PointOfInteraction.TransactionData.TicketURL
	if link == "" {
		return payments.CreatedPayment{}, apperr.New(apperr.KindInternal, "create payment: response has no ticket_url")
	}
	return payments.CreatedPayment{
		ID:          fmt.Sprintf("%d", out.ID),
		CheckoutURL: link,
	}, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (payments.Payment, error) {
	var out paymentResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", paymentID).
		SetResult(&out).
		Get("/v1/payments/{id}")
	if err != nil {
		return payments.Payment{}, apperr.Wrap(apperr.KindTransient, fmt.Errorf("get payment %s: %w", paymentID, err))
	}
	if resp.StatusCode() >= 500 {
		return payments.Payment{}, apperr.New(apperr.KindTransient, "get payment %s: provider returned %d", paymentID, resp.StatusCode())
	}
	if resp.IsError() {
		return payments.Payment{}, apperr.New(apperr.KindMalformed, "get payment %s: provider returned %d", paymentID, resp.StatusCode())
	}

	return payments.Payment{
		ID:                fmt.Sprintf("%d", out.ID),
		Status:            payments.StatusFrom(out.Status),
		ExternalReference: out.ExternalReference,
	}, nil
}
