package webhook

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"pdfstore-bot/internal/apperr"
	"pdfstore-bot/internal/catalog"
	"pdfstore-bot/internal/payments"
)

// statusFetcher is the one provider call the handler needs. The
// notification body identifies the payment; the fetched status is the
// only status we trust.
type statusFetcher interface {
	GetPayment(ctx context.Context, paymentID string) (payments.Payment, error)
}

// Deliverer sends the download link to the buyer.
type Deliverer interface {
	Deliver(ctx context.Context, chatID int64, resourceLocator string) error
}

// Outcome classifies a handled notification. All outcomes except
// delivery errors answer the provider with 200 so it stops retrying.
type Outcome int

const (
	OutcomeDelivered Outcome = iota
	OutcomeNotApproved
	OutcomeDuplicate
	// OutcomeDiscarded is a permanent failure after a verified,
	// well-formed notification: unknown product or unusable reference.
	// Retrying would never succeed, so the provider is told all is well.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeNotApproved:
		return "not_approved"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return "discarded"
	}
}

type notification struct {
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// Handler turns a verified payment notification into at most one
// delivery. Safe for concurrent use: shared state is the read-only
// catalog and the internally locked seen set.
type Handler struct {
	provider statusFetcher
	catalog  *catalog.Catalog
	deliver  Deliverer
	seen     *SeenSet
	logger   *zap.Logger
}

func NewHandler(provider statusFetcher, cat *catalog.Catalog, deliver Deliverer, seen *SeenSet, logger *zap.Logger) *Handler {
	return &Handler{
		provider: provider,
		catalog:  cat,
		deliver:  deliver,
		seen:     seen,
		logger:   logger,
	}
}

// Handle processes the raw body of an already-verified notification.
// A non-nil error means the envelope was unusable (KindMalformed) or an
// upstream call failed (KindTransient); the payment is not marked
// handled in either case.
func (h *Handler) Handle(ctx context.Context, body []byte) (Outcome, error) {
	var n notification
	if err := json.Unmarshal(body, &n); err != nil {
		return OutcomeDiscarded, apperr.New(apperr.KindMalformed, "notification body: %v", err)
	}
	paymentID := n.Data.ID.String()
	if paymentID == "" {
		return OutcomeDiscarded, apperr.New(apperr.KindMalformed, "notification has no payment id")
	}

	pay, err := h.provider.GetPayment(ctx, paymentID)
	if err != nil {
		return OutcomeDiscarded, err
	}

	if pay.Status != payments.StatusApproved {
		h.logger.Info("payment not approved yet",
			zap.String("payment_id", paymentID),
			zap.String("status", string(pay.Status)))
		return OutcomeNotApproved, nil
	}

	requester, productID, err := payments.ParseReference(pay.ExternalReference)
	if err != nil {
		h.logger.Error("approved payment with unusable reference",
			zap.String("payment_id", paymentID),
			zap.String("external_reference", pay.ExternalReference),
			zap.Error(err))
		return OutcomeDiscarded, nil
	}
	chatID, err := strconv.ParseInt(requester, 10, 64)
	if err != nil {
		h.logger.Error("approved payment with non-numeric requester",
			zap.String("payment_id", paymentID),
			zap.String("requester", requester))
		return OutcomeDiscarded, nil
	}

	product, ok := h.catalog.Get(productID)
	if !ok {
		h.logger.Error("approved payment for unknown product",
			zap.String("payment_id", paymentID),
			zap.String("product_id", productID))
		return OutcomeDiscarded, nil
	}

	if !h.seen.MarkIfNew(paymentID) {
		h.logger.Info("duplicate notification, already delivered",
			zap.String("payment_id", paymentID))
		return OutcomeDuplicate, nil
	}

	if err := h.deliver.Deliver(ctx, chatID, product.ResourceLocator); err != nil {
		// release the mark so the provider's retry can deliver
		h.seen.Forget(paymentID)
		return OutcomeDiscarded, apperr.Wrap(apperr.KindTransient, err)
	}

	h.logger.Info("download link delivered",
		zap.String("payment_id", paymentID),
		zap.Int64("chat_id", chatID),
		zap.String("product_id", productID))
	return OutcomeDelivered, nil
}
