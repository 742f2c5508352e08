package server

import (
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pdfstore-bot/internal/apperr"
	"pdfstore-bot/internal/config"
	"pdfstore-bot/internal/payments"
	"pdfstore-bot/internal/payments/stub"
	"pdfstore-bot/internal/util"
	"pdfstore-bot/internal/webhook"
)

const maxBodyBytes = 64 << 10

// New wires the webhook HTTP surface. stubProvider is non-nil only in
// stub mode and adds the local checkout page.
func New(cfg config.Config, verifier *webhook.Verifier, handler *webhook.Handler, stubProvider *stub.Provider, logger *zap.Logger) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	s := &routes{
		cfg:      cfg,
		verifier: verifier,
		handler:  handler,
		stub:     stubProvider,
		logger:   logger,
	}

	r.Post("/payment_webhook", s.handleWebhook)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if stubProvider != nil {
		r.Get("/pay/stub", s.handleStubPage)
		r.Post("/pay/stub/confirm", s.handleStubConfirm)
	}

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

type routes struct {
	cfg      config.Config
	verifier *webhook.Verifier
	handler  *webhook.Handler
	stub     *stub.Provider
	logger   *zap.Logger
}

func (s *routes) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "unreadable body"})
		return
	}

	if !s.verifier.Verify(body, r.Header.Get("X-Signature")) {
		s.logger.Warn("webhook signature rejected",
			zap.String("request_id", middleware.GetReqID(r.Context())))
		writeJSON(w, http.StatusForbidden, map[string]any{"ok": false, "error": "invalid signature"})
		return
	}

	outcome, err := s.handler.Handle(r.Context(), body)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindMalformed:
			s.logger.Warn("webhook rejected", zap.Error(err))
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "malformed notification"})
		case apperr.KindTransient:
			// 5xx tells the provider to retry the whole notification
			s.logger.Error("webhook processing failed upstream", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]any{"ok": false, "error": "upstream unavailable"})
		default:
			s.logger.Error("webhook processing failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"outcome": outcome.String(),
		"ts":      util.NowISO(),
	})
}

// handleStubPage shows a minimal checkout for the stub provider: a Pay
// and a Cancel button that post back to /pay/stub/confirm.
func (s *routes) handleStubPage(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("payment_id")
	if paymentID == "" {
		http.Error(w, "payment_id required", http.StatusBadRequest)
		return
	}
	escaped := template.HTMLEscapeString(paymentID)

	html := `<!doctype html><html><head><meta charset="utf-8"><title>Stub Pay</title></head><body>
<h2>Pagamento (provedor de teste)</h2>
<p>Payment: ` + escaped + `</p>
<form method="post" action="/pay/stub/confirm">
<input type="hidden" name="payment_id" value="` + escaped + `">
<button name="status" value="approved">Pagar</button>
<button name="status" value="rejected">Cancelar</button>
</form>
</body></html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// handleStubConfirm flips the stub payment's status and then runs the
// notification through the exact same verify-and-handle path a real
// provider webhook takes.
func (s *routes) handleStubConfirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	paymentID := r.PostForm.Get("payment_id")
	status := payments.StatusFrom(r.PostForm.Get("status"))
	if paymentID == "" {
		http.Error(w, "payment_id required", http.StatusBadRequest)
		return
	}

	if err := s.stub.SetStatus(paymentID, status); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	body, _ := json.Marshal(map[string]any{"data": map[string]string{"id": paymentID}})
	if !s.verifier.Verify(body, util.HMACSHA256Hex(s.cfg.PaymentWebhookSecret, body)) {
		http.Error(w, "stub signature mismatch", http.StatusInternalServerError)
		return
	}

	outcome, err := s.handler.Handle(r.Context(), body)
	if err != nil {
		s.logger.Error("stub confirm failed", zap.Error(err))
		http.Error(w, "confirmation failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "outcome": outcome.String()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
