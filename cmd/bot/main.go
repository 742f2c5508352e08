package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pdfstore-bot/internal/catalog"
	"pdfstore-bot/internal/config"
	"pdfstore-bot/internal/notify"
	"pdfstore-bot/internal/payments"
	"pdfstore-bot/internal/payments/mercadopago"
	"pdfstore-bot/internal/payments/stub"
	"pdfstore-bot/internal/server"
	"pdfstore-bot/internal/tgbot"
	"pdfstore-bot/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("products", cat.Len()))

	var provider payments.Provider
	var stubProvider *stub.Provider
	switch cfg.PaymentProvider {
	case "mercadopago":
		provider = mercadopago.New(cfg.MercadoPagoToken, cfg.MercadoPagoBaseURL,
			cfg.ProviderTimeout, logger.With(zap.String("component", "mercadopago")))
	case "stub":
		stubProvider = stub.New(cfg.BasePublicURL)
		provider = stubProvider
	default:
		logger.Fatal("unknown payment provider", zap.String("provider", cfg.PaymentProvider))
	}
	logger.Info("payment provider ready", zap.String("provider", provider.Name()))

	notificationURL := ""
	if cfg.BasePublicURL != "" {
		notificationURL = cfg.BasePublicURL + "/payment_webhook"
	}
	builder := payments.RequestBuilder{
		PayerEmail:      cfg.PayerEmail,
		NotificationURL: notificationURL,
	}

	botApp, err := tgbot.New(cfg, cat, provider, builder, logger.With(zap.String("component", "tgbot")))
	if err != nil {
		logger.Fatal("telegram", zap.Error(err))
	}

	notifier := notify.New(botApp, logger.With(zap.String("component", "notify")))
	verifier := webhook.NewVerifier(cfg.PaymentWebhookSecret)
	seen := webhook.NewSeenSet(cfg.DedupTTL)
	handler := webhook.NewHandler(provider, cat, notifier, seen,
		logger.With(zap.String("component", "webhook")))

	httpSrv := server.New(cfg, verifier, handler, stubProvider,
		logger.With(zap.String("component", "server")))

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := botApp.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("bot stopped", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	cancel()
	ctxTimeout, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = httpSrv.Shutdown(ctxTimeout)

	logger.Info("bye")
}
