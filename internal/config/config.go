package config

import (
    "fmt"
    "os"
    "strings"
    "time"
)

type Config struct {
    TelegramToken string

    PaymentProvider     string
    MercadoPagoToken    string
    MercadoPagoBaseURL  string
    PaymentWebhookSecret string

    PayerEmail  string
    CatalogPath string

    HTTPAddr      string
    BasePublicURL string

    ProviderTimeout time.Duration
    DedupTTL        time.Duration
}

func FromEnv() (Config, error) {
    var c Config
    c.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

    c.PaymentProvider = strings.TrimSpace(os.Getenv("PAYMENT_PROVIDER"))
    if c.PaymentProvider == "" {
        c.PaymentProvider = "stub"
    }
    c.MercadoPagoToken = strings.TrimSpace(os.Getenv("MERCADO_PAGO_TOKEN"))
    c.MercadoPagoBaseURL = getEnvOrDefault("MERCADO_PAGO_BASE_URL", "https://api.mercadopago.com")
    c.PaymentWebhookSecret = strings.TrimSpace(os.Getenv("PAYMENT_WEBHOOK_SECRET"))

    c.PayerEmail = getEnvOrDefault("PAYER_EMAIL", "comprador@pdfstore.local")
    c.CatalogPath = strings.TrimSpace(os.Getenv("CATALOG_PATH"))

    c.HTTPAddr = getEnvOrDefault("HTTP_ADDR", ":8080")
    c.BasePublicURL = strings.TrimRight(strings.TrimSpace(os.Getenv("BASE_PUBLIC_URL")), "/")

    c.ProviderTimeout = getEnvAsDuration("PROVIDER_TIMEOUT", 10*time.Second)
    c.DedupTTL = getEnvAsDuration("DEDUP_TTL", 24*time.Hour)

    if c.TelegramToken == "" {
        return c, fmt.Errorf("TELEGRAM_BOT_TOKEN is empty")
    }
    if c.PaymentProvider == "mercadopago" && c.MercadoPagoToken == "" {
        return c, fmt.Errorf("MERCADO_PAGO_TOKEN is empty")
    }
    if c.PaymentWebhookSecret == "" {
        // the signing key must stay private to this service and the
        // provider; a guessable fallback would gut signature checks
        if c.PaymentProvider == "mercadopago" {
            return c, fmt.Errorf("PAYMENT_WEBHOOK_SECRET is empty")
        }
        c.PaymentWebhookSecret = "change-me"
    }

    return c, nil
}

func getEnvOrDefault(key, defaultValue string) string {
    if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
        return strings.TrimSpace(value)
    }
    return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
    valueStr := getEnvOrDefault(key, defaultValue.String())
    if value, err := time.ParseDuration(valueStr); err == nil {
        return value
    }
    return defaultValue
}
