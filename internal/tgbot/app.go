// Package tgbot is the buyer-facing surface: the /start menu of PDFs
// and the checkout-link reply. It also implements notify.TextSender, so
// the webhook side delivers download links through the same bot.
package tgbot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pdfstore-bot/internal/catalog"
	"pdfstore-bot/internal/config"
	"pdfstore-bot/internal/payments"
)

const buyPrefix = "buy:"

type App struct {
	cfg     config.Config
	bot     *tgbotapi.BotAPI
	catalog *catalog.Catalog
	pay     payments.Provider
	builder payments.RequestBuilder
	logger  *zap.Logger
}

func New(cfg config.Config, cat *catalog.Catalog, pay payments.Provider, builder payments.RequestBuilder, logger *zap.Logger) (*App, error) {
	b, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	b.Debug = false
	return &App{
		cfg:     cfg,
		bot:     b,
		catalog: cat,
		pay:     pay,
		builder: builder,
		logger:  logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				if err := a.handleMessage(ctx, upd.Message); err != nil {
					a.logger.Error("handle message", zap.Error(err))
				}
			} else if upd.CallbackQuery != nil {
				if err := a.handleCallback(ctx, upd.CallbackQuery); err != nil {
					a.logger.Error("handle callback", zap.Error(err))
				}
			}
		}
	}
}

func (a *App) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := a.bot.Send(msg)
	return err
}

func (a *App) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	chatID := m.Chat.ID
	txt := strings.TrimSpace(m.Text)

	if strings.HasPrefix(txt, "/start") {
		return a.showMenu(chatID)
	}
	return a.SendText(chatID, "Envie /start para ver os PDFs disponíveis.")
}

func (a *App) showMenu(chatID int64) error {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range a.catalog.List() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Title, buyPrefix+p.ID),
		))
	}

	msg := tgbotapi.NewMessage(chatID, "Escolha um PDF:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := a.bot.Send(msg)
	return err
}

func (a *App) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	chatID := q.From.ID
	data := q.Data

	// ack, so the client stops the spinner
	cb := tgbotapi.NewCallback(q.ID, "")
	_, _ = a.bot.Request(cb)

	if strings.HasPrefix(data, buyPrefix) {
		return a.startPayment(ctx, chatID, strings.TrimPrefix(data, buyPrefix))
	}
	return nil
}

func (a *App) startPayment(ctx context.Context, chatID int64, productID string) error {
	product, ok := a.catalog.Get(productID)
	if !ok {
		a.logger.Warn("callback for unknown product",
			zap.Int64("chat_id", chatID),
			zap.String("product_id", productID))
		return a.SendText(chatID, "Esse PDF não está mais disponível. Envie /start para ver o menu.")
	}

	req := a.builder.Build(chatID, product)
	created, err := a.pay.CreatePayment(ctx, req)
	if err != nil {
		a.logger.Error("payment creation failed",
			zap.Int64("chat_id", chatID),
			zap.String("product_id", productID),
			zap.Error(err))
		return a.SendText(chatID, "❌ Erro ao gerar o link. Tente novamente.")
	}

	a.logger.Info("payment created",
		zap.Int64("chat_id", chatID),
		zap.String("product_id", productID),
		zap.String("payment_id", created.ID))

	return a.SendText(chatID,
		"✅ Pague aqui: "+created.CheckoutURL+
			"\n\nApós a confirmação do pagamento, o link de download chega automaticamente por aqui.")
}
