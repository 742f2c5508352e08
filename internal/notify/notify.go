// Package notify delivers download links to buyers over the messaging
// channel. The send is best effort: the channel cannot tell a blocked
// bot from a network failure, so every error is treated as retryable up
// to the attempt budget.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TextSender is the messaging-channel transport, implemented by the
// Telegram app.
type TextSender interface {
	SendText(chatID int64, text string) error
}

type Notifier struct {
	sender      TextSender
	logger      *zap.Logger
	maxAttempts int
	baseBackoff time.Duration
}

func New(sender TextSender, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:      sender,
		logger:      logger,
		maxAttempts: 3,
		baseBackoff: 500 * time.Millisecond,
	}
}

// Deliver sends the download link, retrying with doubling backoff.
// Returns the last send error once the attempt budget is spent.
func (n *Notifier) Deliver(ctx context.Context, chatID int64, resourceLocator string) error {
	text := "🎉 Baixe seu PDF aqui: " + resourceLocator

	backoff := n.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = n.sender.SendText(chatID, text)
		if lastErr == nil {
			return nil
		}

		n.logger.Warn("delivery attempt failed",
			zap.Int64("chat_id", chatID),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		if attempt == n.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("deliver to %d after %d attempts: %w", chatID, n.maxAttempts, lastErr)
}
