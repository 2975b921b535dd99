package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/futig/faq-backend/internal/pkg/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// deliveryPolicy is used for messages the user must receive, answers and
// documents.
var deliveryPolicy = &retry.RetryConfig{
	Attempts: 3,
	Delay:    500 * time.Millisecond,
	MaxDelay: 3 * time.Second,
	Timeout:  30 * time.Second,
}

// deliver sends c and retries transient failures. Requests the Bot API
// rejected outright are not retried.
func deliver(ctx context.Context, bot Sender, c tgbotapi.Chattable, chatID int64) error {
	attempt := 0
	err := deliveryPolicy.Do(ctx, func(ctx context.Context) error {
		attempt++
		_, err := bot.Send(c)
		if err != nil && attempt < int(deliveryPolicy.Attempts) {
			ctxzap.Warn(ctx, "failed to send message, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Int64("chat_id", chatID),
			)
		}
		return err
	}, isRetryableSendError)
	if err != nil {
		ctxzap.Error(ctx, "failed to send message after all retries",
			zap.Error(err),
			zap.Int("attempts", attempt),
			zap.Int64("chat_id", chatID),
		)
		return err
	}

	if attempt > 1 {
		ctxzap.Info(ctx, "message sent after retry",
			zap.Int("attempt", attempt),
			zap.Int64("chat_id", chatID),
		)
	}
	return nil
}

func isRetryableSendError(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}
