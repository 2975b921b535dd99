package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Telegram clears a chat action after about 5 seconds.
const typingInterval = 4 * time.Second

// startTyping shows the "typing" indicator in chatID until stop is called or
// ctx is done. stop is safe to call more than once.
func startTyping(ctx context.Context, bot Sender, chatID int64, every time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	send := func() {
		if _, err := bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			ctxzap.Warn(ctx, "failed to send typing action",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
		}
	}
	send()

	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				send()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
