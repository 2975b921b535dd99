package telegram

import (
	"context"
	"fmt"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/telegram/bot"
	"github.com/futig/faq-backend/internal/telegram/handlers"
	"github.com/futig/faq-backend/internal/telegram/keyboard"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes the bot and wires the FAQ handlers into it
func NewBot(
	cfg *config.TelegramConfig,
	qaUC handlers.QAUsecase,
	formatters handlers.FormatterFactory,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	if err := registerHandlers(b, cfg, qaUC, formatters, logger); err != nil {
		return nil, err
	}

	logger.Info("telegram bot initialized successfully")
	return b, nil
}

func registerHandlers(
	b *bot.Bot,
	cfg *config.TelegramConfig,
	qaUC handlers.QAUsecase,
	formatters handlers.FormatterFactory,
	logger *zap.Logger,
) error {
	api := b.API()
	answers := handlers.NewAnswerStore(cfg.AnswerTTL)

	for _, h := range []handlers.Handler{
		handlers.NewAskHandler(api, qaUC, answers, keyboard.NewBuilder(), logger),
		handlers.NewDownloadHandler(api, formatters, answers, logger),
	} {
		if err := b.RegisterHandler(h); err != nil {
			return fmt.Errorf("register %s handler: %w", h.Kind(), err)
		}
	}

	logger.Info("telegram handlers registered", zap.Int("handler_count", 2))
	return nil
}
