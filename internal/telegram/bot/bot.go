package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/pkg/ratelimit"
	"github.com/futig/faq-backend/internal/telegram/handlers"
	"github.com/futig/faq-backend/internal/telegram/middleware"
	"github.com/futig/faq-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const rateLimitWarningInterval = 30 * time.Second

// API is the subset of *tgbotapi.BotAPI the bot needs.
type API interface {
	handlers.Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot represents the Telegram bot
type Bot struct {
	api         API
	cfg         *config.TelegramConfig
	handlers    map[string]handlers.Handler
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// New authorizes against the Bot API and creates the bot
func New(cfg *config.TelegramConfig, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return NewWithAPI(cfg, api, logger), nil
}

// NewWithAPI creates the bot on top of an already authorized API
func NewWithAPI(cfg *config.TelegramConfig, api API, logger *zap.Logger) *Bot {
	limiter := ratelimit.New(cfg.RateLimitPerMinute, time.Minute)

	return &Bot{
		api:         api,
		cfg:         cfg,
		handlers:    make(map[string]handlers.Handler),
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(limiter, rateLimitWarningInterval, logger, api),
		stopChan:    make(chan struct{}),
	}
}

// API returns the Bot API client the bot talks to
func (b *Bot) API() API {
	return b.api
}

// RegisterHandler routes updates of the handler's kind to it
func (b *Bot) RegisterHandler(h handlers.Handler) error {
	if !handlers.IsValidKind(h.Kind()) {
		return fmt.Errorf("unknown handler kind %q", h.Kind())
	}
	b.handlers[h.Kind()] = h
	return nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.HandleUpdate(ctx, u)
			}(update)
		}
	}
}

// HandleUpdate runs one update through rate limiting, logging and panic
// recovery before routing it.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.route(ctx, u3)
			})
		})
	})
}

func (b *Bot) route(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Text == "" {
		b.sendMessage(chatID, render.MsgTextOnly, nil)
		return
	}

	var userID int64
	if message.From != nil {
		userID = message.From.ID
	}

	b.dispatch(ctx, handlers.HandlerKindText, &handlers.Message{
		ChatID:    chatID,
		UserID:    userID,
		MessageID: message.MessageID,
		Text:      message.Text,
	})
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	ctxzap.Info(ctx, "command received", zap.String("command", command))

	switch command {
	case "start":
		b.sendMessage(message.Chat.ID, render.MsgWelcome, nil)
	case "help":
		b.sendMessage(message.Chat.ID, render.MsgHelp, nil)
	default:
		b.sendMessage(message.Chat.ID, render.MsgUnknownCommand, nil)
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		ctxzap.Warn(ctx, "callback without message", zap.String("data", query.Data))
		return
	}

	b.dispatch(ctx, handlers.HandlerKindCallback, &handlers.Message{
		ChatID:       query.Message.Chat.ID,
		UserID:       query.From.ID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	})
}

func (b *Bot) dispatch(ctx context.Context, kind string, msg *handlers.Message) {
	handler, ok := b.handlers[kind]
	if !ok {
		ctxzap.Warn(ctx, "no handler registered", zap.String("kind", kind))
		b.sendMessage(msg.ChatID, render.ErrGeneric, nil)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.AnswerTimeout)
	defer cancel()

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("kind", kind),
			zap.Int64("user_id", msg.UserID),
		)
		b.sendMessage(msg.ChatID, render.ErrGeneric, nil)
	}
}

func (b *Bot) sendMessage(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
