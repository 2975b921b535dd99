package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/faq-backend/internal/api"
	"github.com/futig/faq-backend/internal/api/health"
	qaapi "github.com/futig/faq-backend/internal/api/qa"
	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/pkg/formatter"
	"github.com/futig/faq-backend/internal/pkg/ratelimit"
	"github.com/futig/faq-backend/internal/pkg/validator"
	"github.com/futig/faq-backend/internal/telegram"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

func load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	return cfg, logger, nil
}

// Build prepares the FAQ index and the HTTP service. The index is ready
// before Build returns, so the listener never serves without one.
// Cancelling ctx aborts the startup build.
func Build(ctx context.Context) (*App, error) {
	cfg, logger, err := load()
	if err != nil {
		return nil, err
	}
	ctx = ctxzap.ToContext(ctx, logger)

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	p, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	qaUC, err := p.answerer(ctx)
	if err != nil {
		p.close()
		return nil, fmt.Errorf("prepare index: %w", err)
	}
	logger.Info("Use cases initialized")

	// Setup API handlers
	qaHandler := qaapi.NewHandler(qaUC, formatter.NewFactory(), validator.NewValidator(cfg.DocumentCfg))
	healthHandler := health.NewHandler(cfg.AppVersion, p.llm.Model(), cfg.VectorStoreName(), cfg.EmbeddingsName())
	logger.Info("API handlers initialized")

	opts := api.RouterOptions{
		CORS:           cfg.CORSCfg,
		RequestTimeout: cfg.ServerRequestTimeout,
		TrustProxy:     cfg.TrustProxy,
	}
	if cfg.RateLimitCfg.Enabled {
		opts.Limiter = ratelimit.New(cfg.RateLimitCfg.Requests, cfg.RateLimitCfg.Window)
		logger.Info("Rate limiting enabled", zap.String("limit", opts.Limiter.Describe()))
	}

	router := api.SetupRouter(qaHandler, healthHandler, opts, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ServerRequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     p.db,
		logger: logger,
	}, nil
}

// BuildIndexOnly rebuilds and persists the FAQ index without serving it.
func BuildIndexOnly(ctx context.Context) error {
	cfg, logger, err := load()
	if err != nil {
		return err
	}
	defer logger.Sync()
	ctx = ctxzap.ToContext(ctx, logger)

	p, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer p.close()

	idx, err := p.index.BuildIndex(ctx)
	if err != nil {
		logger.Error("Index build failed", zap.Error(err))
		return err
	}

	logger.Info("Index built",
		zap.Int("segments", idx.Len()),
		zap.Int("dimension", idx.Dimension()),
		zap.String("backend", cfg.IndexCfg.Backend),
	)
	return nil
}

// TelegramApp is the Telegram front-end together with the resources it
// holds open.
type TelegramApp struct {
	Bot    telegram.Bot
	Logger *zap.Logger

	pipeline *pipeline
}

// Close releases the database pool, if any, and flushes the logger.
func (a *TelegramApp) Close() {
	a.pipeline.close()
	_ = a.Logger.Sync()
}

// BuildTelegramBot creates and initializes the Telegram bot on top of the
// same answering pipeline as the HTTP service. The caller must Close the
// result after the bot stops.
func BuildTelegramBot(ctx context.Context) (*TelegramApp, error) {
	cfg, logger, err := load()
	if err != nil {
		return nil, err
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	ctx = ctxzap.ToContext(ctx, logger)

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	p, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	qaUC, err := p.answerer(ctx)
	if err != nil {
		p.close()
		return nil, fmt.Errorf("prepare index: %w", err)
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, qaUC, formatter.NewFactory(), logger)
	if err != nil {
		p.close()
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &TelegramApp{Bot: bot, Logger: logger, pipeline: p}, nil
}
