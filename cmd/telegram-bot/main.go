package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/faq-backend/internal/builder"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := builder.BuildTelegramBot(ctx)
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}
	defer app.Close()

	if err := run(ctx, app); err != nil {
		app.Logger.Error("telegram bot error", zap.Error(err))
		app.Close()
		os.Exit(1)
	}
}

// run polls for updates until ctx is cancelled, then waits for in-flight
// handlers.
func run(ctx context.Context, app *builder.TelegramApp) error {
	app.Logger.Info("starting telegram bot")
	if err := app.Bot.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	app.Logger.Info("received shutdown signal")

	if err := app.Bot.Stop(); err != nil {
		app.Logger.Error("error stopping bot", zap.Error(err))
	}
	app.Logger.Info("telegram bot stopped")
	return nil
}
