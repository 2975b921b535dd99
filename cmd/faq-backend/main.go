package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/faq-backend/internal/builder"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := builder.Build(ctx)
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}
