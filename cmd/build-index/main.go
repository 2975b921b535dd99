// Command build-index rebuilds the persisted FAQ index from the configured
// document and exits.
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

	if err := builder.BuildIndexOnly(ctx); err != nil {
		log.Fatal("Failed to build index:", err)
	}
}
