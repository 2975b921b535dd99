// Command faq-tui is a terminal client for the FAQ service.
package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/integration/faqapi"
	"github.com/futig/faq-backend/internal/tui"
	"go.uber.org/zap"
)

func main() {
	envName := flag.String("env", "local", "Environment whose .env file is read")
	url := flag.String("url", "", "FAQ service base URL (overrides FAQ_API_SERVICE_URL)")
	flag.Parse()

	cfg, err := config.LoadClient(*envName)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *url != "" {
		cfg.API.Url = *url
	}

	client := faqapi.NewConnector(cfg.API, zap.NewNop())
	model := tui.New(client, cfg.API.Url, cfg.API.RequestTimeout+5*time.Second)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
