package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultServiceURL = "http://localhost:8000"

// ClientConfig configures the terminal client of the FAQ service.
type ClientConfig struct {
	API HTTPClientConfig `envPrefix:"FAQ_API_"`
}

// LoadClient reads the client settings. The env file is optional.
func LoadClient(environment string) (*ClientConfig, error) {
	_ = godotenv.Load(getEnvFile(environment))

	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}

	if cfg.API.Url == "" {
		cfg.API.Url = defaultServiceURL
	}
	cfg.API.Url = strings.TrimRight(cfg.API.Url, "/")

	if cfg.API.RequestTimeout <= 0 {
		return nil, fmt.Errorf("FAQ_API_TIMEOUT must be positive")
	}

	return cfg, nil
}
