package config

import (
	"flag"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/faq-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	IndexBackendSQLite   = "sqlite"
	IndexBackendPostgres = "postgres"

	IndexModeMemory = "memory"
	IndexModeDisk   = "disk"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr           string        `env:"SERVER_ADDR" envDefault:":8000"`
	ServerRequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
	AppVersion           string        `env:"APP_VERSION" envDefault:"1.1.0"`

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool `env:"SERVER_TRUST_PROXY" envDefault:"false"`

	// Source document and splitting
	DocumentCfg DocumentConfig `envPrefix:"DOCUMENT_"`

	// Vector index storage
	IndexCfg IndexConfig `envPrefix:"INDEX_"`

	// Database configuration (postgres index backend only)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBMigrationsSource  string        `env:"DB_MIGRATIONS_SOURCE"`

	// External service configurations
	OpenAIAPIKey          string                   `env:"OPENAI_API_KEY"`
	EmbeddingConnectorCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`
	LLMConnectorCfg       LLMConnectorConfig       `envPrefix:"LLM_"`

	// Retrieval
	RetrievalTopK int `env:"RETRIEVAL_TOP_K" envDefault:"3"`

	// HTTP edge
	CORSCfg      CORSConfig      `envPrefix:"CORS_"`
	RateLimitCfg RateLimitConfig `envPrefix:"RATE_LIMIT_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

type DocumentConfig struct {
	Path         string `env:"PATH" envDefault:"app/faqs/custom_faq.pdf"`
	ChunkSize    int    `env:"CHUNK_SIZE" envDefault:"4000"`
	ChunkOverlap int    `env:"CHUNK_OVERLAP" envDefault:"200"`
}

type IndexConfig struct {
	Backend        string `env:"BACKEND" envDefault:"sqlite"`
	Dir            string `env:"DIR" envDefault:"app/vector_store/faq_index"`
	Mode           string `env:"MODE" envDefault:"memory"`
	BuildOnStartup bool   `env:"BUILD_ON_STARTUP" envDefault:"true"`
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	Model       string               `env:"MODEL" envDefault:"text-embedding-ada-002"`
	BatchSize   int                  `env:"BATCH_SIZE" envDefault:"64"`
	Concurrency int                  `env:"CONCURRENCY" envDefault:"4"`
	Retry       pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Model     string               `env:"MODEL" envDefault:"gpt-3.5-turbo-instruct"`
	MaxTokens int                  `env:"MAX_TOKENS" envDefault:"500"`
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5000,https://flask-chatbot-demo-569055f8644e.herokuapp.com,https://nekosaif.com"`
	MaxAge         int      `env:"MAX_AGE" envDefault:"600"`
}

type RateLimitConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Requests int           `env:"REQUESTS" envDefault:"10"`
	Window   time.Duration `env:"WINDOW" envDefault:"1m"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds

	// AnswerTimeout bounds a single question, AnswerTTL is how long the
	// last answer of a chat stays downloadable.
	AnswerTimeout time.Duration `env:"ANSWER_TIMEOUT" envDefault:"60s"`
	AnswerTTL     time.Duration `env:"ANSWER_TTL" envDefault:"1h"`
}

// LoadConfig reads the -env flag and loads configuration for that environment.
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load loads the env file of the given environment (if present) on top of
// the process environment and validates the result.
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	cfg.CORSCfg.AllowedOrigins = normalizeOrigins(cfg.CORSCfg.AllowedOrigins)

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// APIToken returns the bearer token for a connector, falling back to
// OPENAI_API_KEY.
func (c *Config) APIToken(client HTTPClientConfig) string {
	if client.Token != "" {
		return client.Token
	}
	return c.OpenAIAPIKey
}

// VectorStoreName is reported by the health endpoint.
func (c *Config) VectorStoreName() string {
	if c.IndexCfg.Backend == IndexBackendPostgres {
		return "pgvector"
	}
	return "SQLite"
}

// EmbeddingsName is reported by the health endpoint.
func (c *Config) EmbeddingsName() string {
	if c.EnableMocks {
		return "Mock"
	}
	return "OpenAI"
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel))
	}

	if cfg.ServerRequestTimeout <= 0 {
		errors = append(errors, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Validate document configuration
	if cfg.DocumentCfg.Path == "" {
		errors = append(errors, "DOCUMENT_PATH must not be empty")
	}

	if cfg.DocumentCfg.ChunkSize < 100 || cfg.DocumentCfg.ChunkSize > 100000 {
		errors = append(errors, fmt.Sprintf("DOCUMENT_CHUNK_SIZE must be between 100 and 100000, got %d", cfg.DocumentCfg.ChunkSize))
	}

	if cfg.DocumentCfg.ChunkOverlap < 0 || cfg.DocumentCfg.ChunkOverlap >= cfg.DocumentCfg.ChunkSize {
		errors = append(errors, fmt.Sprintf("DOCUMENT_CHUNK_OVERLAP must be between 0 and DOCUMENT_CHUNK_SIZE(%d), got %d", cfg.DocumentCfg.ChunkSize, cfg.DocumentCfg.ChunkOverlap))
	}

	// Validate index configuration
	switch cfg.IndexCfg.Backend {
	case IndexBackendSQLite:
		if cfg.IndexCfg.Dir == "" {
			errors = append(errors, "INDEX_DIR must not be empty for the sqlite backend")
		}
	case IndexBackendPostgres:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL must be set for the postgres backend")
		}
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	default:
		errors = append(errors, fmt.Sprintf("INDEX_BACKEND must be one of sqlite, postgres, got %q", cfg.IndexCfg.Backend))
	}

	switch cfg.IndexCfg.Mode {
	case IndexModeMemory, IndexModeDisk:
	default:
		errors = append(errors, fmt.Sprintf("INDEX_MODE must be one of memory, disk, got %q", cfg.IndexCfg.Mode))
	}

	// Validate provider configuration
	if !cfg.EnableMocks {
		if cfg.APIToken(cfg.EmbeddingConnectorCfg.HTTPClientConfig) == "" {
			errors = append(errors, "OPENAI_API_KEY or EMBEDDING_TOKEN must be set unless ENABLE_MOCKS is true")
		}
		if cfg.APIToken(cfg.LLMConnectorCfg.HTTPClientConfig) == "" {
			errors = append(errors, "OPENAI_API_KEY or LLM_TOKEN must be set unless ENABLE_MOCKS is true")
		}
	}

	if cfg.EmbeddingConnectorCfg.Model == "" {
		errors = append(errors, "EMBEDDING_MODEL must not be empty")
	}

	if cfg.EmbeddingConnectorCfg.BatchSize < 1 || cfg.EmbeddingConnectorCfg.BatchSize > 2048 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_BATCH_SIZE must be between 1 and 2048, got %d", cfg.EmbeddingConnectorCfg.BatchSize))
	}

	if cfg.EmbeddingConnectorCfg.Concurrency < 1 || cfg.EmbeddingConnectorCfg.Concurrency > 32 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_CONCURRENCY must be between 1 and 32, got %d", cfg.EmbeddingConnectorCfg.Concurrency))
	}

	if cfg.LLMConnectorCfg.Model == "" {
		errors = append(errors, "LLM_MODEL must not be empty")
	}

	if cfg.LLMConnectorCfg.MaxTokens < 1 || cfg.LLMConnectorCfg.MaxTokens > 4096 {
		errors = append(errors, fmt.Sprintf("LLM_MAX_TOKENS must be between 1 and 4096, got %d", cfg.LLMConnectorCfg.MaxTokens))
	}

	// retry-go treats zero attempts as "retry forever"
	if cfg.EmbeddingConnectorCfg.Retry.Attempts < 1 || cfg.EmbeddingConnectorCfg.Retry.Attempts > 10 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_RETRY_ATTEMPTS must be between 1 and 10, got %d", cfg.EmbeddingConnectorCfg.Retry.Attempts))
	}

	if cfg.LLMConnectorCfg.Retry.Attempts < 1 || cfg.LLMConnectorCfg.Retry.Attempts > 10 {
		errors = append(errors, fmt.Sprintf("LLM_RETRY_ATTEMPTS must be between 1 and 10, got %d", cfg.LLMConnectorCfg.Retry.Attempts))
	}

	if cfg.RetrievalTopK < 1 || cfg.RetrievalTopK > 50 {
		errors = append(errors, fmt.Sprintf("RETRIEVAL_TOP_K must be between 1 and 50, got %d", cfg.RetrievalTopK))
	}

	// Validate HTTP edge configuration
	if len(cfg.CORSCfg.AllowedOrigins) == 0 {
		errors = append(errors, "CORS_ALLOWED_ORIGINS must contain at least one origin")
	}
	for _, origin := range cfg.CORSCfg.AllowedOrigins {
		if origin == "*" {
			errors = append(errors, "CORS_ALLOWED_ORIGINS must not contain a wildcard when credentials are allowed")
		}
	}

	if cfg.CORSCfg.MaxAge < 0 {
		errors = append(errors, fmt.Sprintf("CORS_MAX_AGE must not be negative, got %d", cfg.CORSCfg.MaxAge))
	}

	if cfg.RateLimitCfg.Requests < 1 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_REQUESTS must be positive, got %d", cfg.RateLimitCfg.Requests))
	}

	if cfg.RateLimitCfg.Window <= 0 {
		errors = append(errors, "RATE_LIMIT_WINDOW must be positive")
	}

	// Validate Telegram configuration
	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if cfg.TelegramCfg.AnswerTimeout <= 0 || cfg.TelegramCfg.AnswerTTL <= 0 {
		errors = append(errors, "TELEGRAM_ANSWER_TIMEOUT and TELEGRAM_ANSWER_TTL must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// normalizeOrigins reduces every origin to scheme://host[:port]; browsers
// never send a path in the Origin header.
func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if u, err := url.Parse(origin); err == nil && u.Scheme != "" && u.Host != "" {
			origin = u.Scheme + "://" + u.Host
		}
		out = append(out, origin)
	}
	return out
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
