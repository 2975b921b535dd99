package common

import (
	"context"
	"errors"

	"github.com/futig/faq-backend/internal/config"
	pkgHTTP "github.com/futig/faq-backend/pkg/http"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		httpOptions(cfg)...,
	)
}

// NewOpenAIClient returns a go-openai client that talks through the shared
// pkg/http transport stack. The client sets its own Authorization header.
func NewOpenAIClient(cfg config.HTTPClientConfig, token string) *openai.Client {
	clientCfg := openai.DefaultConfig(token)
	if cfg.Url != "" {
		clientCfg.BaseURL = cfg.Url
	}
	clientCfg.HTTPClient = pkgHTTP.NewClient(httpOptions(cfg)...)

	return openai.NewClientWithConfig(clientCfg)
}

func httpOptions(cfg config.HTTPClientConfig) []pkgHTTP.HttpOpts {
	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
	}
	if cfg.Token != "" {
		opts = append(opts, pkgHTTP.WithAuthToken(cfg.Token))
	}
	return opts
}

// IsRetryableOpenAIError reports whether an error returned by go-openai is
// transient. Validation and auth failures are returned straight away.
func IsRetryableOpenAIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return pkgHTTP.IsRetryableStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return pkgHTTP.IsRetryableStatus(reqErr.HTTPStatusCode)
	}

	if errors.Is(err, openai.ErrCompletionUnsupportedModel) ||
		errors.Is(err, openai.ErrCompletionRequestPromptTypeNotSupported) {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	// Transport level failure (dial, timeout, reset).
	return true
}
