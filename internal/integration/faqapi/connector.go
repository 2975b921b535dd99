package faqapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/integration/common"
	pkgRetry "github.com/futig/faq-backend/internal/pkg/retry"
	pkgHTTP "github.com/futig/faq-backend/pkg/http"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer of the FAQ service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Connector is a client of the FAQ HTTP service.
type Connector struct {
	client *pkgHTTP.Connector
	retry  *pkgRetry.RetryConfig
	logger *zap.Logger
}

func NewConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *Connector {
	return &Connector{
		client: common.NewBaseConnector(cfg, logger),
		retry:  pkgRetry.DefaultRetryConfig(),
		logger: logger,
	}
}

// Ask posts a question. It is not retried: the service may already have
// spent a model call on a request that failed on the way back.
func (c *Connector) Ask(ctx context.Context, question string) (string, error) {
	req := entity.AskRequest{Question: &question}

	var resp entity.AskResponse
	if err := c.client.DoRequest(ctx, http.MethodPost, "/ask", req, &resp); err != nil {
		return "", toAPIError(err)
	}

	return resp.Answer, nil
}

// Health reads the service's static health document.
func (c *Connector) Health(ctx context.Context) (*entity.HealthResponse, error) {
	var resp entity.HealthResponse
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		return c.client.DoRequest(ctx, http.MethodGet, "/health", nil, &resp)
	}, pkgHTTP.IsRetryable)
	if err != nil {
		return nil, toAPIError(err)
	}

	return &resp, nil
}

func toAPIError(err error) error {
	var httpErr *pkgHTTP.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	var body entity.ErrorResponse
	_ = json.Unmarshal([]byte(httpErr.Message), &body)

	return &APIError{StatusCode: httpErr.StatusCode, Detail: body.Detail}
}
