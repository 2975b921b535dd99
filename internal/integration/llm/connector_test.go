package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/faq-backend/internal/config"
	pkgRetry "github.com/futig/faq-backend/internal/pkg/retry"
	"go.uber.org/zap"
)

func newTestConnector(t *testing.T, h http.HandlerFunc) *Connector {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout: 5 * time.Second,
			Url:            srv.URL + "/v1",
		},
		Model:     "gpt-3.5-turbo-instruct",
		MaxTokens: 500,
		Retry: pkgRetry.RetryConfig{
			Attempts: 3,
			Delay:    time.Millisecond,
			MaxDelay: 5 * time.Millisecond,
		},
	}

	return NewConnector(cfg, "sk-test", zap.NewNop())
}

func TestCompleteSendsDeterministicBoundedRequest(t *testing.T) {
	var body map[string]any

	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"text_completion","model":"gpt-3.5-turbo-instruct",
			"choices":[{"text":"  You can return items within 30 days.\n","index":0,"finish_reason":"stop"}],
			"usage":{"prompt_tokens":10,"completion_tokens":8,"total_tokens":18}}`))
	})

	got, err := c.Complete(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got != "  You can return items within 30 days.\n" {
		t.Errorf("answer must be returned unmodified, got %q", got)
	}

	if body["model"] != "gpt-3.5-turbo-instruct" {
		t.Errorf("model = %v", body["model"])
	}
	if body["prompt"] != "prompt text" {
		t.Errorf("prompt = %v", body["prompt"])
	}
	if body["max_tokens"] != float64(500) {
		t.Errorf("max_tokens = %v, want 500", body["max_tokens"])
	}
	temp, ok := body["temperature"].(float64)
	if !ok {
		t.Fatal("temperature must be sent explicitly")
	}
	if temp > 1e-6 {
		t.Errorf("temperature = %v, want ~0", temp)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"text_completion","choices":[]}`))
	})

	if _, err := c.Complete(context.Background(), "p"); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32

	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"text":"ok","index":0}]}`))
	})

	got, err := c.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "ok" || calls.Load() != 2 {
		t.Errorf("answer = %q after %d calls", got, calls.Load())
	}
}

func TestCompleteGivesUpOnUnauthorized(t *testing.T) {
	var calls atomic.Int32

	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	if _, err := c.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestMockConnectorAnswersFromContext(t *testing.T) {
	m := NewMockConnector(zap.NewNop())

	prompt := "Use the following pieces of context.\n\nRefunds take 5 days.\n\nShipping is free.\n\nQuestion: refunds?\nHelpful Answer:"
	got, err := m.Complete(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != " Refunds take 5 days." {
		t.Errorf("Complete() = %q", got)
	}

	got, _ = m.Complete(context.Background(), "no context")
	if got != " I don't know." {
		t.Errorf("Complete() = %q", got)
	}
}
