package faqapi

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
	"github.com/futig/faq-backend/internal/entity"
	"go.uber.org/zap"
)

func newTestConnector(url string) *Connector {
	return NewConnector(config.HTTPClientConfig{
		Url:                   url,
		RequestTimeout:        5 * time.Second,
		ConnTimeout:           time.Second,
		KeepAlive:             time.Second,
		IdleConnTimeout:       time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ask" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req entity.AskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == nil {
			t.Errorf("bad body: %v", err)
		}
		json.NewEncoder(w).Encode(entity.AskResponse{Answer: "echo: " + *req.Question})
	}))
	defer srv.Close()

	got, err := newTestConnector(srv.URL).Ask(context.Background(), "hours?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != "echo: hours?" {
		t.Errorf("answer = %q", got)
	}
}

func TestAskReturnsServiceDetail(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(entity.ErrorResponse{Detail: "Rate limit exceeded: 10 per 1 minute"})
	}))
	defer srv.Close()

	_, err := newTestConnector(srv.URL).Ask(context.Background(), "q")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || err.Error() != "Rate limit exceeded: 10 per 1 minute" {
		t.Errorf("err = %d %q", apiErr.StatusCode, err)
	}
	if calls.Load() != 1 {
		t.Errorf("ask was sent %d times", calls.Load())
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entity.HealthResponse{Status: "healthy", Version: "1.1.0"})
	}))
	defer srv.Close()

	h, err := newTestConnector(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if h.Status != "healthy" || h.Version != "1.1.0" {
		t.Errorf("health = %+v", h)
	}
}
