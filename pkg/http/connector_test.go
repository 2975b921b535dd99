package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestConnectorDoRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": body["question"]})
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL, Logger: zap.NewNop()},
		WithRequestTimeout(5*time.Second),
		WithRequestLogging(),
		WithAuthToken("secret"),
	)

	var resp struct {
		Echo string `json:"echo"`
	}
	err := c.DoRequest(context.Background(), http.MethodPost, "/ask", map[string]string{"question": "hi"}, &resp)
	if err != nil {
		t.Fatalf("DoRequest() error = %v", err)
	}
	if resp.Echo != "hi" {
		t.Errorf("echo = %q, want hi", resp.Echo)
	}
}

func TestConnectorHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down"))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL, Logger: zap.NewNop()})

	err := c.DoRequest(context.Background(), http.MethodGet, "/health", nil, nil)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable || httpErr.Message != "down" {
		t.Errorf("HTTPError = %+v", httpErr)
	}
	if !IsRetryable(err) {
		t.Error("503 should be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"network", &NetworkError{Err: errors.New("refused")}, true},
		{"rate limited", &HTTPError{StatusCode: http.StatusTooManyRequests}, true},
		{"server error", &HTTPError{StatusCode: http.StatusBadGateway}, true},
		{"bad request", &HTTPError{StatusCode: http.StatusBadRequest}, false},
		{"other", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Accept", "application/json")

	got := redactHeaders(h)
	if got.Get("Authorization") != "[REDACTED]" {
		t.Errorf("Authorization = %q", got.Get("Authorization"))
	}
	if h.Get("Authorization") != "Bearer secret" {
		t.Error("original headers must not be modified")
	}
}
