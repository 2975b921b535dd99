package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/futig/faq-backend/internal/pkg/ratelimit"
	"github.com/futig/faq-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// RateLimit rejects requests from a client address once it exceeds the
// limiter's budget. Rejected requests get 429 and never reach next.
func RateLimit(limiter *ratelimit.Limiter) func(next http.Handler) http.Handler {
	detail := "Rate limit exceeded: " + limiter.Describe()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientAddr(r)

			ok, retryAfter := limiter.Allow(key)
			if !ok {
				ctxzap.Warn(r.Context(), "rate limit exceeded",
					zap.String("client", key),
					zap.Duration("retry_after", retryAfter),
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				response.Error(w, http.StatusTooManyRequests, detail)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Disabled passes every request through.
func Disabled(next http.Handler) http.Handler {
	return next
}

// clientAddr is the peer address of the connection, without the port.
// Forwarding headers only count when chi's RealIP ran before this and put
// the forwarded address into RemoteAddr.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
