package api

import (
	"net/http"
	"time"

	"github.com/futig/faq-backend/internal/api/docs"
	"github.com/futig/faq-backend/internal/api/health"
	"github.com/futig/faq-backend/internal/api/middleware"
	qaapi "github.com/futig/faq-backend/internal/api/qa"
	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterOptions holds the HTTP edge settings.
type RouterOptions struct {
	CORS           config.CORSConfig
	RequestTimeout time.Duration
	TrustProxy     bool
	// Limiter guards /ask; nil disables rate limiting.
	Limiter *ratelimit.Limiter
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	qaHandler *qaapi.Handler,
	healthHandler *health.Handler,
	opts RouterOptions,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	if opts.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(opts.CORS))
	r.Use(chimiddleware.Timeout(opts.RequestTimeout))

	health.RegisterRoutes(r, healthHandler)

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	limit := middleware.Disabled
	if opts.Limiter != nil {
		limit = middleware.RateLimit(opts.Limiter)
	}
	qaapi.RegisterRoutes(r, qaHandler, limit)

	return r
}
