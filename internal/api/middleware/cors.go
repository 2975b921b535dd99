package middleware

import (
	"net/http"

	"github.com/futig/faq-backend/internal/config"
	"github.com/go-chi/cors"
)

// CORS allows the configured origins to call the API with credentials.
func CORS(cfg config.CORSConfig) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           cfg.MaxAge,
	})
}
