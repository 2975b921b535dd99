package qa

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers question answering routes. limit wraps /ask only.
func RegisterRoutes(r chi.Router, h *Handler, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/ask", h.Ask)
}
