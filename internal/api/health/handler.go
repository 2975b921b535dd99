package health

import (
	"net/http"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
)

// Handler reports a static service descriptor. It never touches the index
// or any provider, so it stays healthy while those fail.
type Handler struct {
	descriptor entity.HealthResponse
}

func NewHandler(version, model, vectorStore, embeddings string) *Handler {
	return &Handler{
		descriptor: entity.HealthResponse{
			Status:  "healthy",
			Version: version,
			Features: entity.HealthFeatures{
				Model:       model,
				VectorStore: vectorStore,
				Embeddings:  embeddings,
			},
		},
	}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.descriptor)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Health)
}
