package qa

import (
	"context"

	"github.com/futig/faq-backend/internal/entity"
)

type EmbeddingConnector interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type LLMConnector interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Retriever returns the k segments closest to a query vector, best first.
type Retriever interface {
	Search(ctx context.Context, query []float32, k int) ([]entity.ScoredSegment, error)
}

// IndexProvider hands out the retriever a single request should use.
type IndexProvider interface {
	Retriever(ctx context.Context) (Retriever, error)
}
