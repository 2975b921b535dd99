package index

import (
	"context"

	"github.com/futig/faq-backend/internal/loader"
)

type DocumentLoader interface {
	Load(ctx context.Context, path string) (*loader.Document, error)
}

type EmbeddingConnector interface {
	Model() string
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}
