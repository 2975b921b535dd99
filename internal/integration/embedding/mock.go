package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/futig/faq-backend/internal/vectorindex"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	mockModel     = "mock-hashing-256"
	mockDimension = 256
)

// MockConnector - детерминированный эмбеддер без сети (hashing trick по словам)
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Model() string {
	return mockModel
}

func (m *MockConnector) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	ctxzap.Info(ctx, "[MOCK] embedding documents", zap.Int("count", len(texts)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashEmbed(t)
	}
	return out, nil
}

func (m *MockConnector) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Debug(ctx, "[MOCK] embedding query")
	return hashEmbed(text), nil
}

// hashEmbed maps each lower-cased word to a bucket, so texts sharing words
// end up close in cosine space.
func hashEmbed(text string) []float32 {
	vec := make([]float32, mockDimension)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%mockDimension]++
	}

	return vectorindex.Normalize(vec)
}
