package embedding

import (
	"context"
	"fmt"
	"sort"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/integration/common"
	"github.com/futig/faq-backend/internal/vectorindex"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Connector embeds text through the OpenAI embeddings API. Returned vectors
// are L2-normalised.
type Connector struct {
	config config.EmbeddingConnectorConfig
	client *openai.Client
	logger *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	token string,
	logger *zap.Logger,
) *Connector {
	// The OpenAI client authenticates itself; keep the shared auth transport out.
	clientCfg := cfg.HTTPClientConfig
	clientCfg.Token = ""

	return &Connector{
		config: cfg,
		client: common.NewOpenAIClient(clientCfg, token),
		logger: logger,
	}
}

// Model returns the embedding model name recorded in index manifests.
func (c *Connector) Model() string {
	return c.config.Model
}

// EmbedDocuments embeds texts in batches. The i-th vector belongs to texts[i].
func (c *Connector) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Info(ctx, "embedding documents via OpenAI",
		zap.Int("count", len(texts)),
		zap.Int("batch_size", c.config.BatchSize),
		zap.String("model", c.config.Model),
	)

	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Concurrency)

	for start := 0; start < len(texts); start += c.config.BatchSize {
		end := min(start+c.config.BatchSize, len(texts))
		g.Go(func() error {
			batch, err := c.embedBatch(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "documents embedded successfully", zap.Int("dimension", len(vectors[0])))

	return vectors, nil
}

// EmbedQuery embeds a single question.
func (c *Connector) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Debug(ctx, "embedding query via OpenAI")

	vectors, err := c.embedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

func (c *Connector) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var resp openai.EmbeddingResponse

	err := c.config.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(c.config.Model),
		})
		if err != nil {
			ctxzap.Warn(ctx, "embedding request failed", zap.Error(err))
		}
		return err
	}, common.IsRetryableOpenAIError)
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })

	out := make([][]float32, len(texts))
	for i, d := range resp.Data {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("embedding %d is empty", i)
		}
		out[i] = vectorindex.Normalize(d.Embedding)
	}

	return out, nil
}
