package qa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/pkg/logger"
	"github.com/futig/faq-backend/internal/vectorindex"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QAUsecase answers questions from the FAQ index
type QAUsecase struct {
	provider     IndexProvider
	embedder     EmbeddingConnector
	llmConnector LLMConnector
	topK         int
	logger       *zap.Logger
}

func NewUsecase(
	provider IndexProvider,
	embedder EmbeddingConnector,
	llmConnector LLMConnector,
	topK int,
	logger *zap.Logger,
) *QAUsecase {
	return &QAUsecase{
		provider:     provider,
		embedder:     embedder,
		llmConnector: llmConnector,
		topK:         topK,
		logger:       logger,
	}
}

// Answer retrieves the segments closest to question and asks the model to
// answer from them. The generated text is returned unmodified. Errors carry
// the failing stage (see entity.ErrorKind).
func (uc *QAUsecase) Answer(ctx context.Context, question string) (*entity.Answer, error) {
	ctx = logger.Ensure(ctx, uc.logger)
	start := time.Now()

	retriever, err := uc.provider.Retriever(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrIndexUnavailable, err)
	}

	vector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrEmbeddingFailed, err)
	}

	hits, err := retriever.Search(ctx, vector, uc.topK)
	if err != nil {
		if errors.Is(err, vectorindex.ErrDimensionMismatch) {
			return nil, fmt.Errorf("%w: %w", entity.ErrEmbeddingModelMismatch, err)
		}
		return nil, fmt.Errorf("%w: %w", entity.ErrRetrievalFailed, err)
	}

	ctxzap.Debug(ctx, "segments retrieved",
		zap.Int("count", len(hits)),
		zap.Ints("positions", positions(hits)),
	)

	text, err := uc.llmConnector.Complete(ctx, BuildPrompt(question, hits))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrGenerationFailed, err)
	}

	ctxzap.Info(ctx, "question answered",
		zap.Int("question_length", len(question)),
		zap.Int("answer_length", len(text)),
		zap.Duration("took", time.Since(start)),
	)

	return &entity.Answer{
		Question:  question,
		Text:      text,
		Retrieved: hits,
	}, nil
}

func positions(hits []entity.ScoredSegment) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.Position
	}
	return out
}
