package index

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/pkg/logger"
	"github.com/futig/faq-backend/internal/pkg/validator"
	"github.com/futig/faq-backend/internal/repository"
	"github.com/futig/faq-backend/internal/vectorindex"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// IndexUsecase builds the FAQ index from the source document and reloads it
// from storage.
type IndexUsecase struct {
	cfg       config.DocumentConfig
	loader    DocumentLoader
	embedder  EmbeddingConnector
	store     repository.IndexStore
	validator *validator.Validator
	logger    *zap.Logger

	now func() time.Time
}

func NewUsecase(
	cfg config.DocumentConfig,
	loader DocumentLoader,
	embedder EmbeddingConnector,
	store repository.IndexStore,
	validator *validator.Validator,
	logger *zap.Logger,
) *IndexUsecase {
	return &IndexUsecase{
		cfg:       cfg,
		loader:    loader,
		embedder:  embedder,
		store:     store,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// BuildIndex loads and splits the document, embeds every segment, persists
// the result (replacing any previous index) and returns the in-memory index.
// Any failure is reported as ErrIndexBuildFailed wrapping the cause; nothing
// is persisted in that case.
func (uc *IndexUsecase) BuildIndex(ctx context.Context) (*vectorindex.Index, error) {
	ctx = logger.Ensure(ctx, uc.logger)
	start := uc.now()

	if err := uc.validator.ValidateDocument(); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrIndexBuildFailed, err)
	}

	doc, err := uc.loader.Load(ctx, uc.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: load document: %w", entity.ErrIndexBuildFailed, err)
	}

	texts := make([]string, len(doc.Segments))
	for i, s := range doc.Segments {
		texts[i] = s.Text
	}

	vectors, err := uc.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed segments: %w", entity.ErrIndexBuildFailed, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d segments", entity.ErrIndexBuildFailed, len(vectors), len(texts))
	}

	items := make([]entity.EmbeddedSegment, len(doc.Segments))
	for i, s := range doc.Segments {
		items[i] = entity.EmbeddedSegment{Segment: s, Vector: vectors[i]}
	}

	idx, err := vectorindex.New(items)
	if err != nil {
		return nil, fmt.Errorf("%w: assemble index: %w", entity.ErrIndexBuildFailed, err)
	}

	manifest := entity.IndexManifest{
		FormatVersion:  repository.IndexFormatVersion,
		BuildID:        uuid.NewString(),
		BuiltAt:        uc.now().UTC(),
		SourcePath:     doc.Path,
		SourceSHA256:   doc.SHA256,
		EmbeddingModel: uc.embedder.Model(),
		Dimension:      idx.Dimension(),
		SegmentCount:   idx.Len(),
	}

	if err := uc.store.Save(ctx, manifest, items); err != nil {
		return nil, fmt.Errorf("%w: persist index: %w", entity.ErrIndexBuildFailed, err)
	}

	ctxzap.Info(ctx, "index built",
		zap.String("build_id", manifest.BuildID),
		zap.String("source", doc.Path),
		zap.Int("pages", doc.PageCount),
		zap.Int("segments", manifest.SegmentCount),
		zap.Int("dimension", manifest.Dimension),
		zap.String("embedding_model", manifest.EmbeddingModel),
		zap.Duration("took", uc.now().Sub(start)),
	)

	return idx, nil
}

// LoadIndex reads the persisted index and checks it was built with the
// configured embedding model.
func (uc *IndexUsecase) LoadIndex(ctx context.Context) (*vectorindex.Index, error) {
	ctx = logger.Ensure(ctx, uc.logger)
	manifest, items, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if manifest.EmbeddingModel != uc.embedder.Model() {
		return nil, fmt.Errorf("%w: index uses %q, configured %q",
			entity.ErrEmbeddingModelMismatch, manifest.EmbeddingModel, uc.embedder.Model())
	}

	idx, err := vectorindex.New(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrIndexUnavailable, err)
	}
	if idx.Dimension() != manifest.Dimension {
		return nil, fmt.Errorf("%w: index dimension %d, manifest %d",
			entity.ErrEmbeddingModelMismatch, idx.Dimension(), manifest.Dimension)
	}

	ctxzap.Debug(ctx, "index loaded",
		zap.String("build_id", manifest.BuildID),
		zap.Int("segments", idx.Len()),
	)

	return idx, nil
}
