package builder

import (
	"context"
	"fmt"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/integration/embedding"
	"github.com/futig/faq-backend/internal/integration/llm"
	"github.com/futig/faq-backend/internal/loader"
	"github.com/futig/faq-backend/internal/pkg/validator"
	"github.com/futig/faq-backend/internal/repository"
	"github.com/futig/faq-backend/internal/usecase/index"
	"github.com/futig/faq-backend/internal/usecase/qa"
	"github.com/futig/faq-backend/internal/vectorindex"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type embeddingConnector interface {
	index.EmbeddingConnector
	qa.EmbeddingConnector
}

type llmConnector interface {
	qa.LLMConnector
	Model() string
}

// pipeline holds everything between the source document and an answer.
type pipeline struct {
	cfg    *config.Config
	logger *zap.Logger

	db       *pgxpool.Pool
	searcher qa.StoreSearcher // set for the postgres backend

	embedder embeddingConnector
	llm      llmConnector
	index    *index.IndexUsecase
}

func newPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipeline, error) {
	p := &pipeline{cfg: cfg, logger: logger}

	var store repository.IndexStore
	switch cfg.IndexCfg.Backend {
	case config.IndexBackendPostgres:
		db, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		pg := repository.NewIndexPostgres(db)
		p.db, p.searcher, store = db, pg, pg
	default:
		store = repository.NewIndexSQLite(cfg.IndexCfg.Dir)
	}
	logger.Info("Index store initialized",
		zap.String("backend", cfg.IndexCfg.Backend),
		zap.String("mode", cfg.IndexCfg.Mode),
	)

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		p.embedder = embedding.NewMockConnector(logger)
		p.llm = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		p.embedder = embedding.NewConnector(cfg.EmbeddingConnectorCfg, cfg.APIToken(cfg.EmbeddingConnectorCfg.HTTPClientConfig), logger)
		p.llm = llm.NewConnector(cfg.LLMConnectorCfg, cfg.APIToken(cfg.LLMConnectorCfg.HTTPClientConfig), logger)
	}

	docLoader, err := loader.New(cfg.DocumentCfg.ChunkSize, cfg.DocumentCfg.ChunkOverlap)
	if err != nil {
		p.close()
		return nil, fmt.Errorf("create document loader: %w", err)
	}

	p.index = index.NewUsecase(
		cfg.DocumentCfg,
		docLoader,
		p.embedder,
		store,
		validator.NewValidator(cfg.DocumentCfg),
		logger,
	)

	return p, nil
}

// prepareIndex builds the index or, with INDEX_BUILD_ON_STARTUP off, loads
// the persisted one. Either failure stops startup.
func (p *pipeline) prepareIndex(ctx context.Context) (*vectorindex.Index, error) {
	if p.cfg.IndexCfg.BuildOnStartup {
		p.logger.Info("Building FAQ index", zap.String("document", p.cfg.DocumentCfg.Path))
		return p.index.BuildIndex(ctx)
	}

	p.logger.Info("Loading persisted FAQ index")
	return p.index.LoadIndex(ctx)
}

// answerer prepares the index and returns the question answering use case
// reading it the way INDEX_MODE asks for.
func (p *pipeline) answerer(ctx context.Context) (*qa.QAUsecase, error) {
	idx, err := p.prepareIndex(ctx)
	if err != nil {
		return nil, err
	}

	var provider qa.IndexProvider
	switch {
	case p.cfg.IndexCfg.Mode == config.IndexModeMemory:
		provider = qa.NewMemoryProvider(idx)
	case p.searcher != nil:
		provider = qa.NewStoreProvider(p.searcher, p.embedder.Model())
	default:
		provider = qa.NewDiskProvider(p.index)
	}

	p.logger.Info("FAQ index ready",
		zap.Int("segments", idx.Len()),
		zap.Int("dimension", idx.Dimension()),
	)

	return qa.NewUsecase(provider, p.embedder, p.llm, p.cfg.RetrievalTopK, p.logger), nil
}

func (p *pipeline) close() {
	if p.db != nil {
		p.db.Close()
	}
}
