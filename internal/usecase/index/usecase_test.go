package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/integration/embedding"
	"github.com/futig/faq-backend/internal/loader"
	"github.com/futig/faq-backend/internal/pkg/validator"
	"github.com/futig/faq-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const faqText = `How do I reset my password?
Open the login page and follow the reset password link.

What is the refund policy?
Refunds are issued within thirty days of purchase.

How long does shipping take?
Standard shipping takes five business days.`

type failingEmbedder struct {
	model string
	err   error
}

func (f *failingEmbedder) Model() string { return f.model }

func (f *failingEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return nil, f.err
}

type fixture struct {
	cfg   config.DocumentConfig
	store *repository.IndexSQLite
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "faq.txt")
	if err := os.WriteFile(path, []byte(faqText), 0o600); err != nil {
		t.Fatal(err)
	}

	return fixture{
		cfg:   config.DocumentConfig{Path: path, ChunkSize: 80, ChunkOverlap: 0},
		store: repository.NewIndexSQLite(filepath.Join(dir, "faq_index")),
	}
}

func (f fixture) usecase(t *testing.T, embedder EmbeddingConnector) *IndexUsecase {
	t.Helper()

	l, err := loader.New(f.cfg.ChunkSize, f.cfg.ChunkOverlap)
	if err != nil {
		t.Fatal(err)
	}
	return NewUsecase(f.cfg, l, embedder, f.store, validator.NewValidator(f.cfg), zap.NewNop())
}

func TestBuildIndexPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.usecase(t, embedding.NewMockConnector(zap.NewNop()))

	built, err := uc.BuildIndex(ctx)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	if built.Len() < 3 {
		t.Fatalf("index has %d segments, want at least 3", built.Len())
	}

	manifest, err := f.store.Manifest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if manifest.SegmentCount != built.Len() || manifest.Dimension != built.Dimension() {
		t.Errorf("manifest = %+v", manifest)
	}
	if manifest.BuildID == "" || manifest.SourceSHA256 == "" {
		t.Errorf("manifest is missing build metadata: %+v", manifest)
	}

	loaded, err := uc.LoadIndex(ctx)
	if err != nil {
		t.Fatalf("LoadIndex() error = %v", err)
	}
	if loaded.Len() != built.Len() {
		t.Errorf("loaded %d segments, built %d", loaded.Len(), built.Len())
	}
}

func TestBuildIndexLogsThroughUsecaseLogger(t *testing.T) {
	f := newFixture(t)
	core, logs := observer.New(zapcore.DebugLevel)

	l, err := loader.New(f.cfg.ChunkSize, f.cfg.ChunkOverlap)
	if err != nil {
		t.Fatal(err)
	}
	uc := NewUsecase(f.cfg, l, embedding.NewMockConnector(zap.NewNop()), f.store, validator.NewValidator(f.cfg), zap.New(core))

	if _, err := uc.BuildIndex(context.Background()); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	built := logs.FilterMessage("index built").All()
	if len(built) != 1 {
		t.Fatalf("got %d %q entries, want 1", len(built), "index built")
	}
	fields := built[0].ContextMap()
	if fields["build_id"] == "" || fields["segments"] == nil {
		t.Errorf("index built fields = %v", fields)
	}
	if logs.FilterMessage("index saved").Len() != 1 {
		t.Error("store logs must reach the same logger")
	}
}

func TestBuildIndexPrefersContextLogger(t *testing.T) {
	f := newFixture(t)
	ucCore, ucLogs := observer.New(zapcore.DebugLevel)
	ctxCore, ctxLogs := observer.New(zapcore.DebugLevel)

	l, err := loader.New(f.cfg.ChunkSize, f.cfg.ChunkOverlap)
	if err != nil {
		t.Fatal(err)
	}
	uc := NewUsecase(f.cfg, l, embedding.NewMockConnector(zap.NewNop()), f.store, validator.NewValidator(f.cfg), zap.New(ucCore))

	ctx := ctxzap.ToContext(context.Background(), zap.New(ctxCore))
	if _, err := uc.BuildIndex(ctx); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	if ctxLogs.FilterMessage("index built").Len() != 1 {
		t.Error("index built must be logged through the context logger")
	}
	if ucLogs.Len() != 0 {
		t.Errorf("fallback logger got %d entries, want 0", ucLogs.Len())
	}
}

func TestRebuildKeepsRetrievalOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	embedder := embedding.NewMockConnector(zap.NewNop())
	uc := f.usecase(t, embedder)

	query, _ := embedder.EmbedQuery(ctx, "what is the refund policy")

	var orders [][]string
	for range 2 {
		idx, err := uc.BuildIndex(ctx)
		if err != nil {
			t.Fatal(err)
		}
		hits, err := idx.Search(query, 3)
		if err != nil {
			t.Fatal(err)
		}
		var ids []string
		for _, h := range hits {
			ids = append(ids, h.ID)
		}
		orders = append(orders, ids)
	}

	if len(orders[0]) != len(orders[1]) {
		t.Fatalf("orders differ: %v vs %v", orders[0], orders[1])
	}
	for i := range orders[0] {
		if orders[0][i] != orders[1][i] {
			t.Fatalf("orders differ: %v vs %v", orders[0], orders[1])
		}
	}
}

func TestBuildIndexFailureKeepsPreviousIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	good := f.usecase(t, embedding.NewMockConnector(zap.NewNop()))
	if _, err := good.BuildIndex(ctx); err != nil {
		t.Fatal(err)
	}
	before, _ := f.store.Manifest(ctx)

	providerErr := errors.New("provider down")
	bad := f.usecase(t, &failingEmbedder{model: "mock-hashing-256", err: providerErr})

	_, err := bad.BuildIndex(ctx)
	if !errors.Is(err, entity.ErrIndexBuildFailed) || !errors.Is(err, providerErr) {
		t.Fatalf("err = %v", err)
	}

	after, err := f.store.Manifest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after.BuildID != before.BuildID {
		t.Error("failed build replaced the persisted index")
	}
}

func TestBuildIndexMissingDocument(t *testing.T) {
	f := newFixture(t)
	f.cfg.Path = filepath.Join(t.TempDir(), "missing.pdf")
	uc := f.usecase(t, embedding.NewMockConnector(zap.NewNop()))

	_, err := uc.BuildIndex(context.Background())
	if !errors.Is(err, entity.ErrIndexBuildFailed) || !errors.Is(err, entity.ErrDocumentUnreadable) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadIndexRejectsOtherEmbeddingModel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.usecase(t, embedding.NewMockConnector(zap.NewNop())).BuildIndex(ctx); err != nil {
		t.Fatal(err)
	}

	other := f.usecase(t, &failingEmbedder{model: "text-embedding-ada-002"})
	_, err := other.LoadIndex(ctx)
	if !errors.Is(err, entity.ErrEmbeddingModelMismatch) {
		t.Errorf("err = %v, want ErrEmbeddingModelMismatch", err)
	}
}

func TestLoadIndexWithoutBuild(t *testing.T) {
	f := newFixture(t)
	uc := f.usecase(t, embedding.NewMockConnector(zap.NewNop()))

	_, err := uc.LoadIndex(context.Background())
	if !errors.Is(err, entity.ErrIndexUnavailable) {
		t.Errorf("err = %v, want ErrIndexUnavailable", err)
	}
}
