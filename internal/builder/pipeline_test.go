package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/faq-backend/internal/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	doc := filepath.Join(dir, "faq.txt")
	if err := os.WriteFile(doc, []byte("How do refunds work?\nRefunds are issued within thirty days."), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DOCUMENT_PATH", doc)
	t.Setenv("INDEX_DIR", filepath.Join(dir, "faq_index"))
	t.Setenv("INDEX_BACKEND", config.IndexBackendSQLite)

	cfg, err := config.Load("test")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func TestStartupBuildIsLogged(t *testing.T) {
	cfg := testConfig(t)
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	ctx := ctxzap.ToContext(context.Background(), logger)

	p, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("newPipeline() error = %v", err)
	}
	defer p.close()

	if _, err := p.answerer(ctx); err != nil {
		t.Fatalf("answerer() error = %v", err)
	}

	for _, msg := range []string{"document loaded", "index saved", "index built", "FAQ index ready"} {
		if logs.FilterMessage(msg).Len() == 0 {
			t.Errorf("%q was not logged", msg)
		}
	}
}

func TestStartupBuildStopsOnCancelledContext(t *testing.T) {
	cfg := testConfig(t)
	logger := zap.NewNop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("newPipeline() error = %v", err)
	}
	defer p.close()

	if _, err := p.answerer(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("answerer() error = %v, want context.Canceled", err)
	}
}

func TestTelegramAppCloseWithoutDatabase(t *testing.T) {
	app := &TelegramApp{Logger: zap.NewNop(), pipeline: &pipeline{logger: zap.NewNop()}}
	app.Close()
}
