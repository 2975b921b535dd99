package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// newTestPool connects to TEST_DATABASE_URL, a database with the pgvector
// extension available. The test is skipped when it is not set.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	if err := RunMigrations("", url); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatal(err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func TestIndexPostgresRoundTripAndSearch(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	store := NewIndexPostgres(pool)

	items := testItems()
	items[0].ID = "00000000-0000-0000-0000-000000000001"
	items[1].ID = "00000000-0000-0000-0000-000000000002"
	items[2].ID = "00000000-0000-0000-0000-000000000003"

	if err := store.Save(ctx, testManifest("pg-build", len(items)), items); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	m, got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.BuildID != "pg-build" || len(got) != 3 {
		t.Fatalf("loaded %s with %d items", m.BuildID, len(got))
	}
	if got[2].Text != "third" || got[2].Page != 2 {
		t.Errorf("item 2 = %+v", got[2].Segment)
	}

	hits, err := store.Search(ctx, []float32{0, 1, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 || hits[0].Text != "second" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestIndexPostgresMissingManifest(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	if _, err := pool.Exec(ctx, `DELETE FROM faq_index_manifest`); err != nil {
		t.Fatal(err)
	}

	_, err := NewIndexPostgres(pool).Manifest(ctx)
	if !errors.Is(err, entity.ErrIndexUnavailable) {
		t.Errorf("err = %v, want ErrIndexUnavailable", err)
	}
}
