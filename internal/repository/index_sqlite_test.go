package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/futig/faq-backend/internal/entity"
)

func testItems() []entity.EmbeddedSegment {
	return []entity.EmbeddedSegment{
		{Segment: entity.Segment{ID: "a", Position: 0, Page: 1, Text: "first"}, Vector: []float32{1, 0, 0}},
		{Segment: entity.Segment{ID: "b", Position: 1, Page: 1, Text: "second"}, Vector: []float32{0, 1, 0}},
		{Segment: entity.Segment{ID: "c", Position: 2, Page: 2, Text: "third"}, Vector: []float32{0, 0, -1.5}},
	}
}

func testManifest(buildID string, n int) entity.IndexManifest {
	return entity.IndexManifest{
		FormatVersion:  IndexFormatVersion,
		BuildID:        buildID,
		BuiltAt:        time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		SourcePath:     "faq.pdf",
		SourceSHA256:   "abc",
		EmbeddingModel: "text-embedding-ada-002",
		Dimension:      3,
		SegmentCount:   n,
	}
}

func TestIndexSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewIndexSQLite(filepath.Join(t.TempDir(), "faq_index"))

	items := testItems()
	if err := store.Save(ctx, testManifest("build-1", len(items)), items); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	m, got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if m.BuildID != "build-1" || m.Dimension != 3 || m.EmbeddingModel != "text-embedding-ada-002" {
		t.Errorf("manifest = %+v", m)
	}
	if !m.BuiltAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("BuiltAt = %v", m.BuiltAt)
	}
	if len(got) != len(items) {
		t.Fatalf("got %d items, want %d", len(got), len(items))
	}
	for i := range items {
		if got[i].Segment != items[i].Segment {
			t.Errorf("item %d segment = %+v, want %+v", i, got[i].Segment, items[i].Segment)
		}
		for j := range items[i].Vector {
			if got[i].Vector[j] != items[i].Vector[j] {
				t.Errorf("item %d vector = %v, want %v", i, got[i].Vector, items[i].Vector)
				break
			}
		}
	}
}

func TestIndexSQLiteSaveReplacesPreviousBuild(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "faq_index")
	store := NewIndexSQLite(dir)

	items := testItems()
	if err := store.Save(ctx, testManifest("build-1", len(items)), items); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, testManifest("build-2", 1), items[:1]); err != nil {
		t.Fatal(err)
	}

	m, got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if m.BuildID != "build-2" || len(got) != 1 {
		t.Errorf("loaded build %s with %d items", m.BuildID, len(got))
	}

	entries, _ := os.ReadDir(filepath.Dir(dir))
	if len(entries) != 1 {
		t.Errorf("staging directories left behind: %v", entries)
	}
}

func TestIndexSQLiteMissingIndex(t *testing.T) {
	store := NewIndexSQLite(filepath.Join(t.TempDir(), "nothing"))

	_, _, err := store.Load(context.Background())
	if !errors.Is(err, entity.ErrIndexUnavailable) {
		t.Errorf("err = %v, want ErrIndexUnavailable", err)
	}
}

func TestIndexSQLiteDetectsManifestMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewIndexSQLite(filepath.Join(t.TempDir(), "faq_index"))

	items := testItems()
	if err := store.Save(ctx, testManifest("build-1", 5), items); err != nil {
		t.Fatal(err)
	}

	_, _, err := store.Load(ctx)
	if !errors.Is(err, ErrManifestMismatch) || !errors.Is(err, entity.ErrIndexUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestEmbeddingEncoding(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3e-8}
	out, err := decodeEmbedding(encodeEmbedding(in))
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("decoded %v, want %v", out, in)
		}
	}

	if _, err := decodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}
