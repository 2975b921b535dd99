package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

const (
	sqliteFileName   = "index.sqlite"
	manifestFileName = "manifest.yaml"
)

const sqliteSchema = `
CREATE TABLE segments (
	id        TEXT PRIMARY KEY,
	position  INTEGER NOT NULL UNIQUE,
	page      INTEGER NOT NULL,
	text      TEXT NOT NULL,
	embedding BLOB NOT NULL
)`

var _ IndexStore = &IndexSQLite{}

// IndexSQLite keeps the index in a directory holding an SQLite database with
// the segments and a YAML manifest. A new build is written to a sibling
// directory and swapped in by rename.
type IndexSQLite struct {
	dir string
}

func NewIndexSQLite(dir string) *IndexSQLite {
	return &IndexSQLite{dir: filepath.Clean(dir)}
}

func (s *IndexSQLite) Dir() string {
	return s.dir
}

func (s *IndexSQLite) Save(ctx context.Context, manifest entity.IndexManifest, items []entity.EmbeddedSegment) error {
	parent := filepath.Dir(s.dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create index parent dir: %w", err)
	}

	tmp, err := os.MkdirTemp(parent, filepath.Base(s.dir)+".tmp-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := writeSegments(ctx, filepath.Join(tmp, sqliteFileName), items); err != nil {
		return err
	}

	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, manifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	old := s.dir + ".old"
	_ = os.RemoveAll(old)
	if err := os.Rename(s.dir, old); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("move previous index aside: %w", err)
	}
	if err := os.Rename(tmp, s.dir); err != nil {
		_ = os.Rename(old, s.dir)
		return fmt.Errorf("swap in new index: %w", err)
	}
	_ = os.RemoveAll(old)

	ctxzap.Info(ctx, "index saved",
		zap.String("dir", s.dir),
		zap.String("build_id", manifest.BuildID),
		zap.Int("segments", len(items)),
	)

	return nil
}

func writeSegments(ctx context.Context, path string, items []entity.EmbeddedSegment) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO segments (id, position, page, text, embedding) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, it.ID, it.Position, it.Page, it.Text, encodeEmbedding(it.Vector)); err != nil {
			return fmt.Errorf("insert segment %d: %w", it.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit segments: %w", err)
	}
	return nil
}

func (s *IndexSQLite) Manifest(ctx context.Context) (*entity.IndexManifest, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, manifestFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %w", entity.ErrIndexUnavailable, err)
	}

	var m entity.IndexManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %w", entity.ErrIndexUnavailable, err)
	}
	if m.FormatVersion != IndexFormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", entity.ErrIndexUnavailable, m.FormatVersion)
	}

	return &m, nil
}

func (s *IndexSQLite) Load(ctx context.Context) (*entity.IndexManifest, []entity.EmbeddedSegment, error) {
	m, err := s.Manifest(ctx)
	if err != nil {
		return nil, nil, err
	}

	path := filepath.Join(s.dir, sqliteFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", entity.ErrIndexUnavailable, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open sqlite: %w", entity.ErrIndexUnavailable, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, position, page, text, embedding FROM segments ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: query segments: %w", entity.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	items := make([]entity.EmbeddedSegment, 0, m.SegmentCount)
	for rows.Next() {
		var (
			it   entity.EmbeddedSegment
			blob []byte
		)
		if err := rows.Scan(&it.ID, &it.Position, &it.Page, &it.Text, &blob); err != nil {
			return nil, nil, fmt.Errorf("%w: scan segment: %w", entity.ErrIndexUnavailable, err)
		}
		if it.Vector, err = decodeEmbedding(blob); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", entity.ErrIndexUnavailable, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", entity.ErrIndexUnavailable, err)
	}

	if err := checkLoaded(m, items); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", entity.ErrIndexUnavailable, err)
	}

	return m, items, nil
}
