package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

var _ IndexStore = &IndexPostgres{}

// IndexPostgres stores segments in a pgvector column. The manifest lives in
// a single-row table and is replaced in the same transaction as the
// segments.
type IndexPostgres struct {
	db *pgxpool.Pool
}

func NewIndexPostgres(db *pgxpool.Pool) *IndexPostgres {
	return &IndexPostgres{
		db: db,
	}
}

func (r *IndexPostgres) Save(ctx context.Context, manifest entity.IndexManifest, items []entity.EmbeddedSegment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM faq_segments`); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(
			`INSERT INTO faq_segments (id, position, page, text, embedding) VALUES ($1, $2, $3, $4, $5)`,
			it.ID, it.Position, it.Page, it.Text, pgvector.NewVector(it.Vector),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert segments: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO faq_index_manifest (id, format_version, build_id, built_at, source_path, source_sha256, embedding_model, dimension, segment_count)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			format_version = EXCLUDED.format_version,
			build_id = EXCLUDED.build_id,
			built_at = EXCLUDED.built_at,
			source_path = EXCLUDED.source_path,
			source_sha256 = EXCLUDED.source_sha256,
			embedding_model = EXCLUDED.embedding_model,
			dimension = EXCLUDED.dimension,
			segment_count = EXCLUDED.segment_count`,
		manifest.FormatVersion, manifest.BuildID, manifest.BuiltAt, manifest.SourcePath,
		manifest.SourceSHA256, manifest.EmbeddingModel, manifest.Dimension, manifest.SegmentCount,
	)
	if err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}

	ctxzap.Info(ctx, "index saved",
		zap.String("build_id", manifest.BuildID),
		zap.Int("segments", len(items)),
	)

	return nil
}

func (r *IndexPostgres) Manifest(ctx context.Context) (*entity.IndexManifest, error) {
	var m entity.IndexManifest
	err := r.db.QueryRow(ctx, `
		SELECT format_version, build_id, built_at, source_path, source_sha256, embedding_model, dimension, segment_count
		FROM faq_index_manifest WHERE id = 1`,
	).Scan(&m.FormatVersion, &m.BuildID, &m.BuiltAt, &m.SourcePath, &m.SourceSHA256, &m.EmbeddingModel, &m.Dimension, &m.SegmentCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no index has been built", entity.ErrIndexUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get manifest: %w", entity.ErrIndexUnavailable, err)
	}
	if m.FormatVersion != IndexFormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", entity.ErrIndexUnavailable, m.FormatVersion)
	}

	return &m, nil
}

func (r *IndexPostgres) Load(ctx context.Context) (*entity.IndexManifest, []entity.EmbeddedSegment, error) {
	m, err := r.Manifest(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, position, page, text, embedding FROM faq_segments ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: query segments: %w", entity.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	items := make([]entity.EmbeddedSegment, 0, m.SegmentCount)
	for rows.Next() {
		var row segmentRow
		if err := rows.Scan(&row.ID, &row.Position, &row.Page, &row.Text, &row.Embedding); err != nil {
			return nil, nil, fmt.Errorf("%w: scan segment: %w", entity.ErrIndexUnavailable, err)
		}
		items = append(items, toEntityEmbeddedSegment(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", entity.ErrIndexUnavailable, err)
	}

	if err := checkLoaded(m, items); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", entity.ErrIndexUnavailable, err)
	}

	return m, items, nil
}

// Search ranks stored segments by cosine similarity inside the database.
// Ties are broken by document position.
func (r *IndexPostgres) Search(ctx context.Context, query []float32, k int) ([]entity.ScoredSegment, error) {
	vec := pgvector.NewVector(query)

	rows, err := r.db.Query(ctx, `
		SELECT id, position, page, text, 1 - (embedding <=> $1) AS score
		FROM faq_segments
		ORDER BY embedding <=> $1, position
		LIMIT $2`,
		vec, k,
	)
	if err != nil {
		return nil, fmt.Errorf("search segments: %w", err)
	}
	defer rows.Close()

	var out []entity.ScoredSegment
	for rows.Next() {
		var (
			row   segmentRow
			score float64
		)
		if err := rows.Scan(&row.ID, &row.Position, &row.Page, &row.Text, &score); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		out = append(out, toScoredSegment(&row, score))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search segments: %w", err)
	}

	return out, nil
}
