package repository

import (
	"context"
	"errors"

	"github.com/futig/faq-backend/internal/entity"
)

// IndexFormatVersion is bumped whenever the persisted layout changes.
const IndexFormatVersion = 1

var ErrManifestMismatch = errors.New("index manifest does not match stored segments")

// IndexStore persists one built index. Save replaces whatever was stored
// before; a reader never observes a partially written index.
type IndexStore interface {
	Save(ctx context.Context, manifest entity.IndexManifest, items []entity.EmbeddedSegment) error
	Load(ctx context.Context) (*entity.IndexManifest, []entity.EmbeddedSegment, error)
	Manifest(ctx context.Context) (*entity.IndexManifest, error)
}

func checkLoaded(m *entity.IndexManifest, items []entity.EmbeddedSegment) error {
	if len(items) != m.SegmentCount {
		return ErrManifestMismatch
	}
	for _, it := range items {
		if len(it.Vector) != m.Dimension {
			return ErrManifestMismatch
		}
	}
	return nil
}
