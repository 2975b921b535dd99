package qa

import (
	"context"
	"fmt"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/vectorindex"
)

type memoryRetriever struct {
	idx *vectorindex.Index
}

func (r memoryRetriever) Search(_ context.Context, query []float32, k int) ([]entity.ScoredSegment, error) {
	return r.idx.Search(query, k)
}

// MemoryProvider serves every request from one index built at startup.
type MemoryProvider struct {
	retriever memoryRetriever
}

func NewMemoryProvider(idx *vectorindex.Index) *MemoryProvider {
	return &MemoryProvider{retriever: memoryRetriever{idx: idx}}
}

func (p *MemoryProvider) Retriever(context.Context) (Retriever, error) {
	if p.retriever.idx == nil {
		return nil, entity.ErrIndexUnavailable
	}
	return p.retriever, nil
}

type IndexLoader interface {
	LoadIndex(ctx context.Context) (*vectorindex.Index, error)
}

// DiskProvider reloads the persisted index on every request, so a rebuild
// done by another process is picked up without a restart.
type DiskProvider struct {
	loader IndexLoader
}

func NewDiskProvider(loader IndexLoader) *DiskProvider {
	return &DiskProvider{loader: loader}
}

func (p *DiskProvider) Retriever(ctx context.Context) (Retriever, error) {
	idx, err := p.loader.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}
	return memoryRetriever{idx: idx}, nil
}

type StoreSearcher interface {
	Manifest(ctx context.Context) (*entity.IndexManifest, error)
	Search(ctx context.Context, query []float32, k int) ([]entity.ScoredSegment, error)
}

// StoreProvider searches the index where it is stored, without loading it.
// The manifest is checked per request against the configured model.
type StoreProvider struct {
	store StoreSearcher
	model string
}

func NewStoreProvider(store StoreSearcher, embeddingModel string) *StoreProvider {
	return &StoreProvider{store: store, model: embeddingModel}
}

func (p *StoreProvider) Retriever(ctx context.Context) (Retriever, error) {
	m, err := p.store.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	if m.EmbeddingModel != p.model {
		return nil, fmt.Errorf("%w: index uses %q, configured %q", entity.ErrEmbeddingModelMismatch, m.EmbeddingModel, p.model)
	}
	return p.store, nil
}
