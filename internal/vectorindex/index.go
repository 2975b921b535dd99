// Package vectorindex holds the in-memory nearest neighbour index over the
// embedded FAQ segments. An Index is immutable once built and safe for
// concurrent searches.
package vectorindex

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/futig/faq-backend/internal/entity"
)

var ErrDimensionMismatch = errors.New("vectorindex: dimension mismatch")

// Index is an exact (brute-force) cosine similarity index.
type Index struct {
	items []entity.EmbeddedSegment
	mags  []float64
	dim   int
}

// New builds an index over items. Every vector must have the same, non-zero
// dimension. The items are copied.
func New(items []entity.EmbeddedSegment) (*Index, error) {
	if len(items) == 0 {
		return nil, errors.New("vectorindex: no items")
	}

	dim := len(items[0].Vector)
	if dim == 0 {
		return nil, errors.New("vectorindex: empty vector")
	}

	mags := make([]float64, len(items))
	copied := make([]entity.EmbeddedSegment, len(items))
	for j, it := range items {
		if len(it.Vector) != dim {
			return nil, fmt.Errorf("%w: segment %d has %d, want %d", ErrDimensionMismatch, it.Position, len(it.Vector), dim)
		}
		copied[j] = entity.EmbeddedSegment{
			Segment: it.Segment,
			Vector:  append([]float32(nil), it.Vector...),
		}
		mags[j] = magnitude(it.Vector)
	}

	return &Index{items: copied, mags: mags, dim: dim}, nil
}

func (i *Index) Len() int { return len(i.items) }

func (i *Index) Dimension() int { return i.dim }

// Items returns the indexed segments with their vectors in position order.
func (i *Index) Items() []entity.EmbeddedSegment {
	out := make([]entity.EmbeddedSegment, len(i.items))
	copy(out, i.items)
	return out
}

// Search returns the min(k, Len()) segments most similar to query, by
// descending cosine similarity. Equal scores are ordered by segment position
// so the result is deterministic.
func (i *Index) Search(query []float32, k int) ([]entity.ScoredSegment, error) {
	if len(query) != i.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), i.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	qm := magnitude(query)

	type scored struct {
		idx   int
		score float64
	}
	scoreds := make([]scored, 0, len(i.items))
	for j := range i.items {
		var s float64
		if qm != 0 && i.mags[j] != 0 {
			s = dot(query, i.items[j].Vector) / (qm * i.mags[j])
		}
		if math.IsNaN(s) {
			s = 0
		}
		scoreds = append(scoreds, scored{idx: j, score: s})
	}

	sort.SliceStable(scoreds, func(a, b int) bool {
		if scoreds[a].score != scoreds[b].score {
			return scoreds[a].score > scoreds[b].score
		}
		return i.items[scoreds[a].idx].Position < i.items[scoreds[b].idx].Position
	})

	if k > len(scoreds) {
		k = len(scoreds)
	}

	out := make([]entity.ScoredSegment, k)
	for n := 0; n < k; n++ {
		out[n] = entity.ScoredSegment{
			Segment: i.items[scoreds[n].idx].Segment,
			Score:   float32(scoreds[n].score),
		}
	}
	return out, nil
}

// Normalize scales v to unit length in place and returns it. Zero vectors are
// returned unchanged.
func Normalize(v []float32) []float32 {
	m := magnitude(v)
	if m == 0 {
		return v
	}
	for j := range v {
		v[j] = float32(float64(v[j]) / m)
	}
	return v
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func magnitude(v []float32) float64 { return math.Sqrt(dot(v, v)) }
