package vectorindex

import (
	"errors"
	"math"
	"testing"

	"github.com/futig/faq-backend/internal/entity"
)

func item(pos int, text string, vec ...float32) entity.EmbeddedSegment {
	return entity.EmbeddedSegment{
		Segment: entity.Segment{ID: text, Position: pos, Text: text},
		Vector:  vec,
	}
}

func TestSearchOrdersByCosine(t *testing.T) {
	idx, err := New([]entity.EmbeddedSegment{
		item(0, "east", 1, 0),
		item(1, "north", 0, 1),
		item(2, "north-east", 1, 1),
		item(3, "west", -1, 0),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := idx.Search([]float32{1, 0.1}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"east", "north-east", "north"}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("result[%d] = %q, want %q", i, got[i].Text, w)
		}
	}
	if got[0].Score < got[1].Score || got[1].Score < got[2].Score {
		t.Errorf("scores not descending: %v %v %v", got[0].Score, got[1].Score, got[2].Score)
	}
}

func TestSearchTiesBrokenByPosition(t *testing.T) {
	idx, err := New([]entity.EmbeddedSegment{
		item(2, "c", 1, 0),
		item(0, "a", 1, 0),
		item(1, "b", 1, 0),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for run := 0; run < 5; run++ {
		got, err := idx.Search([]float32{1, 0}, 3)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if got[0].Text != "a" || got[1].Text != "b" || got[2].Text != "c" {
			t.Fatalf("run %d: order = %s %s %s, want a b c", run, got[0].Text, got[1].Text, got[2].Text)
		}
	}
}

func TestSearchKLargerThanIndex(t *testing.T) {
	idx, err := New([]entity.EmbeddedSegment{item(0, "only", 1, 0)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := idx.Search([]float32{0, 1}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
}

func TestSearchZeroQueryStillReturnsK(t *testing.T) {
	idx, err := New([]entity.EmbeddedSegment{
		item(0, "a", 1, 0),
		item(1, "b", 0, 1),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := idx.Search([]float32{0, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 || got[0].Text != "a" {
		t.Fatalf("unexpected results %+v", got)
	}
}

func TestNewRejectsMixedDimensions(t *testing.T) {
	_, err := New([]entity.EmbeddedSegment{
		item(0, "a", 1, 0),
		item(1, "b", 1, 0, 0),
	})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}

	if _, err := New(nil); err == nil {
		t.Fatal("expected error for empty index")
	}
}

func TestSearchRejectsWrongQueryDimension(t *testing.T) {
	idx, err := New([]entity.EmbeddedSegment{item(0, "a", 1, 0)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := idx.Search([]float32{1, 0, 0}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestIndexIsIsolatedFromCallerSlices(t *testing.T) {
	vec := []float32{1, 0}
	idx, err := New([]entity.EmbeddedSegment{item(0, "a", vec...)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	vec[0] = -1

	if idx.Items()[0].Vector[0] != 1 {
		t.Error("index must copy vectors")
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("Normalize() = %v, want [0.6 0.8]", v)
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("Normalize(zero) = %v", zero)
	}
}
