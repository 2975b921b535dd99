package repository

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/pgvector/pgvector-go"
)

// encodeEmbedding stores a vector as little-endian IEEE 754 float32 values
// without a length prefix.
func encodeEmbedding(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

type segmentRow struct {
	ID        string
	Position  int32
	Page      int32
	Text      string
	Embedding pgvector.Vector
}

func toEntityEmbeddedSegment(row *segmentRow) entity.EmbeddedSegment {
	return entity.EmbeddedSegment{
		Segment: entity.Segment{
			ID:       row.ID,
			Position: int(row.Position),
			Page:     int(row.Page),
			Text:     row.Text,
		},
		Vector: row.Embedding.Slice(),
	}
}

func toScoredSegment(row *segmentRow, score float64) entity.ScoredSegment {
	return entity.ScoredSegment{
		Segment: entity.Segment{
			ID:       row.ID,
			Position: int(row.Position),
			Page:     int(row.Page),
			Text:     row.Text,
		},
		Score: float32(score),
	}
}
