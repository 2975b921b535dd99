package entity

import "time"

// Segment is a contiguous piece of the FAQ document, the unit of indexing
// and retrieval.
type Segment struct {
	ID       string `json:"id" yaml:"id"`
	Position int    `json:"position" yaml:"position"`
	Page     int    `json:"page,omitempty" yaml:"page,omitempty"`
	Text     string `json:"text" yaml:"text"`
}

// EmbeddedSegment pairs a segment with its embedding vector.
type EmbeddedSegment struct {
	Segment
	Vector []float32
}

// ScoredSegment is a retrieval hit.
type ScoredSegment struct {
	Segment
	Score float32 `json:"score"`
}

// IndexManifest describes a persisted index artifact.
type IndexManifest struct {
	FormatVersion  int       `yaml:"format_version"`
	BuildID        string    `yaml:"build_id"`
	BuiltAt        time.Time `yaml:"built_at"`
	SourcePath     string    `yaml:"source_path"`
	SourceSHA256   string    `yaml:"source_sha256"`
	EmbeddingModel string    `yaml:"embedding_model"`
	Dimension      int       `yaml:"dimension"`
	SegmentCount   int       `yaml:"segment_count"`
}

// Answer is the outcome of a single question.
type Answer struct {
	Question  string
	Text      string
	Retrieved []ScoredSegment
}
