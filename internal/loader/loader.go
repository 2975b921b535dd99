package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// segmentNamespace scopes segment IDs so the same document always yields
// the same IDs.
var segmentNamespace = uuid.MustParse("8d3c1f2e-5b6a-4f7e-9c0d-1a2b3c4d5e6f")

// Page is the extracted text of one page (or the whole text for sources
// without pages, with Number 0).
type Page struct {
	Number int
	Text   string
}

// Document is a loaded and segmented source file.
type Document struct {
	Path      string
	SHA256    string
	PageCount int
	Segments  []entity.Segment
}

type Loader struct {
	splitter *Splitter
}

func New(chunkSize, chunkOverlap int) (*Loader, error) {
	s, err := NewSplitter(chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}
	return &Loader{splitter: s}, nil
}

// Load reads the file at path, extracts its text page by page and splits
// every page into segments. Positions are dense and follow document order.
func (l *Loader) Load(ctx context.Context, path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extract, ok := extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnsupportedSource, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrDocumentUnreadable, err)
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	pages, err := extract(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrDocumentUnreadable, err)
	}

	doc := &Document{
		Path:      path,
		SHA256:    digest,
		PageCount: len(pages),
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, text := range l.splitter.SplitText(page.Text) {
			pos := len(doc.Segments)
			doc.Segments = append(doc.Segments, entity.Segment{
				ID:       uuid.NewSHA1(segmentNamespace, []byte(digest+":"+strconv.Itoa(pos))).String(),
				Position: pos,
				Page:     page.Number,
				Text:     text,
			})
		}
	}

	if len(doc.Segments) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrEmptyDocument, path)
	}

	ctxzap.Info(ctx, "document loaded",
		zap.String("path", path),
		zap.Int("pages", doc.PageCount),
		zap.Int("segments", len(doc.Segments)),
	)

	return doc, nil
}

type extractFunc func(data []byte) ([]Page, error)

var extractors = map[string]extractFunc{
	".pdf":  extractPDF,
	".docx": extractDOCX,
	".txt":  extractPlain,
	".md":   extractPlain,
}

// SupportedExtensions lists the file extensions Load accepts.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt", ".md"}
}

func extractPlain(data []byte) ([]Page, error) {
	return []Page{{Number: 0, Text: string(data)}}, nil
}
