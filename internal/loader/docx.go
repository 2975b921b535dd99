package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/document"
)

// extractDOCX joins the body paragraphs of a Word document. DOCX has no
// stable page boundaries, so the whole text is returned as one page.
func extractDOCX(data []byte) ([]Page, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	var paragraphs []string
	for _, p := range doc.Paragraphs() {
		var sb strings.Builder
		for _, r := range p.Runs() {
			sb.WriteString(r.Text())
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}

	return []Page{{Number: 0, Text: strings.Join(paragraphs, "\n\n")}}, nil
}
