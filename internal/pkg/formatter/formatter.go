package formatter

import (
	"fmt"

	"github.com/futig/faq-backend/internal/entity"
)

// DefaultTitle heads every exported answer.
const DefaultTitle = "FAQ answer"

// Formatter renders a titled plain-text body as a downloadable document.
type Formatter interface {
	Format(title, body string) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidFormat, format)
	}
}
