package formatter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/futig/faq-backend/internal/entity"
)

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	cases := map[entity.ResultFormat]string{
		entity.FormatMarkdown: ".md",
		entity.FormatPDF:      ".pdf",
		entity.FormatDOCX:     ".docx",
	}
	for format, ext := range cases {
		fm, err := f.Create(format)
		if err != nil {
			t.Fatalf("Create(%s) error = %v", format, err)
		}
		if fm.FileExtension() != ext {
			t.Errorf("Create(%s).FileExtension() = %q", format, fm.FileExtension())
		}
	}

	if _, err := f.Create(entity.FormatJSON); !errors.Is(err, entity.ErrInvalidFormat) {
		t.Errorf("json: err = %v", err)
	}
}

func TestMarkdownFormat(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(DefaultTitle, entity.RenderAnswer("How long?", "Five days."))
	if err != nil {
		t.Fatal(err)
	}

	want := "# FAQ answer\n\nQuestion: How long?\n\nAnswer: Five days."
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestPDFFormat(t *testing.T) {
	out, err := NewPDFFormatter().Format(DefaultTitle, entity.RenderAnswer("Où?", "Ici, naïvement."))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", out[:min(len(out), 16)])
	}
}
