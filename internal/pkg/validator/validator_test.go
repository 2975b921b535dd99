package validator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/entity"
)

func TestValidateAsk(t *testing.T) {
	v := NewValidator(config.DocumentConfig{})
	empty := ""

	if err := v.ValidateAsk(&entity.AskRequest{}); !errors.Is(err, entity.ErrMissingField) {
		t.Errorf("missing question: err = %v", err)
	}
	if err := v.ValidateAsk(&entity.AskRequest{Question: &empty}); err != nil {
		t.Errorf("empty question must pass, got %v", err)
	}
}

func TestValidateFormat(t *testing.T) {
	v := NewValidator(config.DocumentConfig{})

	cases := map[string]entity.ResultFormat{
		"":         entity.FormatJSON,
		"json":     entity.FormatJSON,
		"Markdown": entity.FormatMarkdown,
		"pdf":      entity.FormatPDF,
		"docx":     entity.FormatDOCX,
	}
	for raw, want := range cases {
		got, err := v.ValidateFormat(raw)
		if err != nil || got != want {
			t.Errorf("ValidateFormat(%q) = %q, %v", raw, got, err)
		}
	}

	if _, err := v.ValidateFormat("xlsx"); !errors.Is(err, entity.ErrInvalidParameter) {
		t.Errorf("xlsx: err = %v", err)
	}
}

func TestValidateDocument(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "faq.txt")
	empty := filepath.Join(dir, "empty.md")
	_ = os.WriteFile(good, []byte("Q: A?"), 0o600)
	_ = os.WriteFile(empty, nil, 0o600)

	cases := []struct {
		path string
		want error
	}{
		{good, nil},
		{"", entity.ErrMissingField},
		{filepath.Join(dir, "faq.xlsx"), entity.ErrUnsupportedSource},
		{filepath.Join(dir, "missing.pdf"), entity.ErrDocumentUnreadable},
		{empty, entity.ErrEmptyDocument},
	}

	for _, tc := range cases {
		err := NewValidator(config.DocumentConfig{Path: tc.path}).ValidateDocument()
		if tc.want == nil && err != nil {
			t.Errorf("%q: unexpected error %v", tc.path, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%q: err = %v, want %v", tc.path, err, tc.want)
		}
	}
}
