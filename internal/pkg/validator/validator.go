package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/entity"
)

var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".docx": true,
}

// Validator validates incoming questions and the configured source document
type Validator struct {
	cfg config.DocumentConfig
}

func NewValidator(cfg config.DocumentConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAsk checks that the question field is present. An empty string is
// a valid question and is passed through unchanged.
func (v *Validator) ValidateAsk(req *entity.AskRequest) error {
	if req == nil || req.Question == nil {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}
	return nil
}

// ValidateFormat parses the optional export format, defaulting to JSON.
func (v *Validator) ValidateFormat(raw string) (entity.ResultFormat, error) {
	if raw == "" {
		return entity.FormatJSON, nil
	}

	f := entity.ResultFormat(strings.ToLower(raw))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: format %q (allowed: json, markdown, docx, pdf)", entity.ErrInvalidParameter, raw)
	}
	return f, nil
}

// ValidateDocument checks the configured source document before an index
// build is attempted.
func (v *Validator) ValidateDocument() error {
	path := v.cfg.Path
	if path == "" {
		return fmt.Errorf("%w: document path", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !AllowedExtensions[ext] {
		return fmt.Errorf("%w: %s (allowed: pdf, txt, md, docx)", entity.ErrUnsupportedSource, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", entity.ErrDocumentUnreadable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", entity.ErrDocumentUnreadable, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", entity.ErrEmptyDocument, path)
	}

	return nil
}
