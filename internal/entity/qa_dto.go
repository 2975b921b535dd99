package entity

import "fmt"

type ResultFormat string

const (
	FormatJSON     ResultFormat = "json"
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// AskRequest is the body of POST /ask. Question is a pointer so a missing
// field can be told apart from an empty string.
type AskRequest struct {
	Question *string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthFeatures struct {
	Model       string `json:"model"`
	VectorStore string `json:"vector_store"`
	Embeddings  string `json:"embeddings"`
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Features HealthFeatures `json:"features"`
}

// RenderAnswer turns a question/answer pair into the plain text body used by
// document exports.
func RenderAnswer(question, answer string) string {
	return fmt.Sprintf("Question: %s\n\nAnswer: %s", question, answer)
}
