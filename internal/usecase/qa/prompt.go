package qa

import (
	"strings"

	"github.com/futig/faq-backend/internal/entity"
)

const promptTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

{context}

Question: {question}
Helpful Answer:`

// BuildPrompt fills the answer template with the retrieved segment texts in
// rank order, separated by blank lines.
func BuildPrompt(question string, hits []entity.ScoredSegment) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = h.Text
	}

	r := strings.NewReplacer(
		"{context}", strings.Join(parts, "\n\n"),
		"{question}", question,
	)
	return r.Replace(promptTemplate)
}
