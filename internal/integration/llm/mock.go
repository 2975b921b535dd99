package llm

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockAnswerLimit = 500

// MockConnector - мок-реализация LLM коннектора для локального запуска без ключа
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Model() string {
	return "mock-extractive"
}

// Complete - возвращает первый фрагмент контекста из промпта
func (m *MockConnector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer via LLM", zap.Int("prompt_length", len(prompt)))

	body := prompt
	if i := strings.LastIndex(body, "\n\nQuestion:"); i >= 0 {
		body = body[:i]
	}

	// First block is the instruction, the second one is the best match.
	blocks := strings.Split(body, "\n\n")
	if len(blocks) < 2 || strings.TrimSpace(blocks[1]) == "" {
		return " I don't know.", nil
	}

	answer := strings.TrimSpace(blocks[1])
	if r := []rune(answer); len(r) > mockAnswerLimit {
		answer = string(r[:mockAnswerLimit])
	}

	return " " + answer, nil
}
