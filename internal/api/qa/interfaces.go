package qa

import (
	"context"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/pkg/formatter"
)

type QAUsecase interface {
	Answer(ctx context.Context, question string) (*entity.Answer, error)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
