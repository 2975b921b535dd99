package handlers

import (
	"context"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/pkg/formatter"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the Bot API the handlers talk to. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// QAUsecase answers a single question
type QAUsecase interface {
	Answer(ctx context.Context, question string) (*entity.Answer, error)
}

// FormatterFactory creates document formatters for answer downloads
type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
