package handlers

import (
	"context"
	"time"

	"github.com/futig/faq-backend/internal/pkg/logger"
	"github.com/futig/faq-backend/internal/telegram/keyboard"
	"github.com/futig/faq-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AskHandler answers plain text messages
type AskHandler struct {
	BaseHandler
	bot         Sender
	usecase     QAUsecase
	answers     *AnswerStore
	keyboard    *keyboard.Builder
	typingEvery time.Duration
}

func NewAskHandler(
	bot Sender,
	usecase QAUsecase,
	answers *AnswerStore,
	kb *keyboard.Builder,
	logger *zap.Logger,
) *AskHandler {
	return &AskHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindText,
			messageSender: NewMessageSender(bot, logger),
		},
		bot:         bot,
		usecase:     usecase,
		answers:     answers,
		keyboard:    kb,
		typingEvery: typingInterval,
	}
}

func (h *AskHandler) Handle(ctx context.Context, msg *Message) error {
	ctx = logger.WithAction(ctx, "TelegramAsk")
	ctx = logger.AddFields(ctx, zap.Int64("chat_id", msg.ChatID))

	stop := startTyping(ctx, h.bot, msg.ChatID, h.typingEvery)
	answer, err := h.usecase.Answer(ctx, msg.Text)
	stop()

	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	h.answers.Put(msg.ChatID, answer)

	reply := tgbotapi.NewMessage(msg.ChatID, render.RenderAnswer(answer.Text))
	reply.ReplyToMessageID = msg.MessageID
	reply.ReplyMarkup = h.keyboard.AnswerKeyboard()

	if err := deliver(ctx, h.bot, reply, msg.ChatID); err != nil {
		return err
	}

	ctxzap.Info(ctx, "answer delivered", zap.Int("answer_length", len(answer.Text)))
	return nil
}
