package handlers

import (
	"context"
	"fmt"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/pkg/formatter"
	"github.com/futig/faq-backend/internal/pkg/logger"
	"github.com/futig/faq-backend/internal/telegram/keyboard"
	"github.com/futig/faq-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DownloadHandler sends the last answer of a chat as a document
type DownloadHandler struct {
	BaseHandler
	bot        Sender
	formatters FormatterFactory
	answers    *AnswerStore
}

func NewDownloadHandler(
	bot Sender,
	formatters FormatterFactory,
	answers *AnswerStore,
	logger *zap.Logger,
) *DownloadHandler {
	return &DownloadHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindCallback,
			messageSender: NewMessageSender(bot, logger),
		},
		bot:        bot,
		formatters: formatters,
		answers:    answers,
	}
}

func (h *DownloadHandler) Handle(ctx context.Context, msg *Message) error {
	ctx = logger.WithAction(ctx, "TelegramDownload")
	defer h.messageSender.AnswerCallback(msg.CallbackID, "")

	cb, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil || cb.Action != keyboard.ActionDownload {
		return fmt.Errorf("%w: callback %q", entity.ErrInvalidParameter, msg.CallbackData)
	}

	answer, ok := h.answers.Get(msg.ChatID)
	if !ok {
		h.sendMessage(msg.ChatID, render.MsgExportExpired, nil)
		return nil
	}

	f, err := h.formatters.Create(entity.ResultFormat(cb.Value))
	if err != nil {
		return err
	}

	body, err := f.Format(formatter.DefaultTitle, entity.RenderAnswer(answer.Question, answer.Text))
	if err != nil {
		return fmt.Errorf("format answer: %w", err)
	}

	doc := tgbotapi.NewDocument(msg.ChatID, tgbotapi.FileBytes{
		Name:  "answer" + f.FileExtension(),
		Bytes: body,
	})
	if err := deliver(ctx, h.bot, doc, msg.ChatID); err != nil {
		return err
	}

	ctxzap.Info(ctx, "answer exported",
		zap.String("format", cb.Value),
		zap.Int("bytes", len(body)),
	)
	return nil
}
