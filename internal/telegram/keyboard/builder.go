package keyboard

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback actions
const (
	ActionDownload = "dl"
)

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// AnswerKeyboard offers the answer as a downloadable document.
func (b *Builder) AnswerKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 PDF", EncodeCallback(ActionDownload, "pdf")),
			tgbotapi.NewInlineKeyboardButtonData("📝 DOCX", EncodeCallback(ActionDownload, "docx")),
			tgbotapi.NewInlineKeyboardButtonData("🗒 Markdown", EncodeCallback(ActionDownload, "markdown")),
		),
	)
}
