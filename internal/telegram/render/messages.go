package render

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Telegram rejects messages longer than this many characters.
const MaxMessageLength = 4096

const (
	MsgWelcome = `👋 Hi! I answer questions about our FAQ.

Just send me your question as a text message.`

	MsgHelp = `🤖 Commands:

/start - Show the welcome message
/help - Show this help

Send any question as text. After the answer you can download it as PDF or DOCX.`

	MsgTextOnly       = `✏️ I can only read text messages. Please type your question.`
	MsgUnknownCommand = `❓ Unknown command. Use /help`
	MsgEmptyAnswer    = `🤷 I don't know.`
	MsgExportExpired  = `⌛ This answer is no longer available for download. Ask the question again.`
	MsgRateLimited    = `⚠️ Rate limit exceeded: %s. Please wait a little.`

	// ErrGeneric is the only failure text users see for pipeline errors.
	ErrGeneric = `Error processing your question. Please try again.`
	ErrTimeout = `⌛ The request took too long. Please try again.`
)

// RenderRateLimited formats the warning sent to a throttled user.
func RenderRateLimited(limit string) string {
	return fmt.Sprintf(MsgRateLimited, limit)
}

// RenderAnswer prepares model output for a chat message. Blank answers get a
// placeholder since Telegram refuses empty text.
func RenderAnswer(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return MsgEmptyAnswer
	}
	return Truncate(text, MaxMessageLength)
}

// Truncate cuts s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
