package handlers

import (
	"context"
)

// Handler kinds
const (
	HandlerKindText     = "TEXT"
	HandlerKindCallback = "CALLBACK"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	CallbackData string
	CallbackID   string
}

// Handler processes one kind of update
type Handler interface {
	Handle(ctx context.Context, msg *Message) error

	// Kind returns the update kind this handler serves
	Kind() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	kind          string
	messageSender *MessageSender
}

// Kind implements Handler
func (h *BaseHandler) Kind() string {
	return h.kind
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(chatID int64, text string, markup interface{}) {
	if h.messageSender != nil {
		h.messageSender.Send(chatID, text, markup)
	}
}

// IsValidKind checks if a kind is valid for handler registration
func IsValidKind(kind string) bool {
	return kind == HandlerKindText || kind == HandlerKindCallback
}
