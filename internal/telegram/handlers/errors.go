package handlers

import (
	"context"
	"errors"
	"net"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityCritical
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError picks the log severity for err. Users only ever get
// the generic text, or the timeout text when they simply waited too long.
func classifyHandlerError(err error) *HandlerError {
	if err == nil {
		return &HandlerError{
			UserMessage: render.ErrGeneric,
			LogMessage:  "unknown error",
			Severity:    SeverityWarning,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrTimeout,
			LogMessage:  "operation timed out",
			Severity:    SeverityError,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrTimeout,
			LogMessage:  "network timeout",
			Severity:    SeverityError,
		}
	}

	switch {
	case errors.Is(err, entity.ErrIndexUnavailable), errors.Is(err, entity.ErrEmbeddingModelMismatch):
		// The bot cannot answer anyone until the index is rebuilt.
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrGeneric,
			LogMessage:  "index is not usable",
			Severity:    SeverityCritical,
		}
	case errors.Is(err, context.Canceled):
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrGeneric,
			LogMessage:  "request cancelled",
			Severity:    SeverityWarning,
		}
	}

	return &HandlerError{
		Err:         err,
		UserMessage: render.ErrGeneric,
		LogMessage:  "failed to answer question",
		Severity:    SeverityError,
	}
}

// HandleError logs err with its severity and sends the user a safe message.
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)
	fields := []zap.Field{
		zap.Error(handlerErr.Err),
		zap.String("error_kind", entity.ErrorKind(err)),
		zap.String("severity", handlerErr.Severity.String()),
		zap.Int64("chat_id", chatID),
	}

	switch handlerErr.Severity {
	case SeverityCritical, SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage, fields...)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage, fields...)
	}

	h.sendMessage(chatID, handlerErr.UserMessage, nil)
}
