package qa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/futig/faq-backend/internal/pkg/formatter"
	"github.com/futig/faq-backend/internal/pkg/logger"
	"github.com/futig/faq-backend/internal/pkg/response"
	"github.com/futig/faq-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	maxBodyBytes = 1 << 20

	// GenericErrorDetail is the only failure message clients ever see for
	// pipeline errors.
	GenericErrorDetail = "Error processing your question. Please try again."
)

type Handler struct {
	usecase    QAUsecase
	formatters FormatterFactory
	validator  *validator.Validator
}

func NewHandler(
	usecase QAUsecase,
	formatters FormatterFactory,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		usecase:    usecase,
		formatters: formatters,
		validator:  validator,
	}
}

// Ask handles POST /ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	format, err := h.validator.ValidateFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "format: unsupported value, use json, markdown, docx or pdf", err)
		return
	}

	var req entity.AskRequest
	if status, detail, err := decodeAsk(w, r, &req); err != nil {
		h.respondError(ctx, w, status, detail, err)
		return
	}

	if err := h.validator.ValidateAsk(&req); err != nil {
		h.respondError(ctx, w, http.StatusUnprocessableEntity, "question: field required", err)
		return
	}

	ctxzap.Info(ctx, "answering question",
		zap.Int("question_length", len(*req.Question)),
		zap.String("format", string(format)),
	)

	answer, err := h.usecase.Answer(ctx, *req.Question)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if format == entity.FormatJSON {
		response.Success(w, &entity.AskResponse{Answer: answer.Text})
		return
	}

	h.respondDocument(ctx, w, format, answer)
}

// decodeAsk reads the request body. Syntax errors are a bad request; a body
// that is valid JSON but of the wrong shape is unprocessable.
func decodeAsk(w http.ResponseWriter, r *http.Request, req *entity.AskRequest) (int, string, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(body).Decode(req)
	if err == nil {
		return 0, "", nil
	}

	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &typeErr):
		return http.StatusUnprocessableEntity, "question: value must be a string", errors.Join(entity.ErrInvalidFormat, err)
	case errors.As(err, &sizeErr):
		return http.StatusRequestEntityTooLarge, "request body too large", err
	default:
		return http.StatusBadRequest, "invalid JSON body", errors.Join(entity.ErrInvalidFormat, err)
	}
}

func (h *Handler) respondDocument(ctx context.Context, w http.ResponseWriter, format entity.ResultFormat, answer *entity.Answer) {
	f, err := h.formatters.Create(format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	body, err := f.Format(formatter.DefaultTitle, entity.RenderAnswer(answer.Question, answer.Text))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "answer exported", zap.String("format", string(format)), zap.Int("bytes", len(body)))
	response.Attachment(w, f.ContentType(), "answer"+f.FileExtension(), body)
}

// Helper methods
func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, detail string, err error) {
	if err != nil {
		ctxzap.Warn(ctx, detail, zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, detail, zap.Int("status", status))
	}
	response.Error(w, status, detail)
}

// handleUsecaseError logs the failing stage and answers with the generic
// message. Provider error details never reach the client.
func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "failed to answer question",
		zap.String("error_kind", entity.ErrorKind(err)),
		zap.Error(err),
	)
	response.Error(w, http.StatusInternalServerError, GenericErrorDetail)
}
