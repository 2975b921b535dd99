package llm

import (
	"context"
	"errors"
	"math"

	"github.com/futig/faq-backend/internal/config"
	"github.com/futig/faq-backend/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// zeroTemperature is the smallest temperature go-openai will serialise;
// a literal 0 is dropped by omitempty and the API default (1) applies.
const zeroTemperature = math.SmallestNonzeroFloat32

var ErrEmptyCompletion = errors.New("completion returned no choices")

// Connector sends prompts to an OpenAI completions model with deterministic
// sampling and a bounded output length.
type Connector struct {
	config config.LLMConnectorConfig
	client *openai.Client
	logger *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	token string,
	logger *zap.Logger,
) *Connector {
	clientCfg := cfg.HTTPClientConfig
	clientCfg.Token = ""

	return &Connector{
		config: cfg,
		client: common.NewOpenAIClient(clientCfg, token),
		logger: logger,
	}
}

// Model returns the configured completion model.
func (c *Connector) Model() string {
	return c.config.Model
}

// Complete returns the generated text for prompt, unmodified.
func (c *Connector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "generating answer via LLM service",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	var resp openai.CompletionResponse
	err := c.config.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.client.CreateCompletion(ctx, openai.CompletionRequest{
			Model:       c.config.Model,
			Prompt:      prompt,
			MaxTokens:   c.config.MaxTokens,
			Temperature: zeroTemperature,
		})
		if err != nil {
			ctxzap.Warn(ctx, "completion request failed", zap.Error(err))
		}
		return err
	}, common.IsRetryableOpenAIError)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	fields := []zap.Field{
		zap.Int("result_length", len(resp.Choices[0].Text)),
		zap.String("finish_reason", resp.Choices[0].FinishReason),
	}
	if resp.Usage != nil {
		fields = append(fields, zap.Int("total_tokens", resp.Usage.TotalTokens))
	}
	ctxzap.Info(ctx, "answer generated successfully", fields...)

	return resp.Choices[0].Text, nil
}
