// Package oracle provides the external text-generation collaborator.
//
// The oracle is stateless request/response: it performs no retries and no
// backoff of its own. Retries against contract violations are owned by the
// engine's retry controller; a transport or authentication failure here is
// unit-fatal upstream.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// secretPath is the container-secret fallback for the API key.
const secretPath = "/run/secrets/openai_api_key"

// OpenAIClient generates text via the OpenAI chat completions API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// NewOpenAIClient creates the client.
//
// The API key is read from OPENAI_API_KEY, falling back to the container
// secret file. Model and temperature are fixed per client; the engine passes
// them down from its own configuration.
func NewOpenAIClient(model string, temperature float32, logger *slog.Logger) (*OpenAIClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		keyBytes, err := os.ReadFile(secretPath)
		if err != nil {
			logger.Error("OPENAI_API_KEY environment variable not set and secret not found",
				slog.String("path", secretPath))
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		apiKey = strings.TrimSpace(string(keyBytes))
		logger.Info("Read the OpenAI API key from container secrets")
	}
	if model == "" {
		model = "gpt-4o-mini"
		logger.Warn("No model configured, defaulting to gpt-4o-mini")
	}
	logger.Info("Initializing OpenAI oracle",
		slog.String("model", model),
		slog.Float64("temperature", float64(temperature)),
	)
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}, nil
}

// Generate implements the engine's Oracle interface.
func (o *OpenAIClient) Generate(ctx context.Context, system, user string) (string, error) {
	o.logger.Debug("Requesting generation", slog.String("model", o.model))
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		o.logger.Error("OpenAI API call failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		o.logger.Warn("OpenAI returned no choices")
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	o.logger.Debug("Received generation",
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)))
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model identifier.
func (o *OpenAIClient) Model() string { return o.model }
