package src

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGateway uses the go-openai SDK against any OpenAI-compatible base URL.
type OpenAIGateway struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

func NewOpenAIGateway(cfg Config, httpClient *http.Client, logger *slog.Logger) *OpenAIGateway {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/chat/completions")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	oc.HTTPClient = httpClient
	if logger == nil {
		logger = slog.Default()
	}

	// go-openai drops a zero temperature from the request body.
	temp := float32(cfg.Temperature)
	if temp == 0 {
		temp = math.SmallestNonzeroFloat32
	}
	return &OpenAIGateway{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: temp,
		logger:      logger,
	}
}

func (g *OpenAIGateway) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Stream:      false,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	g.logger.DebugContext(ctx, "sending completion request", "provider", "openai", "model", g.model)

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &GatewayError{Provider: "openai", StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &GatewayError{Provider: "openai", StatusCode: reqErr.HTTPStatusCode, Body: body}
	}
	return &TransportError{Provider: "openai", Err: err}
}
