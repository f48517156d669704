package src

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// HTTPGateway talks to an OpenAI-compatible chat completions endpoint.
type HTTPGateway struct {
	name        string
	url         string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
	logger      *slog.Logger
}

type chatRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewHTTPGateway(cfg Config, client *http.Client, logger *slog.Logger) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPGateway{
		name:        cfg.Provider,
		url:         cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      client,
		logger:      logger,
	}
}

func (g *HTTPGateway) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		Model:       g.model,
		Stream:      false,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", g.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", g.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	g.logger.DebugContext(ctx, "sending completion request",
		"provider", g.name,
		"model", g.model,
		"messages", len(messages),
	)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &TransportError{Provider: g.name, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Provider: g.name, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &GatewayError{Provider: g.name, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", g.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", g.name, ErrEmptyCompletion)
	}
	return out.Choices[0].Message.Content, nil
}
