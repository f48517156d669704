package src

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }
func UserMessage(content string) Message   { return Message{Role: RoleUser, Content: content} }

// Gateway sends a conversation to a completion service and returns the reply text.
// Implementations make exactly one request per call and never retry.
type Gateway interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// GatewayFunc adapts a plain function to the Gateway interface.
type GatewayFunc func(ctx context.Context, messages []Message) (string, error)

func (f GatewayFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

var ErrEmptyCompletion = errors.New("completion contained no choices")

// GatewayError is returned when the provider answers with a non-success status.
type GatewayError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 2048 {
		body = body[:2048] + "…"
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, body)
}

// TransportError wraps failures reaching the provider at all (dial, DNS, reset, timeout).
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// flattenConversation renders messages as one prompt for providers that only
// accept a single text input.
func flattenConversation(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("### ")
		b.WriteString(strings.ToUpper(string(m.Role)))
		b.WriteString("\n")
		b.WriteString(m.Content)
	}
	return b.String()
}
