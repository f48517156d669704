package src

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHTTPConfig(url string) Config {
	return Config{Provider: ProviderXAI, BaseURL: url, Model: "grok-beta", APIKey: "test-key"}
}

func TestHTTPGatewaySuccess(t *testing.T) {
	var body map[string]any
	var auth, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"1. Do it"}}]}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(testHTTPConfig(srv.URL), nil, nil)
	out, err := gw.Complete(context.Background(), []Message{SystemMessage("sys"), UserMessage("hello")})
	require.NoError(t, err)
	assert.Equal(t, "1. Do it", out)

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "grok-beta", body["model"])
	assert.Equal(t, false, body["stream"])
	assert.Equal(t, float64(0), body["temperature"])
	assert.Equal(t, []any{
		map[string]any{"role": "system", "content": "sys"},
		map[string]any{"role": "user", "content": "hello"},
	}, body["messages"])
}

func TestHTTPGatewayNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPGateway(testHTTPConfig(srv.URL), nil, nil).Complete(context.Background(), []Message{UserMessage("x")})
	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusTooManyRequests, gwErr.StatusCode)
	assert.Equal(t, `{"error":"slow down"}`, gwErr.Body)
	assert.Contains(t, err.Error(), "status 429")
}

func TestHTTPGatewayTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPGateway(testHTTPConfig(url), nil, nil).Complete(context.Background(), []Message{UserMessage("x")})
	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
	var gwErr *GatewayError
	assert.False(t, errors.As(err, &gwErr))
}

func TestHTTPGatewayEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewHTTPGateway(testHTTPConfig(srv.URL), nil, nil).Complete(context.Background(), []Message{UserMessage("x")})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestGatewayErrorTruncatesBody(t *testing.T) {
	err := &GatewayError{Provider: "xai", StatusCode: 500, Body: strings.Repeat("a", 5000)}
	assert.Less(t, len(err.Error()), 2100)
}

func TestFlattenConversation(t *testing.T) {
	got := flattenConversation([]Message{SystemMessage("be brief"), UserMessage("hi")})
	assert.Equal(t, "### SYSTEM\nbe brief\n\n### USER\nhi", got)
}
