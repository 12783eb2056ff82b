package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

func TestGenerate_SendsPromptAsUserMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "What is the warranty period?", req.Messages[0].Content)
		assert.Equal(t, 300, req.MaxTokens)
		assert.InDelta(t, 0.2, req.Temperature, 1e-9)

		fmt.Fprint(w, `{"choices":[{"message":{"content":"Two years."},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)

	text, err := svc.Generate(context.Background(), "What is the warranty period?", driven.GenerateOptions{
		MaxTokens:   300,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Two years.", text)
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"auth"}}`)
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: srv.URL, APIKey: "bad-key"})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "q", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "q", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}
