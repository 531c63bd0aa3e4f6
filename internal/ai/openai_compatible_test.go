package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:          baseURL,
		APIKey:           "test-key",
		Model:            "deepseek-chat",
		Temperature:      0.9,
		MaxTokens:        60,
		PresencePenalty:  0.7,
		FrequencyPenalty: 0.7,
	}
}

func TestComplete_RequestShape(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"I hear you."}}]}`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient(testConfig(server.URL))
	reply, err := client.Complete(context.Background(), []ChatMessage{
		{Role: "system", Content: "be kind"},
		{Role: "user", Content: "argh"},
	})
	require.NoError(t, err)
	assert.Equal(t, "I hear you.", reply)

	assert.Equal(t, "deepseek-chat", got["model"])
	assert.Equal(t, 0.9, got["temperature"])
	assert.Equal(t, float64(60), got["max_tokens"])
	assert.Equal(t, false, got["stream"])
	assert.Equal(t, 0.7, got["presence_penalty"])
	assert.Equal(t, 0.7, got["frequency_penalty"])

	messages, ok := got["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestComplete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient(testConfig(server.URL))
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient(testConfig(server.URL))
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty llm choices")
}

func TestComplete_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient(testConfig(server.URL))
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "x"}})
	require.Error(t, err)
}
