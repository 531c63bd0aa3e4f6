package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config binds the client to one provider endpoint and one set of
// sampling parameters. Temperature runs high for variety; MaxTokens
// keeps replies short; the penalties damp repetition.
type Config struct {
	BaseURL          string
	APIKey           string
	Model            string
	Temperature      float64
	MaxTokens        int
	PresencePenalty  float64
	FrequencyPenalty float64
}

type OpenAICompatibleClient struct {
	httpClient *http.Client
	cfg        Config
}

func NewOpenAICompatibleClient(cfg Config) *OpenAICompatibleClient {
	return &OpenAICompatibleClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		cfg:        cfg,
	}
}

// Complete issues one non-streaming chat completion request and
// returns the first choice's content.
func (c *OpenAICompatibleClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	reqBody := map[string]interface{}{
		"model":             c.cfg.Model,
		"messages":          messages,
		"temperature":       c.cfg.Temperature,
		"max_tokens":        c.cfg.MaxTokens,
		"stream":            false,
		"presence_penalty":  c.cfg.PresencePenalty,
		"frequency_penalty": c.cfg.FrequencyPenalty,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty llm choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
