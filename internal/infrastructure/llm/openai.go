// Package llm implements ports.ChatClient against OpenAI-compatible APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qizhangumich/arabian-news-process/internal/config"
	"github.com/qizhangumich/arabian-news-process/internal/ports"
)

// ErrMalformedResponse marks an API reply missing the expected choice shape.
// The enricher treats it like any other request failure and moves on to the
// fallback endpoint.
var ErrMalformedResponse = errors.New("malformed completion response")

// OpenAIClient talks to the chat endpoint for primary requests and the legacy
// completions endpoint for fallback requests.
type OpenAIClient struct {
	endpoint        string
	chatModel       string
	completionModel string
	apiKey          string
	httpClient      *http.Client
}

var _ ports.ChatClient = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is not set")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("openai endpoint is not set")
	}

	return &OpenAIClient{
		endpoint:        strings.TrimSuffix(cfg.Endpoint, "/"),
		chatModel:       cfg.ChatModel,
		completionModel: cfg.CompletionModel,
		apiKey:          cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// ChatCompletion sends a system+user message pair to the chat endpoint and
// returns the first choice's message content.
func (c *OpenAIClient) ChatCompletion(ctx context.Context, system, user string, maxTokens int) (string, error) {
	body := map[string]any{
		"model": c.chatModel,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_tokens": maxTokens,
	}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := c.post(ctx, "/chat/completions", body, &reply); err != nil {
		return "", err
	}

	if len(reply.Choices) == 0 || reply.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat completion: %w", ErrMalformedResponse)
	}

	return reply.Choices[0].Message.Content, nil
}

// Completion sends a bare prompt to the legacy completions endpoint.
func (c *OpenAIClient) Completion(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := map[string]any{
		"model":      c.completionModel,
		"prompt":     prompt,
		"max_tokens": maxTokens,
	}

	var reply struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	}

	if err := c.post(ctx, "/completions", body, &reply); err != nil {
		return "", err
	}

	if len(reply.Choices) == 0 || reply.Choices[0].Text == "" {
		return "", fmt.Errorf("completion: %w", ErrMalformedResponse)
	}

	return reply.Choices[0].Text, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
