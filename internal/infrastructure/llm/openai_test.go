package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qizhangumich/arabian-news-process/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*OpenAIClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOpenAIClient(config.OpenAIConfig{
		Endpoint:        server.URL,
		ChatModel:       "gpt-3.5-turbo",
		CompletionModel: "gpt-3.5-turbo-instruct",
		APIKey:          "test-key",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestChatCompletion(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			MaxTokens int `json:"max_tokens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "gpt-3.5-turbo" || body.MaxTokens != 10 {
			t.Errorf("unexpected request: %+v", body)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", body.Messages)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"3"}}]}`))
	})

	got, err := client.ChatCompletion(context.Background(), "rate things", "rate this", 10)
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	if got != "3" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestCompletion(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "gpt-3.5-turbo-instruct" {
			t.Errorf("unexpected model: %s", body.Model)
		}

		_, _ = w.Write([]byte(`{"choices":[{"text":"a summary"}]}`))
	})

	got, err := client.Completion(context.Background(), "summarize this", 150)
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if got != "a summary" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestChatCompletionMalformedResponse(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.ChatCompletion(context.Background(), "s", "u", 10)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestChatCompletionAPIError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	})

	_, err := client.ChatCompletion(context.Background(), "s", "u", 10)
	if err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewOpenAIClient(config.OpenAIConfig{Endpoint: "https://api.openai.com/v1"}); err == nil {
		t.Fatal("expected error when api key missing")
	}
}
