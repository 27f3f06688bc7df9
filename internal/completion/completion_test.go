package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nguyentantai21042004/synopsis-flow/internal/config"
	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
)

func TestNewProviderSelection(t *testing.T) {
	log := logger.NewNop()

	tests := []struct {
		name    string
		cfg     config.CompletionConfig
		wantErr bool
	}{
		{"gemini with key", config.CompletionConfig{Provider: "gemini", APIKeys: []string{"k"}}, false},
		{"gemini without key", config.CompletionConfig{Provider: "gemini"}, true},
		{"openai with key", config.CompletionConfig{Provider: "openai", APIKeys: []string{"k"}}, false},
		{"openai local server", config.CompletionConfig{Provider: "openai", BaseURL: "http://localhost:8080/v1"}, false},
		{"openai without key or url", config.CompletionConfig{Provider: "openai"}, true},
		{"unknown provider", config.CompletionConfig{Provider: "yandexgpt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, log)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenAIComplete(t *testing.T) {
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "- point - 00:10"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(config.CompletionConfig{Model: "test-model", BaseURL: srv.URL + "/v1/"}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}

	out, err := c.Complete(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "- point - 00:10" {
		t.Errorf("Complete() = %q", out)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("model = %q, want test-model", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "system text" ||
		gotReq.Messages[1].Role != "user" || gotReq.Messages[1].Content != "user text" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestOpenAIKeepsZeroTemperature(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"index": 0, "message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer srv.Close()

	zero := float32(0)
	c, err := NewOpenAI(config.CompletionConfig{BaseURL: srv.URL, Temperature: &zero}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	if _, err := c.Complete(context.Background(), "s", "u"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	temp, ok := body["temperature"].(float64)
	if !ok {
		t.Fatalf("temperature missing from request: %v", body)
	}
	if temp > 1e-6 {
		t.Errorf("temperature = %v, want ~0", temp)
	}
}

func TestOpenAIServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "context length exceeded", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(config.CompletionConfig{BaseURL: srv.URL}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}

	_, err = c.Complete(context.Background(), "s", "u")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Complete() error = %v, want *ServiceError", err)
	}
	if svcErr.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", svcErr.Provider)
	}
}

func TestGeminiRotatesKeysOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	var (
		mu       sync.Mutex
		keysSeen []string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		key := r.Header.Get("x-goog-api-key")
		mu.Lock()
		keysSeen = append(keysSeen, key)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if key == "exhausted-key" {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
			return
		}
		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "Title: "}, {"text": "Lecture"}]}}]}`))
	}))
	defer srv.Close()

	c, err := NewGemini(config.CompletionConfig{
		APIKeys: []string{"exhausted-key", "good-key"},
		BaseURL: srv.URL,
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewGemini() error = %v", err)
	}

	out, err := c.Complete(context.Background(), "name it", "transcript")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "Title: Lecture" {
		t.Errorf("Complete() = %q, want %q", out, "Title: Lecture")
	}
	mu.Lock()
	seen := append([]string(nil), keysSeen...)
	mu.Unlock()
	if len(seen) < 2 || seen[0] != "exhausted-key" || seen[len(seen)-1] != "good-key" {
		t.Errorf("keys used = %v, want rotation from exhausted-key to good-key", seen)
	}

	// The working key stays selected for the next call.
	before := calls.Load()
	if _, err := c.Complete(context.Background(), "s", "u"); err != nil {
		t.Fatalf("second Complete() error = %v", err)
	}
	if calls.Load()-before != 1 {
		t.Errorf("second call used %d requests, want 1", calls.Load()-before)
	}
}

func TestGeminiAllKeysExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c, err := NewGemini(config.CompletionConfig{APIKeys: []string{"a", "b"}, BaseURL: srv.URL}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewGemini() error = %v", err)
	}

	_, err = c.Complete(context.Background(), "s", "u")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.Reason != "all API keys exhausted" {
		t.Fatalf("Complete() error = %v, want exhausted ServiceError", err)
	}
}

func TestCompleterFunc(t *testing.T) {
	var c Completer = CompleterFunc(func(ctx context.Context, system, user string) (string, error) {
		return system + "|" + user, nil
	})
	out, _ := c.Complete(context.Background(), "a", "b")
	if out != "a|b" {
		t.Errorf("CompleterFunc.Complete() = %q", out)
	}
}
