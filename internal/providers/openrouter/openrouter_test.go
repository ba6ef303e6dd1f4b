package openrouter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"launchpad/internal/core"
	"launchpad/internal/llmclient"
)

func TestChatCompletion_AttributionHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			t.Errorf("Authorization header should start with 'Bearer '")
		}
		if r.Header.Get("HTTP-Referer") == "" {
			t.Error("HTTP-Referer attribution header should be set")
		}
		if got := r.Header.Get("X-Title"); got != "LaunchPad" {
			t.Errorf("X-Title = %q, want %q", got, "LaunchPad")
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read request body: %v", err)
		}
		var req core.ChatRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("failed to unmarshal request: %v", err)
		}
		if req.Model != "x-ai/grok-2-1212" {
			t.Errorf("Model = %q, want %q", req.Model, "x-ai/grok-2-1212")
		}
		if req.Temperature == nil || *req.Temperature != 0.7 {
			t.Errorf("Temperature = %v, want 0.7", req.Temperature)
		}
		if req.MaxTokens == nil || *req.MaxTokens != 1500 {
			t.Errorf("MaxTokens = %v, want 1500", req.MaxTokens)
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id": "gen-1",
			"model": "x-ai/grok-2-1212",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "## Headline"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 7, "total_tokens": 12}
		}`))
	}))
	defer server.Close()

	provider := NewWithHTTPClient("test-api-key", nil, llmclient.Hooks{})
	provider.SetBaseURL(server.URL)

	temp := 0.7
	maxTokens := 1500
	resp, err := provider.ChatCompletion(context.Background(), &core.ChatRequest{
		Model:       "x-ai/grok-2-1212",
		Messages:    core.PromptPair("You are a master copywriter.", "Product: Ai3DGen\nFeatures: one-click 3D"),
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Provider != "openrouter" {
		t.Errorf("Provider = %q, want %q", resp.Provider, "openrouter")
	}
	if got := resp.FirstContent(); got != "## Headline" {
		t.Errorf("FirstContent = %q, want %q", got, "## Headline")
	}
}

func TestChatCompletion_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantKind   core.ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"No auth credentials found"}}`, core.ErrorKindAuthentication},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"Rate limit exceeded"}}`, core.ErrorKindRateLimit},
		{"upstream failure", http.StatusBadGateway, `{"error":{"message":"Provider returned error"}}`, core.ErrorKindProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewWithHTTPClient("test-api-key", nil, llmclient.Hooks{})
			provider.SetBaseURL(server.URL)

			_, err := provider.ChatCompletion(context.Background(), &core.ChatRequest{
				Model:    "deepseek/deepseek-r1",
				Messages: core.PromptPair("sys", "user"),
			})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := core.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf = %q, want %q", got, tt.wantKind)
			}
			if !strings.Contains(err.Error(), "openrouter") {
				t.Errorf("error %q should name the provider", err.Error())
			}
		})
	}
}
