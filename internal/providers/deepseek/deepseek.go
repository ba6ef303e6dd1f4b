// Package deepseek provides the DeepSeek chat-completion adapter, the default
// deep-reasoning backend. Reasoning models either separate their thinking into
// the reasoning_content field or inline it ahead of a </think> marker; the
// dispatch normalizer handles the latter.
package deepseek

import (
	"context"
	"net/http"

	"launchpad/internal/core"
	"launchpad/internal/llmclient"
	"launchpad/internal/providers"
)

// Registration provides factory registration for the DeepSeek provider.
var Registration = providers.Registration{
	Type:          "deepseek",
	CredentialEnv: "DEEPSEEK_API_KEY",
	New:           New,
}

const defaultBaseURL = "https://api.deepseek.com/v1"

// Provider implements the core.Provider interface for DeepSeek
type Provider struct {
	client *llmclient.Client
	apiKey string
}

// New creates a new DeepSeek provider.
func New(apiKey string, opts providers.Options) core.Provider {
	p := &Provider{apiKey: apiKey}
	cfg := llmclient.Config{
		ProviderName: "deepseek",
		BaseURL:      defaultBaseURL,
		Timeout:      opts.Timeout,
		Hooks:        opts.Hooks,
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	p.client = llmclient.New(cfg, p.setHeaders)
	return p
}

// NewWithHTTPClient creates a new DeepSeek provider with a custom HTTP client.
// If httpClient is nil, http.DefaultClient is used.
func NewWithHTTPClient(apiKey string, httpClient *http.Client, hooks llmclient.Hooks) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	p := &Provider{apiKey: apiKey}
	cfg := llmclient.DefaultConfig("deepseek", defaultBaseURL)
	cfg.Hooks = hooks
	p.client = llmclient.NewWithHTTPClient(httpClient, cfg, p.setHeaders)
	return p
}

// SetBaseURL allows configuring a custom base URL for the provider
func (p *Provider) SetBaseURL(url string) {
	p.client.SetBaseURL(url)
}

// setHeaders sets the required headers for DeepSeek API requests
func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	// Forward request ID if present in context
	if requestID := core.GetRequestID(req.Context()); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
}

// ChatCompletion sends a chat completion request to DeepSeek
func (p *Provider) ChatCompletion(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	var resp core.ChatResponse
	err := p.client.Do(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/chat/completions",
		Body:     req,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Model == "" {
		resp.Model = req.Model
	}
	resp.Provider = "deepseek"
	return &resp, nil
}
