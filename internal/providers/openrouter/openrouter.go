// Package openrouter provides the OpenRouter chat-completion adapter.
// OpenRouter fronts many upstream models behind one OpenAI-compatible
// endpoint and wants app attribution headers on every request.
package openrouter

import (
	"context"
	"net/http"

	"launchpad/internal/core"
	"launchpad/internal/llmclient"
	"launchpad/internal/providers"
)

// Registration provides factory registration for the OpenRouter provider.
var Registration = providers.Registration{
	Type:          "openrouter",
	CredentialEnv: "OPENROUTER_API_KEY",
	New:           New,
}

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"

	// Attribution headers OpenRouter uses for app rankings.
	refererHeader = "https://launchpad-app.example.com"
	titleHeader   = "LaunchPad"
)

// Provider implements the core.Provider interface for OpenRouter
type Provider struct {
	client *llmclient.Client
	apiKey string
}

// New creates a new OpenRouter provider.
func New(apiKey string, opts providers.Options) core.Provider {
	p := &Provider{apiKey: apiKey}
	cfg := llmclient.Config{
		ProviderName: "openrouter",
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

// NewWithHTTPClient creates a new OpenRouter provider with a custom HTTP client.
// If httpClient is nil, http.DefaultClient is used.
func NewWithHTTPClient(apiKey string, httpClient *http.Client, hooks llmclient.Hooks) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	p := &Provider{apiKey: apiKey}
	cfg := llmclient.DefaultConfig("openrouter", defaultBaseURL)
	cfg.Hooks = hooks
	p.client = llmclient.NewWithHTTPClient(httpClient, cfg, p.setHeaders)
	return p
}

// SetBaseURL allows configuring a custom base URL for the provider
func (p *Provider) SetBaseURL(url string) {
	p.client.SetBaseURL(url)
}

// setHeaders sets the required headers for OpenRouter API requests
func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("HTTP-Referer", refererHeader)
	req.Header.Set("X-Title", titleHeader)

	// Forward request ID if present in context
	if requestID := core.GetRequestID(req.Context()); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
}

// ChatCompletion sends a chat completion request to OpenRouter
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
	resp.Provider = "openrouter"
	return &resp, nil
}
