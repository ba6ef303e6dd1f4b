// Package groq provides the Groq chat-completion adapter, the default
// fast-generation backend.
package groq

import (
	"context"
	"net/http"

	"launchpad/internal/core"
	"launchpad/internal/llmclient"
	"launchpad/internal/providers"
)

// Registration provides factory registration for the Groq provider.
var Registration = providers.Registration{
	Type:          "groq",
	CredentialEnv: "GROQ_API_KEY",
	New:           New,
}

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Provider implements the core.Provider interface for Groq
type Provider struct {
	client *llmclient.Client
	apiKey string
}

// New creates a new Groq provider.
func New(apiKey string, opts providers.Options) core.Provider {
	p := &Provider{apiKey: apiKey}
	cfg := llmclient.Config{
		ProviderName: "groq",
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

// NewWithHTTPClient creates a new Groq provider with a custom HTTP client.
// If httpClient is nil, http.DefaultClient is used.
func NewWithHTTPClient(apiKey string, httpClient *http.Client, hooks llmclient.Hooks) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	p := &Provider{apiKey: apiKey}
	cfg := llmclient.DefaultConfig("groq", defaultBaseURL)
	cfg.Hooks = hooks
	p.client = llmclient.NewWithHTTPClient(httpClient, cfg, p.setHeaders)
	return p
}

// SetBaseURL allows configuring a custom base URL for the provider
func (p *Provider) SetBaseURL(url string) {
	p.client.SetBaseURL(url)
}

// setHeaders sets the required headers for Groq API requests
func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	// Forward request ID if present in context
	if requestID := core.GetRequestID(req.Context()); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
}

// ChatCompletion sends a chat completion request to Groq
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
	resp.Provider = "groq"
	return &resp, nil
}
