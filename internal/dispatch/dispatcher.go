// Package dispatch routes a prompt pair to exactly one provider adapter and
// normalizes the completion. Every call is stateless and independent: one
// provider, one credential, one outbound request — no partial results and no
// multi-turn memory.
package dispatch

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"launchpad/internal/core"
	"launchpad/internal/credentials"
	"launchpad/internal/providers"
)

// Engine aliases map intent to a concrete provider type. Call sites may also
// name a registered provider type directly.
const (
	EngineFast      = "fast"
	EngineReasoning = "reasoning"
)

// Defaults applied when a request leaves tuning parameters unset.
// The band observed across use-cases is temperature 0.6-0.7 and
// 1024-2000 output tokens.
const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1500
)

// Request is the inbound contract: a role-scoped instruction pair plus an
// optional provider/model override. The zero Engine falls back to the
// dispatcher's configured default.
type Request struct {
	// Engine selects the backend: an alias ("fast", "reasoning") or a
	// registered provider type ("groq", "deepseek", "openrouter").
	Engine string
	// Model overrides the provider's configured default model.
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64
	MaxTokens    *int
}

// Result is a successful dispatch: the normalized completion plus call metadata.
type Result struct {
	Text     string     `json:"text"`
	Provider string     `json:"provider"`
	Model    string     `json:"model"`
	Usage    core.Usage `json:"usage"`
}

// Config holds dispatcher wiring. No ambient globals: everything the
// dispatcher consults arrives here or in the constructor arguments.
type Config struct {
	// Engines maps aliases to provider types. Empty gets DefaultEngines.
	Engines map[string]string
	// DefaultEngine is used when a request names no engine. Empty means EngineFast.
	DefaultEngine string
	// Models maps provider types to their default model.
	Models map[string]string
	// BaseURLs overrides provider endpoints, keyed by provider type.
	BaseURLs map[string]string
	// Timeout bounds each provider call when the caller's context carries no
	// deadline. Zero means the llmclient default (30s).
	Timeout time.Duration
}

// DefaultEngines is the stock alias table: fast generation on Groq, deep
// reasoning on DeepSeek.
func DefaultEngines() map[string]string {
	return map[string]string{
		EngineFast:      "groq",
		EngineReasoning: "deepseek",
	}
}

// Dispatcher selects one provider adapter per call and routes the prompt pair
// to it.
type Dispatcher struct {
	factory  *providers.Factory
	resolver *credentials.Resolver
	engines  map[string]string
	models   map[string]string
	baseURLs map[string]string
	defaults string
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a dispatcher. factory and resolver are required.
func New(factory *providers.Factory, resolver *credentials.Resolver, cfg Config) *Dispatcher {
	engines := cfg.Engines
	if len(engines) == 0 {
		engines = DefaultEngines()
	}
	defaultEngine := cfg.DefaultEngine
	if defaultEngine == "" {
		defaultEngine = EngineFast
	}
	return &Dispatcher{
		factory:  factory,
		resolver: resolver,
		engines:  engines,
		models:   cfg.Models,
		baseURLs: cfg.BaseURLs,
		defaults: defaultEngine,
		timeout:  cfg.Timeout,
		logger:   slog.Default(),
	}
}

// Dispatch executes one call: resolve the provider, resolve its credential,
// issue a single request, normalize the result. Failures come back as
// *core.DispatchError; a missing credential short-circuits before any adapter
// is constructed, so no network attempt is ever made for it.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	providerType, err := d.resolveEngine(req.Engine)
	if err != nil {
		return nil, err
	}

	envKey, err := d.factory.CredentialEnv(providerType)
	if err != nil {
		return nil, err
	}
	apiKey, ok := d.resolver.Resolve(envKey)
	if !ok {
		return nil, core.NewMissingCredentialError(providerType, envKey)
	}

	provider, err := d.factory.Create(providerType, apiKey, providers.Options{
		BaseURL: d.baseURLs[providerType],
		Timeout: d.timeout,
	})
	if err != nil {
		return nil, err
	}

	chatReq := d.buildChatRequest(providerType, req)

	start := time.Now()
	resp, err := provider.ChatCompletion(ctx, chatReq)
	if err != nil {
		d.logger.Warn("dispatch failed",
			"provider", providerType,
			"model", chatReq.Model,
			"kind", core.KindOf(err),
			"duration", time.Since(start),
			"request_id", core.GetRequestID(ctx),
		)
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, core.NewProviderError(providerType, http.StatusBadGateway, "response contained no choices", nil)
	}

	model := resp.Model
	if model == "" {
		model = chatReq.Model
	}

	d.logger.Info("dispatch completed",
		"provider", providerType,
		"model", model,
		"total_tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start),
		"request_id", core.GetRequestID(ctx),
	)

	return &Result{
		Text:     StripReasoning(resp.FirstContent()),
		Provider: providerType,
		Model:    model,
		Usage:    resp.Usage,
	}, nil
}

// resolveEngine maps the request's engine choice to a registered provider
// type. Aliases are checked first, then concrete provider types. Anything
// else is an explicit unknown_provider failure, never a silent fallthrough.
func (d *Dispatcher) resolveEngine(engine string) (string, error) {
	engine = strings.TrimSpace(engine)
	if engine == "" {
		engine = d.defaults
	}
	if providerType, ok := d.engines[engine]; ok {
		return providerType, nil
	}
	if d.factory.Known(engine) {
		return engine, nil
	}
	return "", core.NewUnknownProviderError(engine)
}

// buildChatRequest assembles the two-message exchange with per-call tuning,
// falling back to the provider's configured default model and the stock
// tuning band.
func (d *Dispatcher) buildChatRequest(providerType string, req Request) *core.ChatRequest {
	model := req.Model
	if model == "" {
		model = d.models[providerType]
	}

	temperature := req.Temperature
	if temperature == nil {
		t := defaultTemperature
		temperature = &t
	}
	maxTokens := req.MaxTokens
	if maxTokens == nil {
		m := defaultMaxTokens
		maxTokens = &m
	}

	return &core.ChatRequest{
		Model:       model,
		Messages:    core.PromptPair(req.SystemPrompt, req.UserPrompt),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}
