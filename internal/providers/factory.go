// Package providers provides registration and construction of provider adapters.
package providers

import (
	"sort"
	"time"

	"launchpad/internal/core"
	"launchpad/internal/llmclient"
)

// Options carries per-instantiation settings for a provider adapter.
type Options struct {
	// BaseURL overrides the provider's default endpoint when non-empty.
	BaseURL string
	// Timeout bounds each call when the caller's context has no deadline.
	// Zero means llmclient.DefaultTimeout.
	Timeout time.Duration
	// Hooks are passed through to the underlying llmclient.
	Hooks llmclient.Hooks
}

// Registration declares a provider adapter to the factory. Provider packages
// export one of these; wiring code registers them explicitly — there is no
// ambient global registry.
type Registration struct {
	// Type is the canonical provider name ("groq", "deepseek", ...).
	Type string
	// CredentialEnv names the environment variable (and secrets-store key)
	// holding this provider's secret.
	CredentialEnv string
	// New constructs an adapter bound to the resolved credential.
	New func(apiKey string, opts Options) core.Provider
}

// Factory creates provider adapters from registrations.
type Factory struct {
	registrations map[string]Registration
	hooks         llmclient.Hooks
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{registrations: make(map[string]Registration)}
}

// Register adds a provider registration. Later registrations of the same type win.
func (f *Factory) Register(reg Registration) {
	f.registrations[reg.Type] = reg
}

// SetHooks installs observability hooks applied to every adapter the factory
// creates. Must be called before Create.
func (f *Factory) SetHooks(hooks llmclient.Hooks) {
	f.hooks = hooks
}

// Known reports whether providerType is registered.
func (f *Factory) Known(providerType string) bool {
	_, ok := f.registrations[providerType]
	return ok
}

// CredentialEnv returns the credential key for providerType.
// A core.ErrorKindUnknownProvider error is returned for unregistered types.
func (f *Factory) CredentialEnv(providerType string) (string, error) {
	reg, ok := f.registrations[providerType]
	if !ok {
		return "", core.NewUnknownProviderError(providerType)
	}
	return reg.CredentialEnv, nil
}

// Create instantiates an adapter for providerType bound to apiKey.
// A core.ErrorKindUnknownProvider error is returned for unregistered types.
func (f *Factory) Create(providerType, apiKey string, opts Options) (core.Provider, error) {
	reg, ok := f.registrations[providerType]
	if !ok {
		return nil, core.NewUnknownProviderError(providerType)
	}
	if f.hooks.OnRequest != nil || f.hooks.OnResponse != nil || f.hooks.OnError != nil {
		opts.Hooks = f.hooks
	}
	return reg.New(apiKey, opts), nil
}

// Registered returns all registered provider types, sorted for stable output.
func (f *Factory) Registered() []string {
	types := make([]string, 0, len(f.registrations))
	for t := range f.registrations {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
