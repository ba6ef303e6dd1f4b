// Package credentials resolves provider secrets at call time.
//
// Resolution order is fixed: process environment first, then the application
// secrets store. Resolution never blocks, never retries, and never caches an
// absent value; a missing credential is reported to the caller, not logged.
package credentials

import "os"

// Store is a read-only secrets source consulted after the environment.
type Store interface {
	// Lookup returns the secret for key and whether it was present.
	Lookup(key string) (string, bool)
}

// Resolver locates a provider's secret key.
type Resolver struct {
	store     Store
	lookupEnv func(string) (string, bool)
}

// NewResolver creates a resolver backed by the process environment and the
// given secrets store. A nil store disables the second source.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:     store,
		lookupEnv: os.LookupEnv,
	}
}

// Resolve returns the secret for key, checking the environment first and the
// secrets store second. Empty values count as absent, so a blank env var does
// not shadow a populated store entry. Returns ("", false) when both are absent.
func (r *Resolver) Resolve(key string) (string, bool) {
	if v, ok := r.lookupEnv(key); ok && v != "" {
		return v, true
	}
	if r.store != nil {
		if v, ok := r.store.Lookup(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
