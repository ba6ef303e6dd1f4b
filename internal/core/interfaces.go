package core

import "context"

// Provider is the capability every backend adapter implements: one synchronous
// request/response exchange with a hosted chat-completion endpoint. Each call
// is stateless; the adapter holds no conversation memory between calls.
type Provider interface {
	ChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
