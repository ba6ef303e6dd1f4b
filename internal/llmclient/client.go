// Package llmclient provides the base HTTP client shared by all provider
// adapters: request marshaling, bounded deadlines, and standardized error
// classification. Failures are terminal for the call — there is no retry,
// no backoff, and no partial result.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"launchpad/internal/core"
)

// DefaultTimeout bounds every provider call that arrives without a deadline.
const DefaultTimeout = 30 * time.Second

// Hooks are optional observation points around each outbound call.
type Hooks struct {
	// OnRequest fires before the request is sent.
	OnRequest func(provider, endpoint string)
	// OnResponse fires after a response is received, successful or not.
	OnResponse func(provider, endpoint string, statusCode int, duration time.Duration)
	// OnError fires when the call fails before or after the exchange.
	OnError func(provider, endpoint string, kind core.ErrorKind)
}

// Config holds configuration for the LLM client
type Config struct {
	// ProviderName identifies the provider in error values and hooks
	ProviderName string

	// BaseURL is the API base URL
	BaseURL string

	// Timeout bounds each call when the caller's context has no deadline.
	// Zero means DefaultTimeout.
	Timeout time.Duration

	// Hooks for observability; zero value disables them
	Hooks Hooks
}

// DefaultConfig returns default client configuration
func DefaultConfig(providerName, baseURL string) Config {
	return Config{
		ProviderName: providerName,
		BaseURL:      baseURL,
		Timeout:      DefaultTimeout,
	}
}

// HeaderSetter is a function that sets headers on an HTTP request
type HeaderSetter func(req *http.Request)

// Client is the base HTTP client for provider adapters
type Client struct {
	httpClient   *http.Client
	config       Config
	headerSetter HeaderSetter
}

// New creates a new LLM client with the given configuration
func New(config Config, headerSetter HeaderSetter) *Client {
	return &Client{
		httpClient:   newHTTPClient(),
		config:       config,
		headerSetter: headerSetter,
	}
}

// NewWithHTTPClient creates a new LLM client with a custom HTTP client
func NewWithHTTPClient(httpClient *http.Client, config Config, headerSetter HeaderSetter) *Client {
	return &Client{
		httpClient:   httpClient,
		config:       config,
		headerSetter: headerSetter,
	}
}

// newHTTPClient builds the shared transport. Connection-level timeouts are
// fixed here; the per-call deadline comes from the request context.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ForceAttemptHTTP2:     true,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// SetBaseURL updates the base URL
func (c *Client) SetBaseURL(url string) {
	c.config.BaseURL = url
}

// BaseURL returns the current base URL
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Request represents an HTTP request to be made
type Request struct {
	Method   string
	Endpoint string
	Body     interface{} // JSON marshaled if not nil
	Headers  map[string]string
}

// Do executes exactly one request/response exchange and unmarshals the
// response into result. Every failure mode — transport error, non-2xx status,
// malformed payload — is converted into a *core.DispatchError carrying the
// provider name.
func (c *Client) Do(ctx context.Context, req Request, result interface{}) error {
	// Enforce a bounded deadline when the caller did not set one.
	if _, ok := ctx.Deadline(); !ok {
		timeout := c.config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		c.notifyError(req.Endpoint, err)
		return err
	}

	if c.config.Hooks.OnRequest != nil {
		c.config.Hooks.OnRequest(c.config.ProviderName, req.Endpoint)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		derr := c.classifyTransportError(ctx, err)
		c.notifyError(req.Endpoint, derr)
		return derr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if c.config.Hooks.OnResponse != nil {
		c.config.Hooks.OnResponse(c.config.ProviderName, req.Endpoint, resp.StatusCode, time.Since(start))
	}
	if err != nil {
		derr := core.NewProviderError(c.config.ProviderName, http.StatusBadGateway, "failed to read response: "+err.Error(), err)
		c.notifyError(req.Endpoint, derr)
		return derr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		derr := core.ParseProviderError(c.config.ProviderName, resp.StatusCode, body, nil)
		c.notifyError(req.Endpoint, derr)
		return derr
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			derr := core.NewProviderError(c.config.ProviderName, http.StatusBadGateway, "malformed response payload: "+err.Error(), err)
			c.notifyError(req.Endpoint, derr)
			return derr
		}
	}

	return nil
}

// classifyTransportError separates deadline expiry from generic transport
// failures so callers can treat timeouts as a distinct error kind.
func (c *Client) classifyTransportError(ctx context.Context, err error) *core.DispatchError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return core.NewTimeoutError(c.config.ProviderName, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.NewTimeoutError(c.config.ProviderName, err)
	}
	return core.NewProviderError(c.config.ProviderName, http.StatusBadGateway, "failed to send request: "+err.Error(), err)
}

// buildRequest creates an HTTP request from a Request
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := c.config.BaseURL + req.Endpoint

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, core.NewInvalidRequestError("failed to marshal request", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return nil, core.NewInvalidRequestError("failed to create request", err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// Provider-specific headers (authorization, attribution)
	if c.headerSetter != nil {
		c.headerSetter(httpReq)
	}

	// Request-specific headers
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

func (c *Client) notifyError(endpoint string, err error) {
	if c.config.Hooks.OnError == nil {
		return
	}
	kind := core.KindOf(err)
	if kind == "" {
		kind = core.ErrorKindProvider
	}
	c.config.Hooks.OnError(c.config.ProviderName, endpoint, kind)
}
