// Package observability wires Prometheus metrics into the dispatch layer.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"launchpad/internal/core"
	"launchpad/internal/llmclient"
)

// Metrics holds the Prometheus collectors for provider calls.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics registers the dispatch metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in production wiring.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "launchpad_provider_requests_total",
			Help: "Outbound provider requests, by provider and endpoint.",
		}, []string{"provider", "endpoint"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "launchpad_provider_request_duration_seconds",
			Help:    "Provider round-trip latency in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"provider"}),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "launchpad_provider_errors_total",
			Help: "Failed provider calls, by provider and error kind.",
		}, []string{"provider", "kind"}),
	}
}

// Hooks returns llmclient hooks that record every outbound call.
func (m *Metrics) Hooks() llmclient.Hooks {
	return llmclient.Hooks{
		OnRequest: func(provider, endpoint string) {
			m.requestsTotal.WithLabelValues(provider, endpoint).Inc()
		},
		OnResponse: func(provider, endpoint string, statusCode int, duration time.Duration) {
			m.requestDuration.WithLabelValues(provider).Observe(duration.Seconds())
		},
		OnError: func(provider, endpoint string, kind core.ErrorKind) {
			m.errorsTotal.WithLabelValues(provider, string(kind)).Inc()
		},
	}
}
