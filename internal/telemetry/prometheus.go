package telemetry

import (
	"context"
	"net/http"

	"github.com/guillermoBallester/chsink/internal/core/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromInstruments records collector metrics into a dedicated Prometheus registry.
type PromInstruments struct {
	reg           *prometheus.Registry
	requestsBuilt *prometheus.CounterVec
	collectErrors *prometheus.CounterVec
	bodySize      prometheus.Histogram
	toolDuration  prometheus.Histogram
}

var _ port.Instrumentation = (*PromInstruments)(nil)

func NewPromInstruments() *PromInstruments {
	p := &PromInstruments{
		reg: prometheus.NewRegistry(),
		requestsBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chsink_requests_built_total",
				Help: "Total number of insert requests built, partitioned by event type.",
			},
			[]string{"event_type"},
		),
		collectErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chsink_collect_errors_total",
				Help: "Total number of rejected events, partitioned by event type and reason.",
			},
			[]string{"event_type", "reason"},
		),
		bodySize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chsink_request_body_bytes",
			Help:    "Size of the serialized event body in bytes.",
			Buckets: prometheus.ExponentialBuckets(256, 2, 10),
		}),
		toolDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chsink_tool_duration_seconds",
			Help:    "MCP tool call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	p.reg.MustRegister(p.requestsBuilt, p.collectErrors, p.bodySize, p.toolDuration)
	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PromInstruments) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

func (p *PromInstruments) IncrementRequestsBuilt(_ context.Context, eventType string) {
	p.requestsBuilt.WithLabelValues(eventType).Inc()
}

func (p *PromInstruments) IncrementCollectErrors(_ context.Context, eventType, reason string) {
	p.collectErrors.WithLabelValues(eventType, reason).Inc()
}

func (p *PromInstruments) RecordBodySize(_ context.Context, bytes int) {
	p.bodySize.Observe(float64(bytes))
}

func (p *PromInstruments) RecordToolDuration(_ context.Context, ms float64) {
	p.toolDuration.Observe(ms / 1000)
}
