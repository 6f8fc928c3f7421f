package telemetry

import (
	"context"

	"github.com/guillermoBallester/chsink/internal/core/port"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/guillermoBallester/chsink"

// Instruments holds pre-created OTel metric instruments.
type Instruments struct {
	RequestsBuilt metric.Int64Counter
	CollectErrors metric.Int64Counter
	BodySize      metric.Int64Histogram
	ToolDuration  metric.Float64Histogram
}

var _ port.Instrumentation = (*Instruments)(nil)

// NewInstruments creates metric instruments from the global MeterProvider.
func NewInstruments() *Instruments {
	return newInstrumentsFromMeter(otel.Meter(meterName))
}

// NoopInstruments returns instruments that record nothing.
func NoopInstruments() *Instruments {
	return newInstrumentsFromMeter(noop.NewMeterProvider().Meter(meterName))
}

func newInstrumentsFromMeter(meter metric.Meter) *Instruments {
	// OTel SDK returns noop instruments on error; safe to discard.
	requestsBuilt, _ := meter.Int64Counter("chsink.requests.built",
		metric.WithDescription("Total number of insert requests built"),
	)
	collectErrors, _ := meter.Int64Counter("chsink.collect.errors",
		metric.WithDescription("Total number of events rejected before a request was built"),
	)
	bodySize, _ := meter.Int64Histogram("chsink.request.body.size",
		metric.WithDescription("Size of the serialized event body"),
		metric.WithUnit("By"),
	)
	toolDuration, _ := meter.Float64Histogram("chsink.tool.duration",
		metric.WithDescription("MCP tool call duration in milliseconds"),
		metric.WithUnit("ms"),
	)

	return &Instruments{
		RequestsBuilt: requestsBuilt,
		CollectErrors: collectErrors,
		BodySize:      bodySize,
		ToolDuration:  toolDuration,
	}
}

func (i *Instruments) IncrementRequestsBuilt(ctx context.Context, eventType string) {
	i.RequestsBuilt.Add(ctx, 1, metric.WithAttributes(attribute.String("event.type", eventType)))
}

func (i *Instruments) IncrementCollectErrors(ctx context.Context, eventType, reason string) {
	i.CollectErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.type", eventType),
		attribute.String("error.type", reason),
	))
}

func (i *Instruments) RecordBodySize(ctx context.Context, bytes int) {
	i.BodySize.Record(ctx, int64(bytes))
}

func (i *Instruments) RecordToolDuration(ctx context.Context, ms float64) {
	i.ToolDuration.Record(ctx, ms)
}

// Multi fans metrics out to several Instrumentation backends.
type Multi []port.Instrumentation

func (m Multi) IncrementRequestsBuilt(ctx context.Context, eventType string) {
	for _, i := range m {
		i.IncrementRequestsBuilt(ctx, eventType)
	}
}

func (m Multi) IncrementCollectErrors(ctx context.Context, eventType, reason string) {
	for _, i := range m {
		i.IncrementCollectErrors(ctx, eventType, reason)
	}
}

func (m Multi) RecordBodySize(ctx context.Context, bytes int) {
	for _, i := range m {
		i.RecordBodySize(ctx, bytes)
	}
}

func (m Multi) RecordToolDuration(ctx context.Context, ms float64) {
	for _, i := range m {
		i.RecordToolDuration(ctx, ms)
	}
}
