package port

import "context"

// Instrumentation records application-level metrics.
type Instrumentation interface {
	IncrementRequestsBuilt(ctx context.Context, eventType string)
	IncrementCollectErrors(ctx context.Context, eventType, reason string)
	RecordBodySize(ctx context.Context, bytes int)
	RecordToolDuration(ctx context.Context, ms float64)
}

// NoopInstrumentation discards all metrics.
type NoopInstrumentation struct{}

func (NoopInstrumentation) IncrementRequestsBuilt(context.Context, string)         {}
func (NoopInstrumentation) IncrementCollectErrors(context.Context, string, string) {}
func (NoopInstrumentation) RecordBodySize(context.Context, int)                    {}
func (NoopInstrumentation) RecordToolDuration(context.Context, float64)            {}
