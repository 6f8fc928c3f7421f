package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/guillermoBallester/chsink/internal/core/domain"
	"github.com/guillermoBallester/chsink/internal/core/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type toolNameKey struct{}
type destinationKey struct{}

// WithToolName returns a context carrying the MCP tool name for audit logging.
func WithToolName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, toolNameKey{}, name)
}

// WithDestination returns a context carrying the named destination, if any.
func WithDestination(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, destinationKey{}, name)
}

func stringFromCtx(ctx context.Context, key any) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// CollectorService wraps the domain entry points with tracing, metrics and audit.
type CollectorService struct {
	auditor port.RequestAuditor
	logger  *slog.Logger
	tracer  trace.Tracer
	inst    port.Instrumentation
}

func NewCollectorService(auditor port.RequestAuditor, logger *slog.Logger, tracer trace.Tracer, inst port.Instrumentation) *CollectorService {
	if auditor == nil {
		auditor = port.NoopAuditor{}
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	if inst == nil {
		inst = port.NoopInstrumentation{}
	}
	return &CollectorService{
		auditor: auditor,
		logger:  logger,
		tracer:  tracer,
		inst:    inst,
	}
}

func (s *CollectorService) Page(ctx context.Context, event domain.Event, settings domain.Dict) (domain.OutboundRequest, error) {
	return s.Collect(ctx, domain.EventPage, event, settings)
}

func (s *CollectorService) Track(ctx context.Context, event domain.Event, settings domain.Dict) (domain.OutboundRequest, error) {
	return s.Collect(ctx, domain.EventTrack, event, settings)
}

func (s *CollectorService) User(ctx context.Context, event domain.Event, settings domain.Dict) (domain.OutboundRequest, error) {
	return s.Collect(ctx, domain.EventUser, event, settings)
}

// Collect builds the insert request through the entry point named by kind.
func (s *CollectorService) Collect(ctx context.Context, kind domain.EventType, event domain.Event, settings domain.Dict) (domain.OutboundRequest, error) {
	ctx, span := s.tracer.Start(ctx, "CollectorService.Collect",
		trace.WithAttributes(
			attribute.String("db.system", "clickhouse"),
			attribute.String("event.type", string(kind)),
			attribute.String("event.id", event.UUID),
		),
	)
	defer span.End()

	req, err := domain.Collect(kind, event, settings)

	entry := port.AuditEntry{
		Tool:        stringFromCtx(ctx, toolNameKey{}),
		EventType:   string(kind),
		EventID:     event.UUID,
		Destination: stringFromCtx(ctx, destinationKey{}),
		URL:         req.URL,
		BodyBytes:   len(req.Body),
		Credential:  domain.CredentialFingerprint(req),
		Err:         err,
	}
	s.auditor.Record(ctx, entry)

	if err != nil {
		reason := errorType(err)
		s.logger.WarnContext(ctx, "collect rejected",
			slog.String("event.type", string(kind)),
			slog.String("event.id", event.UUID),
			slog.String("error.type", reason),
			slog.String("error.message", err.Error()),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.inst.IncrementCollectErrors(ctx, string(kind), reason)
		return domain.OutboundRequest{}, err
	}

	s.inst.IncrementRequestsBuilt(ctx, string(kind))
	s.inst.RecordBodySize(ctx, len(req.Body))
	span.SetAttributes(attribute.Int("http.request.body.size", len(req.Body)))

	s.logger.DebugContext(ctx, "insert request built",
		slog.String("event.type", string(kind)),
		slog.String("event.id", event.UUID),
		slog.Any("request", req),
	)

	return req, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingField):
		return "validation_error"
	case errors.Is(err, domain.ErrEncodeEvent):
		return "encode_error"
	case errors.Is(err, domain.ErrUnsupportedEventType):
		return "unsupported_event_type"
	default:
		return "internal_error"
	}
}
