package observe

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ResolveMeta describes one secret expression being resolved. It never
// carries the resolved value.
type ResolveMeta struct {
	Backend string // backend name, e.g. "vault"
	Path    string // backend path; empty when the path is itself the value
	Prefix  string // variable name the result is stored under
	Anchor  string // JSON pointer, may be empty
}

// SpanName returns the deterministic span name for this resolution.
// Format: secret.resolve.<backend>
func (m ResolveMeta) SpanName() string {
	return "secret.resolve." + m.Backend
}

func (m ResolveMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("secret.backend", m.Backend),
		attribute.String("secret.prefix", m.Prefix),
	}
	if m.Path != "" {
		attrs = append(attrs, attribute.String("secret.path", m.Path))
	}
	if m.Anchor != "" {
		attrs = append(attrs, attribute.String("secret.anchor", m.Anchor))
	}
	return attrs
}

// ResolveResult summarizes a finished resolution.
type ResolveResult struct {
	CacheHit bool
	Entries  int // number of variables produced
}

// Tracer wraps OpenTelemetry tracing with resolution span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for one resolution.
	StartSpan(ctx context.Context, meta ResolveMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the result and any error.
	EndSpan(span trace.Span, res ResolveResult, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		return newNoopTracer()
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta ResolveMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("secret.error", false))
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, res ResolveResult, err error) {
	span.SetAttributes(
		attribute.Bool("secret.cache_hit", res.CacheHit),
		attribute.Int("secret.entries", res.Entries),
	)
	if err != nil {
		msg := errorText(err)
		span.SetStatus(codes.Error, msg)
		span.SetAttributes(attribute.Bool("secret.error", true))
		if msg != err.Error() {
			err = errors.New(msg)
		}
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ResolveMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ ResolveResult, _ error) {
	span.End()
}
