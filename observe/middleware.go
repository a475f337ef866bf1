package observe

import (
	"context"
	"time"
)

// ResolveFunc resolves one secret expression.
type ResolveFunc func(ctx context.Context, meta ResolveMeta) (ResolveResult, error)

// Middleware wraps resolution with tracing, metrics and logging.
//
// Contract:
//   - Context: the span context is passed to the wrapped function.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
//   - Redaction: only ResolveMeta, ResolveResult and the error are logged;
//     text reported by a SensitiveError is masked.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps fn with tracing, metrics and logging.
func (m *Middleware) Wrap(fn ResolveFunc) ResolveFunc {
	return func(ctx context.Context, meta ResolveMeta) (ResolveResult, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		res, err := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, res, err)
		m.metrics.RecordResolve(ctx, meta, res, duration, err)

		log := m.logger.With(
			F("backend", meta.Backend),
			F("path", meta.Path),
			F("prefix", meta.Prefix),
		)
		fields := []Field{
			F("cache_hit", res.CacheHit),
			F("entries", res.Entries),
			F("duration_ms", float64(duration.Milliseconds())),
		}
		if err != nil {
			log.Error(ctx, "secret resolution failed", append(fields, F("error", err))...)
		} else {
			log.Debug(ctx, "secret resolved", fields...)
		}

		return res, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
