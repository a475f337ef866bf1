package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// findMetric finds a metric by name in the collected data.
func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	found := findMetric(rm, name)
	if found == nil {
		return 0
	}
	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64] for %s, got %T", name, found.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func newTestMetrics(t *testing.T) (Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

// TestMetrics_Counters verifies total, error and cache hit counters.
func TestMetrics_Counters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	meta := ResolveMeta{Backend: "vault", Path: "secret/data/app"}

	m.RecordResolve(ctx, meta, ResolveResult{Entries: 1}, 10*time.Millisecond, nil)
	m.RecordResolve(ctx, meta, ResolveResult{CacheHit: true, Entries: 1}, time.Millisecond, nil)
	m.RecordResolve(ctx, meta, ResolveResult{}, 5*time.Millisecond, errors.New("boom"))

	rm := collect(t, reader)
	if got := counterValue(t, rm, "secret.resolve.total"); got != 3 {
		t.Errorf("expected total=3, got %d", got)
	}
	if got := counterValue(t, rm, "secret.resolve.errors"); got != 1 {
		t.Errorf("expected errors=1, got %d", got)
	}
	if got := counterValue(t, rm, "secret.cache.hits"); got != 1 {
		t.Errorf("expected cache hits=1, got %d", got)
	}
}

// TestMetrics_DurationHistogram verifies durations are recorded.
func TestMetrics_DurationHistogram(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordResolve(context.Background(), ResolveMeta{Backend: "const"}, ResolveResult{}, 250*time.Millisecond, nil)

	found := findMetric(collect(t, reader), "secret.resolve.duration_ms")
	if found == nil {
		t.Fatal("secret.resolve.duration_ms metric not found")
	}
	hist, ok := found.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected Histogram[float64], got %T", found.Data)
	}
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Fatalf("unexpected data points: %+v", hist.DataPoints)
	}
	if hist.DataPoints[0].Sum != 250 {
		t.Errorf("expected sum 250ms, got %v", hist.DataPoints[0].Sum)
	}
}

// TestMetrics_BackendAttributeOnly verifies the path is not a metric dimension.
func TestMetrics_BackendAttributeOnly(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordResolve(ctx, ResolveMeta{Backend: "vault", Path: "a"}, ResolveResult{}, 0, nil)
	m.RecordResolve(ctx, ResolveMeta{Backend: "vault", Path: "b"}, ResolveResult{}, 0, nil)

	found := findMetric(collect(t, reader), "secret.resolve.total")
	sum := found.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 1 {
		t.Fatalf("expected a single series, got %d", len(sum.DataPoints))
	}
	if _, ok := sum.DataPoints[0].Attributes.Value("secret.path"); ok {
		t.Error("secret.path must not be a metric attribute")
	}
}
