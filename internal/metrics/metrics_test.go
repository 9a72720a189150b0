package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	r, err := New(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	r.RecordRequest(ctx, "HEAD", "ok", 10*time.Millisecond, 0)
	r.RecordRequest(ctx, "GET", "ok", 20*time.Millisecond, 2048)
	r.RecordRequest(ctx, "HEAD", "absent", time.Millisecond, 0)
	r.RecordProbe(ctx, "trading_day", false)
	r.RecordProbe(ctx, "trading_day", true)
	r.RecordPatchDay(ctx, DayPatched)
	r.RecordPatchDay(ctx, DaySkipped)
	r.RecordRowsAppended(ctx, "HSX", 5)
	r.RecordRowsAppended(ctx, "INDEX", 0)
	r.RecordStep(ctx, "patch", "completed", time.Second)
	r.SetGapDays(ctx, 2)

	got := collect(t, reader)

	assert.Equal(t, int64(3), sumOf(t, got["cdn_requests"]))
	assert.Equal(t, int64(2048), sumOf(t, got["cdn_downloaded_bytes"]))
	assert.Equal(t, int64(2), sumOf(t, got["probe_candidates"]))
	assert.Equal(t, int64(2), sumOf(t, got["patch_days"]))
	assert.Equal(t, int64(5), sumOf(t, got["rows_appended"]))
	assert.Contains(t, got, "step_duration_seconds")

	gauge, ok := got["gap_days"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(2), gauge.DataPoints[0].Value)
}

func TestNilAndNopRecorder(t *testing.T) {
	ctx := context.Background()

	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordRequest(ctx, "GET", "error", time.Second, 0)
		r.RecordProbe(ctx, "bundle", true)
		r.RecordPatchDay(ctx, DayFailed)
		r.RecordRowsAppended(ctx, "HNX", 1)
		r.RecordStep(ctx, "fetch", "failed", time.Second)
		r.SetGapDays(ctx, 1)
	})

	nop := NewNop()
	require.NotNil(t, nop)
	assert.NotPanics(t, func() { nop.RecordPatchDay(ctx, DayPatched) })
}
