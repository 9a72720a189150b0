// Package metrics records what a run did to the CDN and to the tables.
// Instruments live on an OpenTelemetry meter; the infrastructure package
// exports them through Prometheus.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Patch-day outcomes
const (
	DayPatched = "patched"
	DaySkipped = "skipped"
	DayFailed  = "failed"
)

// Recorder holds the run instruments. A nil *Recorder records nothing.
type Recorder struct {
	requests        metric.Int64Counter
	requestDuration metric.Float64Histogram
	bytesDownloaded metric.Int64Counter
	probes          metric.Int64Counter
	patchDays       metric.Int64Counter
	rowsAppended    metric.Int64Counter
	stepDuration    metric.Float64Histogram
	gapDays         metric.Int64Gauge
}

// New creates the instruments on meter.
func New(meter metric.Meter) (*Recorder, error) {
	requests, err := meter.Int64Counter(
		"cdn_requests",
		metric.WithDescription("CDN requests by method and outcome"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"cdn_request_duration_seconds",
		metric.WithDescription("CDN request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	bytesDownloaded, err := meter.Int64Counter(
		"cdn_downloaded_bytes",
		metric.WithDescription("Archive bytes downloaded"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	probes, err := meter.Int64Counter(
		"probe_candidates",
		metric.WithDescription("Dates examined by the backward walks"),
	)
	if err != nil {
		return nil, err
	}

	patchDays, err := meter.Int64Counter(
		"patch_days",
		metric.WithDescription("Gap days by outcome"),
	)
	if err != nil {
		return nil, err
	}

	rowsAppended, err := meter.Int64Counter(
		"rows_appended",
		metric.WithDescription("Rows merged into cumulative tables"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"step_duration_seconds",
		metric.WithDescription("Run step duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	gapDays, err := meter.Int64Gauge(
		"gap_days",
		metric.WithDescription("Calendar days between the bundle baseline and the expected date"),
	)
	if err != nil {
		return nil, err
	}

	return &Recorder{
		requests:        requests,
		requestDuration: requestDuration,
		bytesDownloaded: bytesDownloaded,
		probes:          probes,
		patchDays:       patchDays,
		rowsAppended:    rowsAppended,
		stepDuration:    stepDuration,
		gapDays:         gapDays,
	}, nil
}

// NewNop returns a recorder backed by a no-op meter.
func NewNop() *Recorder {
	r, _ := New(noop.NewMeterProvider().Meter("noop"))
	return r
}

// RecordRequest records one CDN request. outcome is "ok", "absent" or
// "error".
func (r *Recorder) RecordRequest(ctx context.Context, method, outcome string, d time.Duration, bytes int64) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	)
	r.requests.Add(ctx, 1, attrs)
	r.requestDuration.Record(ctx, d.Seconds(), attrs)
	if bytes > 0 {
		r.bytesDownloaded.Add(ctx, bytes)
	}
}

// RecordProbe records one candidate date examined by a backward walk.
func (r *Recorder) RecordProbe(ctx context.Context, walk string, found bool) {
	if r == nil {
		return
	}
	r.probes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("walk", walk),
		attribute.Bool("found", found),
	))
}

// RecordPatchDay records the outcome of one gap day.
func (r *Recorder) RecordPatchDay(ctx context.Context, outcome string) {
	if r == nil {
		return
	}
	r.patchDays.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordRowsAppended records rows merged into one table.
func (r *Recorder) RecordRowsAppended(ctx context.Context, table string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.rowsAppended.Add(ctx, int64(n), metric.WithAttributes(attribute.String("table", table)))
}

// RecordStep records the duration and final status of a run step.
func (r *Recorder) RecordStep(ctx context.Context, step, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.stepDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status),
	))
}

// SetGapDays records the gap found by the patcher.
func (r *Recorder) SetGapDays(ctx context.Context, days int) {
	if r == nil {
		return
	}
	r.gapDays.Record(ctx, int64(days))
}
