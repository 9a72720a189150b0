// Package patcher closes the gap between a cumulative bundle and the
// expected last trading day by merging single-day bundles into the
// cumulative tables.
package patcher

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"cafefcli/internal/archive"
	"cafefcli/internal/cdn"
	"cafefcli/internal/config"
	"cafefcli/internal/metrics"
	"cafefcli/internal/tables"
	"cafefcli/internal/tradedate"
)

const tracerName = "cafefcli/patcher"

// Patcher merges missing days into cumulative tables.
type Patcher struct {
	source     cdn.Source
	urls       cdn.URLBuilder
	guardDays  int
	normalizer *tables.Normalizer
	extractor  tradedate.Extractor
	logger     *slog.Logger
	metrics    *metrics.Recorder
	sink       archive.Sink
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Patcher) { p.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(p *Patcher) { p.metrics = m }
}

// WithExtractor replaces the line date extractor.
func WithExtractor(ex tradedate.Extractor) Option {
	return func(p *Patcher) { p.extractor = ex }
}

// WithNormalizer replaces the table normalizer.
func WithNormalizer(n *tables.Normalizer) Option {
	return func(p *Patcher) { p.normalizer = n }
}

// WithSink keeps every extracted daily bundle in sink.
func WithSink(sink archive.Sink) Option {
	return func(p *Patcher) { p.sink = sink }
}

// New creates a Patcher. cfg.PatchGuardDays bounds the gap it will try to
// close.
func New(source cdn.Source, urls cdn.URLBuilder, cfg config.ProbeConfig, opts ...Option) *Patcher {
	p := &Patcher{
		source:    source,
		urls:      urls,
		guardDays: cfg.PatchGuardDays,
		extractor: tradedate.DefaultExtractor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.normalizer == nil {
		p.normalizer = tables.NewNormalizer(tables.DefaultPrefix, p.logger)
	}
	p.logger = p.logger.With(slog.String("component", "gap_patcher"))
	return p
}

// PatchToExpectedDate merges every available day in (baseline, expected]
// into set, where baseline is the latest date found in any row of set. The
// tables in set are modified in place and returned. Unavailable days are
// skipped and unusable days are recorded as failed; neither stops the loop.
func (p *Patcher) PatchToExpectedDate(ctx context.Context, set map[tables.Kind]*tables.Table, expected tradedate.Date) (map[tables.Kind]*tables.Table, Report) {
	report := newReport(expected, p.guardDays)

	baseline, ok := tables.MaxDateAcross(set, p.extractor)
	if !ok {
		report.Status = StatusUndetermined
		report.Note = "could not determine the latest date of the cumulative tables"
		p.logger.WarnContext(ctx, "Baseline undetermined", slog.String("expected_date", expected.String()))
		return set, report
	}
	report.BaselineBefore = datePtr(baseline)
	report.BaselineAfter = datePtr(baseline)

	if !baseline.Before(expected) {
		report.Status = StatusDone
		report.Note = "already up to date"
		p.logger.InfoContext(ctx, "Cumulative tables already up to date",
			slog.String("baseline", baseline.String()),
			slog.String("expected_date", expected.String()))
		return set, report
	}

	start := baseline.Next()
	report.GapDays = start.DaysUntil(expected) + 1
	report.RangeFrom = datePtr(start)
	report.RangeTo = datePtr(expected)
	p.metrics.SetGapDays(ctx, report.GapDays)

	if report.GapDays > p.guardDays {
		report.Status = StatusGuardStopped
		report.GuardHit = true
		report.Note = fmt.Sprintf("gap of %d days exceeds guard of %d days, patching stopped", report.GapDays, p.guardDays)
		p.logger.WarnContext(ctx, "Gap exceeds guard, patching stopped",
			slog.String("baseline", baseline.String()),
			slog.String("expected_date", expected.String()),
			slog.Int("gap_days", report.GapDays),
			slog.Int("guard_days", p.guardDays))
		return set, report
	}

	p.logger.InfoContext(ctx, "Patching gap",
		slog.String("range_from", report.RangeFrom.String()),
		slog.String("range_to", expected.String()),
		slog.Int("gap_days", report.GapDays))

	for d := start; !d.After(expected); d = d.Next() {
		if err := ctx.Err(); err != nil {
			if after, ok := tables.MaxDateAcross(set, p.extractor); ok {
				report.BaselineAfter = datePtr(after)
			}
			report.Status = StatusInterrupted
			report.Note = fmt.Sprintf("interrupted before %s: %v", d, err)
			p.logger.WarnContext(ctx, "Patching interrupted",
				slog.String("date", d.String()),
				slog.Int("patched_days", len(report.PatchedDays)))
			return set, report
		}
		p.patchDay(ctx, set, d, &report)
	}

	if after, ok := tables.MaxDateAcross(set, p.extractor); ok {
		report.BaselineAfter = datePtr(after)
	}
	report.Status = StatusDone
	report.summarize()

	p.logger.InfoContext(ctx, "Patching finished",
		slog.String("baseline_after", report.BaselineAfter.String()),
		slog.Int("patched_days", len(report.PatchedDays)),
		slog.Int("skipped_days", len(report.SkippedDays)),
		slog.Int("failed_days", len(report.FailedDays)),
		slog.Int("rows_appended", report.TotalAppended()))

	return set, report
}

// patchDay processes one gap day and records its outcome in report.
func (p *Patcher) patchDay(ctx context.Context, set map[tables.Kind]*tables.Table, d tradedate.Date, report *Report) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "patch_day")
	defer span.End()
	span.SetAttributes(attribute.String("date", d.String()))

	log := p.logger.With(slog.String("date", d.String()))
	bundle := p.urls.DailyBundle(d)

	if !p.source.Exists(ctx, bundle.TransactionURL) || !p.source.Exists(ctx, bundle.IndexURL) {
		report.SkippedDays = append(report.SkippedDays, d)
		p.metrics.RecordPatchDay(ctx, metrics.DaySkipped)
		span.SetAttributes(attribute.String("outcome", metrics.DaySkipped))
		log.InfoContext(ctx, "Day not published, skipped")
		return
	}

	daySet, err := p.loadDay(ctx, bundle)
	if err != nil {
		report.FailedDays = append(report.FailedDays, FailedDay{Date: d, Reason: err.Error()})
		p.metrics.RecordPatchDay(ctx, metrics.DayFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, "Day could not be patched", slog.String("error", err.Error()))
		return
	}

	dayRows := 0
	for _, k := range tables.AllKinds() {
		n := tables.MergeDay(set[k], daySet[k], d, p.extractor)
		report.AppendedRows[k] += n
		dayRows += n
		p.metrics.RecordRowsAppended(ctx, string(k), n)
	}
	report.PatchedDays = append(report.PatchedDays, d)
	p.metrics.RecordPatchDay(ctx, metrics.DayPatched)
	span.SetAttributes(attribute.String("outcome", metrics.DayPatched), attribute.Int("rows_appended", dayRows))

	log.InfoContext(ctx, "Day patched", slog.Int("rows_appended", dayRows))
}

// loadDay downloads, extracts and normalizes a single-day bundle. Nothing is
// merged unless every step succeeds.
func (p *Patcher) loadDay(ctx context.Context, bundle cdn.Bundle) (map[tables.Kind]*tables.Table, error) {
	tx, err := p.source.Fetch(ctx, bundle.TransactionURL)
	if err != nil {
		return nil, fmt.Errorf("download transactions: %w", err)
	}
	idx, err := p.source.Fetch(ctx, bundle.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("download index: %w", err)
	}

	members, err := archive.ExtractAll(tx, idx)
	if err != nil {
		return nil, err
	}
	if p.sink != nil {
		if err := p.sink.Store(config.DailyDirPrefix+bundle.Date.Compact(), members); err != nil {
			p.logger.WarnContext(ctx, "Failed to keep daily archive", slog.String("error", err.Error()))
		}
	}

	daySet, err := p.normalizer.Normalize(members, tables.AllKinds())
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return daySet, nil
}
