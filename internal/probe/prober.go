package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cafefcli/internal/archive"
	"cafefcli/internal/cdn"
	"cafefcli/internal/config"
	"cafefcli/internal/tables"
	"cafefcli/internal/tradedate"
)

// ErrNoTradingDayFound is returned when no day in the lookback window has a
// confirmed single-day index archive.
var ErrNoTradingDayFound = errors.New("no trading day found in lookback window")

// ErrUnverifiableDay is returned when a candidate day's index archive exists
// but cannot be downloaded, extracted or normalized. The walk stops there
// instead of falling back to an older day.
var ErrUnverifiableDay = errors.New("candidate trading day could not be verified")

// Prober determines the expected last trading day.
type Prober struct {
	settings
	source      cdn.Source
	urls        cdn.URLBuilder
	clock       tradedate.Clock
	lookback    int
	parallelism int
}

// NewProber creates a Prober.
func NewProber(source cdn.Source, urls cdn.URLBuilder, clock tradedate.Clock, cfg config.ProbeConfig, opts ...Option) *Prober {
	return &Prober{
		settings:    newSettings("trading_day_prober", opts),
		source:      source,
		urls:        urls,
		clock:       clock,
		lookback:    cfg.TradingDayLookback,
		parallelism: cfg.Parallelism,
	}
}

// ExpectedLastTradingDay returns the most recent day, at most lookback days
// before today, whose single-day index archive exists and actually contains
// an index row dated that day.
func (p *Prober) ExpectedLastTradingDay(ctx context.Context) (tradedate.Date, error) {
	today := p.clock.Today()

	exists := func(ctx context.Context, d tradedate.Date) bool {
		return p.source.Exists(ctx, p.urls.Daily(cdn.Indices, d))
	}

	day, ok, err := walkBack(ctx, today, p.lookback, p.parallelism, exists, p.confirm)
	if err != nil {
		return tradedate.Date{}, fmt.Errorf("probe trading day: %w", err)
	}
	if !ok {
		p.logger.ErrorContext(ctx, "No trading day found",
			slog.String("today", today.String()),
			slog.Int("lookback_days", p.lookback))
		return tradedate.Date{}, fmt.Errorf("%w: %s back to %s", ErrNoTradingDayFound, today, today.AddDays(-p.lookback))
	}

	p.logger.InfoContext(ctx, "Expected last trading day determined",
		slog.String("date", day.String()),
		slog.Int("days_back", day.DaysUntil(today)))
	return day, nil
}

// confirm downloads the index archive for d and checks that an INDEX row
// carries d. An archive without such a row leaves the day unconfirmed; an
// archive that cannot be read is an error.
func (p *Prober) confirm(ctx context.Context, d tradedate.Date) (bool, error) {
	url := p.urls.Daily(cdn.Indices, d)
	log := p.logger.With(slog.String("date", d.String()), slog.String("url", url))

	confirmed, err := p.indexHasDate(ctx, url, d)
	p.metrics.RecordProbe(ctx, "trading_day", confirmed)
	if err != nil {
		log.ErrorContext(ctx, "Candidate trading day unusable", slog.String("error", err.Error()))
		return false, fmt.Errorf("%w: %s: %w", ErrUnverifiableDay, d, err)
	}
	if !confirmed {
		log.InfoContext(ctx, "Index archive has no row for its own date")
	}
	return confirmed, nil
}

func (p *Prober) indexHasDate(ctx context.Context, url string, d tradedate.Date) (bool, error) {
	data, err := p.source.Fetch(ctx, url)
	if err != nil {
		return false, err
	}

	members, err := archive.Extract(data)
	if err != nil {
		return false, err
	}
	if p.sink != nil {
		if err := p.sink.Store(config.ProbeExtractDir, members); err != nil {
			p.logger.WarnContext(ctx, "Failed to keep probe archive", slog.String("error", err.Error()))
		}
	}

	set, err := p.normalizer.Normalize(members, tables.IndexOnly())
	if err != nil {
		return false, err
	}
	return set[tables.INDEX].ContainsDate(d, p.extractor), nil
}
