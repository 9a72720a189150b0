package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cafefcli/internal/cdn"
	"cafefcli/internal/config"
	"cafefcli/internal/tradedate"
)

// ErrNoBundleFound is returned when no date in the lookback window has both
// cumulative archives published.
var ErrNoBundleFound = errors.New("no cumulative bundle found in lookback window")

// Locator finds the newest cumulative bundle.
type Locator struct {
	settings
	source      cdn.Source
	urls        cdn.URLBuilder
	clock       tradedate.Clock
	lookback    int
	parallelism int
}

// NewLocator creates a Locator.
func NewLocator(source cdn.Source, urls cdn.URLBuilder, clock tradedate.Clock, cfg config.ProbeConfig, opts ...Option) *Locator {
	return &Locator{
		settings:    newSettings("bundle_locator", opts),
		source:      source,
		urls:        urls,
		clock:       clock,
		lookback:    cfg.BundleLookback,
		parallelism: cfg.Parallelism,
	}
}

// LatestCumulativeBundle returns the newest date, at most lookback days
// before today, for which both the cumulative transaction archive and the
// cumulative index archive exist.
func (l *Locator) LatestCumulativeBundle(ctx context.Context) (cdn.Bundle, error) {
	today := l.clock.Today()

	exists := func(ctx context.Context, d tradedate.Date) bool {
		b := l.urls.UptoBundle(d)
		ok := l.source.Exists(ctx, b.TransactionURL) && l.source.Exists(ctx, b.IndexURL)
		l.metrics.RecordProbe(ctx, "bundle", ok)
		return ok
	}
	accept := func(context.Context, tradedate.Date) (bool, error) { return true, nil }

	day, ok, err := walkBack(ctx, today, l.lookback, l.parallelism, exists, accept)
	if err != nil {
		return cdn.Bundle{}, fmt.Errorf("locate bundle: %w", err)
	}
	if !ok {
		l.logger.ErrorContext(ctx, "No cumulative bundle found",
			slog.String("today", today.String()),
			slog.Int("lookback_days", l.lookback))
		return cdn.Bundle{}, fmt.Errorf("%w: %s back to %s", ErrNoBundleFound, today, today.AddDays(-l.lookback))
	}

	bundle := l.urls.UptoBundle(day)
	l.logger.InfoContext(ctx, "Cumulative bundle located",
		slog.String("date", day.String()),
		slog.String("transaction_url", bundle.TransactionURL),
		slog.String("index_url", bundle.IndexURL))
	return bundle, nil
}
