package probe

import (
	"log/slog"

	"cafefcli/internal/archive"
	"cafefcli/internal/metrics"
	"cafefcli/internal/tables"
	"cafefcli/internal/tradedate"
)

type settings struct {
	logger     *slog.Logger
	metrics    *metrics.Recorder
	extractor  tradedate.Extractor
	normalizer *tables.Normalizer
	sink       archive.Sink
}

// Option configures a Prober or Locator.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *settings) { s.metrics = m }
}

// WithExtractor replaces the line date extractor.
func WithExtractor(ex tradedate.Extractor) Option {
	return func(s *settings) { s.extractor = ex }
}

// WithNormalizer replaces the table normalizer.
func WithNormalizer(n *tables.Normalizer) Option {
	return func(s *settings) { s.normalizer = n }
}

// WithSink keeps every extracted probe archive in sink.
func WithSink(sink archive.Sink) Option {
	return func(s *settings) { s.sink = sink }
}

func newSettings(component string, opts []Option) settings {
	s := settings{
		logger:    slog.Default(),
		extractor: tradedate.DefaultExtractor,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.normalizer == nil {
		s.normalizer = tables.NewNormalizer(tables.DefaultPrefix, s.logger)
	}
	s.logger = s.logger.With(slog.String("component", component))
	return s
}
