package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cafefcli/internal/cdn"
	"cafefcli/internal/config"
	"cafefcli/internal/exporter"
	"cafefcli/internal/files"
	"cafefcli/internal/infrastructure"
	"cafefcli/internal/metrics"
	"cafefcli/internal/operations"
	"cafefcli/internal/patcher"
	"cafefcli/internal/probe"
	"cafefcli/internal/tables"
	"cafefcli/internal/tradedate"
)

// Application holds every component of a run
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Metrics   *metrics.Recorder
	Files     *files.Manager

	clock       tradedate.Clock
	source      cdn.Source
	probeSource cdn.Source
	registry    *operations.Registry
	runner      *operations.Runner
	startTime   time.Time
}

// Result summarizes a successful run
type Result struct {
	RunID        string
	ArchiveFile  string
	ReportFile   string
	ExpectedDate tradedate.Date
	UptoDate     tradedate.Date
	PatchReport  patcher.Report
	Duration     time.Duration
}

// Option customizes an Application
type Option func(*Application)

// WithLogger sets the logger. Defaults to infrastructure.GetLogger().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) { a.Logger = logger }
}

// WithClock replaces the fixed-offset clock built from the config.
func WithClock(clock tradedate.Clock) Option {
	return func(a *Application) { a.clock = clock }
}

// WithSource replaces the HTTP CDN client for every step.
func WithSource(source cdn.Source) Option {
	return func(a *Application) {
		a.source = source
		a.probeSource = source
	}
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(cfg *config.Config, opts ...Option) (*Application, error) {
	a := &Application{Config: cfg, startTime: time.Now()}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = infrastructure.GetLogger()
	}
	if a.clock == nil {
		a.clock = tradedate.NewFixedOffsetClock(cfg.Source.UTCOffsetHours)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	a.Paths = paths
	paths.LogPathResolution(a.Logger)
	a.Files = files.NewManager(paths, a.Logger)

	tel, err := infrastructure.InitTelemetry(context.Background(), cfg.Telemetry, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.Telemetry = tel

	rec, err := metrics.New(tel.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	a.Metrics = rec

	if a.source == nil {
		client := cdn.NewClient(cfg.HTTP, cdn.WithLogger(a.Logger), cdn.WithMetrics(rec))
		a.source = client
		a.probeSource = client.WithDownloadTimeout(cfg.HTTP.ProbeDownloadTimeout)
	}

	if err := a.registerSteps(); err != nil {
		return nil, err
	}
	a.runner = operations.NewRunner(a.registry,
		operations.WithRunnerLogger(a.Logger),
		operations.WithRunnerMetrics(rec),
		operations.WithRunnerTracer(tel.Tracer))

	a.Logger.Info("Application initialized",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("base_url", cfg.Source.BaseURL),
		slog.Any("steps", a.registry.ListIDs()))

	return a, nil
}

func (a *Application) registerSteps() error {
	cfg := a.Config
	urls := cdn.NewURLBuilder(cfg.Source.BaseURL, cfg.Source.Prefix)
	normalizer := tables.NewNormalizer(cfg.Source.Prefix, a.Logger)

	probeOpts := []probe.Option{
		probe.WithLogger(a.Logger),
		probe.WithMetrics(a.Metrics),
		probe.WithNormalizer(normalizer),
	}
	patchOpts := []patcher.Option{
		patcher.WithLogger(a.Logger),
		patcher.WithMetrics(a.Metrics),
		patcher.WithNormalizer(normalizer),
	}
	fetch := operations.NewFetchStep(a.source, normalizer, nil, a.Logger)
	if cfg.Paths.KeepWork {
		probeOpts = append(probeOpts, probe.WithSink(a.Files))
		patchOpts = append(patchOpts, patcher.WithSink(a.Files))
		fetch = operations.NewFetchStep(a.source, normalizer, a.Files, a.Logger)
	}

	a.registry = operations.NewRegistry()
	steps := []operations.Step{
		operations.NewProbeStep(probe.NewProber(a.probeSource, urls, a.clock, cfg.Probe, probeOpts...)),
		operations.NewLocateStep(probe.NewLocator(a.source, urls, a.clock, cfg.Probe, probeOpts...)),
		fetch,
		operations.NewPatchStep(patcher.New(a.source, urls, cfg.Probe, patchOpts...)),
		operations.NewPackageStep(cfg.Source.Prefix),
		operations.NewReportStep(a.clock, cfg.Source.BaseURL, a.Paths.ArchiveFile),
		operations.NewPublishStep(
			exporter.NewBundleWriter(a.Files, a.Logger),
			exporter.NewReportWriter(a.Files, a.Logger),
			a.Paths.ArchiveFile, a.Paths.ReportFile,
		),
	}
	for _, s := range steps {
		if err := a.registry.Register(s); err != nil {
			return fmt.Errorf("failed to register step: %w", err)
		}
	}
	return nil
}

// Run executes one build. The work directory is reset first and removed
// afterwards unless paths.keep_work is set.
func (a *Application) Run(ctx context.Context) (*Result, error) {
	runID := infrastructure.GenerateTraceID()
	ctx = infrastructure.WithTraceID(ctx, runID)

	if err := a.Files.ResetWorkDir(); err != nil {
		return nil, operations.NewFatalError("prepare work directory", err)
	}
	if !a.Config.Paths.KeepWork {
		defer a.Files.RemoveWorkDir()
	}

	state := operations.NewOperationState(runID)
	if err := a.runner.Run(ctx, state); err != nil {
		return nil, err
	}

	return &Result{
		RunID:        runID,
		ArchiveFile:  a.Paths.ArchiveFile,
		ReportFile:   a.Paths.ReportFile,
		ExpectedDate: state.Data.ExpectedDate,
		UptoDate:     state.Data.UptoBundle.Date,
		PatchReport:  state.Data.PatchReport,
		Duration:     state.Duration(),
	}, nil
}

// Close records a runtime snapshot, writes the metrics textfile when one is
// configured and shuts telemetry down.
func (a *Application) Close(ctx context.Context) error {
	if a.Telemetry == nil {
		return nil
	}

	if a.Paths.MetricsFile != "" {
		if rm, err := infrastructure.NewRuntimeMetrics(a.Telemetry.Meter); err == nil {
			rm.Collect(ctx, a.startTime)
		} else {
			a.Logger.Warn("Failed to create runtime metrics", slog.String("error", err.Error()))
		}
		if err := a.Telemetry.WriteMetrics(a.Paths.MetricsFile); err != nil {
			a.Logger.Error("Failed to write metrics", slog.String("error", err.Error()))
		} else {
			a.Logger.Info("Metrics written", slog.String("path", a.Paths.MetricsFile))
		}
	}

	return a.Telemetry.Shutdown(ctx)
}
