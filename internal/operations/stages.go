package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"cafefcli/internal/archive"
	"cafefcli/internal/cdn"
	"cafefcli/internal/config"
	"cafefcli/internal/exporter"
	"cafefcli/internal/patcher"
	"cafefcli/internal/tables"
	"cafefcli/internal/tradedate"
)

// Step IDs, in run order.
const (
	StepProbe   = "probe"
	StepLocate  = "locate"
	StepFetch   = "fetch"
	StepPatch   = "patch"
	StepPackage = "package"
	StepReport  = "report"
	StepPublish = "publish"
)

// TradingDayProber finds the expected last trading day.
type TradingDayProber interface {
	ExpectedLastTradingDay(ctx context.Context) (tradedate.Date, error)
}

// BundleLocator finds the newest published cumulative bundle.
type BundleLocator interface {
	LatestCumulativeBundle(ctx context.Context) (cdn.Bundle, error)
}

// GapPatcher merges missing days into the cumulative tables.
type GapPatcher interface {
	PatchToExpectedDate(ctx context.Context, set map[tables.Kind]*tables.Table, expected tradedate.Date) (map[tables.Kind]*tables.Table, patcher.Report)
}

// ProbeStep determines the expected last trading day
type ProbeStep struct {
	BaseStep
	prober TradingDayProber
}

// NewProbeStep creates the probe step
func NewProbeStep(prober TradingDayProber) *ProbeStep {
	return &ProbeStep{BaseStep: NewBaseStep(StepProbe, "Expected last trading day"), prober: prober}
}

// Execute implements Step
func (s *ProbeStep) Execute(ctx context.Context, state *OperationState) error {
	d, err := s.prober.ExpectedLastTradingDay(ctx)
	if err != nil {
		return err
	}
	state.Data.ExpectedDate = d
	state.SetStepMetadata(s.ID(), "expected_date", d.String())
	return nil
}

// LocateStep finds the latest cumulative bundle
type LocateStep struct {
	BaseStep
	locator BundleLocator
}

// NewLocateStep creates the locate step
func NewLocateStep(locator BundleLocator) *LocateStep {
	return &LocateStep{BaseStep: NewBaseStep(StepLocate, "Latest cumulative bundle"), locator: locator}
}

// Execute implements Step
func (s *LocateStep) Execute(ctx context.Context, state *OperationState) error {
	b, err := s.locator.LatestCumulativeBundle(ctx)
	if err != nil {
		return err
	}
	state.Data.UptoBundle = b
	state.SetStepMetadata(s.ID(), "upto_date", b.Date.String())
	return nil
}

// FetchStep downloads and normalizes the cumulative bundle
type FetchStep struct {
	BaseStep
	source     cdn.Source
	normalizer *tables.Normalizer
	sink       archive.Sink
	logger     *slog.Logger
}

// NewFetchStep creates the fetch step. sink may be nil.
func NewFetchStep(source cdn.Source, normalizer *tables.Normalizer, sink archive.Sink, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{
		BaseStep:   NewBaseStep(StepFetch, "Download cumulative bundle"),
		source:     source,
		normalizer: normalizer,
		sink:       sink,
		logger:     logger,
	}
}

// Validate implements Step
func (s *FetchStep) Validate(state *OperationState) error {
	if state.Data.UptoBundle.Date.IsZero() {
		return NewValidationError(s.ID(), ErrMissingInput.Error()+": cumulative bundle")
	}
	return nil
}

// Execute implements Step
func (s *FetchStep) Execute(ctx context.Context, state *OperationState) error {
	b := state.Data.UptoBundle

	tx, err := s.source.Fetch(ctx, b.TransactionURL)
	if err != nil {
		return fmt.Errorf("download cumulative transactions: %w", err)
	}
	idx, err := s.source.Fetch(ctx, b.IndexURL)
	if err != nil {
		return fmt.Errorf("download cumulative index: %w", err)
	}

	members, err := archive.ExtractAll(tx, idx)
	if err != nil {
		return err
	}
	if s.sink != nil {
		if err := s.sink.Store(config.UptoExtractDir, members); err != nil {
			s.logger.WarnContext(ctx, "Failed to keep cumulative archive", slog.String("error", err.Error()))
		}
	}

	set, err := s.normalizer.Normalize(members, tables.AllKinds())
	if err != nil {
		return err
	}
	state.Data.Tables = set

	rows := 0
	for _, t := range set {
		rows += t.Len()
	}
	state.SetStepMetadata(s.ID(), "rows", rows)
	return nil
}

// PatchStep closes the gap up to the expected date
type PatchStep struct {
	BaseStep
	patcher GapPatcher
}

// NewPatchStep creates the patch step
func NewPatchStep(p GapPatcher) *PatchStep {
	return &PatchStep{BaseStep: NewBaseStep(StepPatch, "Patch missing days"), patcher: p}
}

// Validate implements Step
func (s *PatchStep) Validate(state *OperationState) error {
	if state.Data.Tables == nil {
		return NewValidationError(s.ID(), ErrMissingInput.Error()+": cumulative tables")
	}
	if state.Data.ExpectedDate.IsZero() {
		return NewValidationError(s.ID(), ErrMissingInput.Error()+": expected date")
	}
	return nil
}

// Execute implements Step. Patch outcomes never fail the step; they are
// carried in the report.
func (s *PatchStep) Execute(ctx context.Context, state *OperationState) error {
	set, report := s.patcher.PatchToExpectedDate(ctx, state.Data.Tables, state.Data.ExpectedDate)
	if err := ctx.Err(); err != nil {
		return err
	}
	state.Data.Tables = set
	state.Data.PatchReport = report

	state.SetStepMetadata(s.ID(), "status", string(report.Status))
	state.SetStepMetadata(s.ID(), "patched_days", len(report.PatchedDays))
	return nil
}

// PackageStep builds the output zip in memory
type PackageStep struct {
	BaseStep
	prefix string
}

// NewPackageStep creates the package step
func NewPackageStep(prefix string) *PackageStep {
	return &PackageStep{BaseStep: NewBaseStep(StepPackage, "Package tables"), prefix: prefix}
}

// Validate implements Step
func (s *PackageStep) Validate(state *OperationState) error {
	if state.Data.Tables == nil {
		return NewValidationError(s.ID(), ErrMissingInput.Error()+": tables")
	}
	return nil
}

// Execute implements Step
func (s *PackageStep) Execute(ctx context.Context, state *OperationState) error {
	data, entries, err := exporter.BuildBundle(state.Data.Tables, s.prefix)
	if err != nil {
		return err
	}
	state.Data.BundleData = data
	state.Data.BundleFiles = entries
	state.SetStepMetadata(s.ID(), "size_bytes", len(data))
	return nil
}

// ReportStep assembles the run report
type ReportStep struct {
	BaseStep
	clock      tradedate.Clock
	baseURL    string
	bundleName string
}

// NewReportStep creates the report step. bundleName is the archive's file
// name as listed under assets.
func NewReportStep(clock tradedate.Clock, baseURL, bundleName string) *ReportStep {
	return &ReportStep{
		BaseStep:   NewBaseStep(StepReport, "Assemble run report"),
		clock:      clock,
		baseURL:    baseURL,
		bundleName: bundleName,
	}
}

// Execute implements Step
func (s *ReportStep) Execute(ctx context.Context, state *OperationState) error {
	now := s.clock.Now()
	b := state.Data.UptoBundle

	state.Data.Report = exporter.RunReport{
		RunID:    state.ID,
		RunTime:  exporter.FormatRunTime(now),
		Timezone: now.Location().String(),
		Source: exporter.SourceInfo{
			BaseURL:            s.baseURL,
			ExpectedDateMethod: exporter.ExpectedDateMethod,
		},
		ExpectedDate: state.Data.ExpectedDate.String(),
		UptoBundle: exporter.UptoBundleInfo{
			Date:           b.Date.String(),
			TransactionURL: b.TransactionURL,
			IndexURL:       b.IndexURL,
		},
		PatchReport: state.Data.PatchReport,
		Degraded:    state.Data.PatchReport.Degraded(),
		Assets:      exporter.Assets{Bundle: filepath.Base(s.bundleName)},
	}
	return nil
}

// PublishStep writes the bundle and then the report
type PublishStep struct {
	BaseStep
	bundles     *exporter.BundleWriter
	reports     *exporter.ReportWriter
	archivePath string
	reportPath  string
}

// NewPublishStep creates the publish step
func NewPublishStep(bundles *exporter.BundleWriter, reports *exporter.ReportWriter, archivePath, reportPath string) *PublishStep {
	return &PublishStep{
		BaseStep:    NewBaseStep(StepPublish, "Publish outputs"),
		bundles:     bundles,
		reports:     reports,
		archivePath: archivePath,
		reportPath:  reportPath,
	}
}

// Validate implements Step
func (s *PublishStep) Validate(state *OperationState) error {
	if len(state.Data.BundleData) == 0 {
		return NewValidationError(s.ID(), ErrMissingInput.Error()+": bundle")
	}
	if state.Data.Report.RunID == "" {
		return NewValidationError(s.ID(), ErrMissingInput.Error()+": report")
	}
	return nil
}

// Execute implements Step
func (s *PublishStep) Execute(ctx context.Context, state *OperationState) error {
	info, err := s.bundles.Write(s.archivePath, state.Data.BundleData, state.Data.BundleFiles)
	if err != nil {
		return err
	}
	state.Data.BundleInfo = info

	return s.reports.WriteReport(s.reportPath, state.Data.Report)
}
