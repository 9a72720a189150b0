package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every path a run reads or writes, resolved to absolute
// form. It is the single source of truth for file locations.
type Paths struct {
	OutDir      string
	WorkDir     string
	ArchiveFile string
	ReportFile  string
	MetricsFile string
}

// ResolvePaths resolves the configured locations against the current
// working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	out, err := filepath.Abs(c.Paths.OutDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve out dir: %w", err)
	}
	work, err := filepath.Abs(c.Paths.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work dir: %w", err)
	}

	p := &Paths{
		OutDir:      out,
		WorkDir:     work,
		ArchiveFile: filepath.Join(out, c.Paths.ArchiveName),
		ReportFile:  filepath.Join(out, c.Paths.ReportName),
	}
	if c.Telemetry.MetricsFile != "" {
		if p.MetricsFile, err = filepath.Abs(c.Telemetry.MetricsFile); err != nil {
			return nil, fmt.Errorf("failed to resolve metrics file: %w", err)
		}
	}
	return p, nil
}

// EnsureDirectories creates the output and work directories
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutDir, p.WorkDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WorkSubdir returns a directory under the work dir
func (p *Paths) WorkSubdir(name string) string {
	return filepath.Join(p.WorkDir, name)
}

// DailyWorkDir returns the extraction directory for one patch day, keyed by
// its compact date (YYYYMMDD).
func (p *Paths) DailyWorkDir(compactDate string) string {
	return p.WorkSubdir(DailyDirPrefix + compactDate)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved run paths",
		slog.String("out_dir", p.OutDir),
		slog.String("work_dir", p.WorkDir),
		slog.String("archive_file", p.ArchiveFile),
		slog.String("report_file", p.ReportFile),
		slog.String("metrics_file", p.MetricsFile))
}
