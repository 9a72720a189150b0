package exporter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"time"

	apperrors "cafefcli/internal/errors"
	"cafefcli/internal/patcher"
)

// RunTimeLayout is the layout of RunReport.RunTime.
const RunTimeLayout = "2006-01-02 15:04:05"

// ExpectedDateMethod describes how the expected last trading day is found.
const ExpectedDateMethod = "Probe CafeF daily Index zip on web; verify CSV contains the date"

// SourceInfo names the upstream the run read from.
type SourceInfo struct {
	BaseURL            string `json:"cafef_base"`
	ExpectedDateMethod string `json:"expected_last_trade_date_method"`
}

// UptoBundleInfo identifies the cumulative bundle the run started from.
type UptoBundleInfo struct {
	Date           string `json:"found_upto_date_iso"`
	TransactionURL string `json:"solieu_url"`
	IndexURL       string `json:"index_url"`
}

// Assets lists the published files, relative to the output directory.
type Assets struct {
	Bundle string `json:"cafef_zip"`
}

// RunReport is the content of latest.json.
type RunReport struct {
	RunID        string         `json:"run_id"`
	RunTime      string         `json:"run_time_gmt7"`
	Timezone     string         `json:"timezone"`
	Source       SourceInfo     `json:"source"`
	ExpectedDate string         `json:"expected_last_trade_date"`
	UptoBundle   UptoBundleInfo `json:"upto_bundle"`
	PatchReport  patcher.Report `json:"patch_report"`
	Degraded     bool           `json:"degraded"`
	Assets       Assets         `json:"assets"`
}

// FormatRunTime renders t in the report's run time layout.
func FormatRunTime(t time.Time) string {
	return t.Format(RunTimeLayout)
}

// ReportWriter renders and writes run reports
type ReportWriter struct {
	writer FileWriter
	logger *slog.Logger
}

// NewReportWriter creates a new report writer instance
func NewReportWriter(w FileWriter, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{writer: w, logger: logger.With(slog.String("component", "report_writer"))}
}

// WriteReport writes r to path as indented JSON.
func (w *ReportWriter) WriteReport(path string, r RunReport) error {
	data, err := MarshalReport(r)
	if err != nil {
		return err
	}
	if err := w.writer.WriteFile(path, data); err != nil {
		return err
	}

	w.logger.Info("Run report written",
		slog.String("path", path),
		slog.String("run_id", r.RunID),
		slog.String("status", string(r.PatchReport.Status)))
	return nil
}

// MarshalReport renders r with two-space indentation. Non-ASCII text and
// HTML characters are written as-is.
func MarshalReport(r RunReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, apperrors.NewParsingError("encode run report", err)
	}
	return buf.Bytes(), nil
}

// CompactPatchReport renders a patch report on one line for console output.
func CompactPatchReport(r patcher.Report) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", apperrors.NewParsingError("encode patch report", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
