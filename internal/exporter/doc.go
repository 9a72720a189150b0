// Package exporter produces the two published artifacts of a run.
//
// BundleWriter packages the four patched tables into a single deflated zip
// (cafef.zip), always in the order HSX, HNX, UPCOM, INDEX and always under
// their canonical names.
//
// ReportWriter renders the run report (latest.json) describing which
// cumulative bundle was used, the expected last trading day and what the
// patcher did.
//
// Both write through a FileWriter so that the destination is replaced
// atomically.
//
// Example usage:
//
//	data, entries, err := exporter.BuildBundle(patched, tables.DefaultPrefix)
//	info, err := exporter.NewBundleWriter(manager, logger).Write(paths.ArchiveFile, data, entries)
//
//	reports := exporter.NewReportWriter(manager, logger)
//	err = reports.WriteReport(paths.ReportFile, runReport)
package exporter
