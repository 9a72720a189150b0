package exporter

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log/slog"

	apperrors "cafefcli/internal/errors"
	"cafefcli/internal/tables"
)

// FileWriter replaces a file's content in one step.
type FileWriter interface {
	WriteFile(path string, data []byte) error
}

// BundleInfo describes a written bundle.
type BundleInfo struct {
	Path    string
	Size    int
	Entries []string
}

// BundleWriter packages patched tables into the output zip
type BundleWriter struct {
	writer FileWriter
	logger *slog.Logger
}

// NewBundleWriter creates a new bundle writer instance
func NewBundleWriter(w FileWriter, logger *slog.Logger) *BundleWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BundleWriter{writer: w, logger: logger.With(slog.String("component", "bundle_writer"))}
}

// Write publishes a bundle previously built with BuildBundle.
func (b *BundleWriter) Write(path string, data []byte, entries []string) (BundleInfo, error) {
	if err := b.writer.WriteFile(path, data); err != nil {
		return BundleInfo{}, err
	}

	b.logger.Info("Bundle written",
		slog.String("path", path),
		slog.Int("size_bytes", len(data)),
		slog.Any("entries", entries))

	return BundleInfo{Path: path, Size: len(data), Entries: entries}, nil
}

// BuildBundle returns a deflated zip holding one "{prefix}.{TAG}.csv" entry
// per table kind, in AllKinds order. Every kind must be present.
func BuildBundle(set map[tables.Kind]*tables.Table, prefix string) ([]byte, []string, error) {
	var missing []string
	for _, k := range tables.AllKinds() {
		if t, ok := set[k]; !ok || t == nil {
			missing = append(missing, k.FileName(prefix))
		}
	}
	if len(missing) > 0 {
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("cannot package bundle, missing %v", missing), nil)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := make([]string, 0, len(tables.AllKinds()))

	for _, k := range tables.AllKinds() {
		name := k.FileName(prefix)
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, nil, apperrors.NewStorageError("create bundle entry", err).WithContext("entry", name)
		}
		if _, err := w.Write(set[k].Bytes()); err != nil {
			return nil, nil, apperrors.NewStorageError("write bundle entry", err).WithContext("entry", name)
		}
		entries = append(entries, name)
	}
	if err := zw.Close(); err != nil {
		return nil, nil, apperrors.NewStorageError("finalize bundle", err)
	}
	return buf.Bytes(), entries, nil
}
