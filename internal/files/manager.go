package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cafefcli/internal/archive"
	"cafefcli/internal/config"
	apperrors "cafefcli/internal/errors"
)

// Manager provides file management operations rooted at the run paths
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger.With(slog.String("component", "file_manager"))}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	fullPath := m.resolvePath(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	m.logger.Debug("FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// ResetWorkDir removes any previous work directory and recreates it empty.
// The output directory is created alongside.
func (m *Manager) ResetWorkDir() error {
	m.logger.Info("Resetting work directory", slog.String("work_dir", m.paths.WorkDir))

	if err := os.RemoveAll(m.paths.WorkDir); err != nil {
		return apperrors.NewStorageError("remove work dir", err).WithContext("path", m.paths.WorkDir)
	}
	if err := m.paths.EnsureDirectories(); err != nil {
		return apperrors.NewStorageError("create run directories", err)
	}
	return nil
}

// RemoveWorkDir deletes the work directory. Failures are logged, not
// returned.
func (m *Manager) RemoveWorkDir() {
	if err := os.RemoveAll(m.paths.WorkDir); err != nil {
		m.logger.Warn("Failed to remove work directory",
			slog.String("work_dir", m.paths.WorkDir),
			slog.String("error", err.Error()))
		return
	}
	m.logger.Debug("Work directory removed", slog.String("work_dir", m.paths.WorkDir))
}

// Store writes members under the work subdirectory named label, keeping
// their archive paths. It implements archive.Sink.
func (m *Manager) Store(label string, members []archive.Member) error {
	dir := m.paths.WorkSubdir(label)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("create extract dir", err).WithContext("path", dir)
	}

	for _, mem := range members {
		target, err := safeJoin(dir, mem.Name)
		if err != nil {
			return apperrors.NewStorageError("extract member", err).WithContext("member", mem.Name)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return apperrors.NewStorageError("create member dir", err).WithContext("path", target)
		}
		if err := os.WriteFile(target, mem.Data, 0644); err != nil {
			return apperrors.NewStorageError("write member", err).WithContext("path", target)
		}
	}

	m.logger.Debug("Archive members stored",
		slog.String("label", label),
		slog.String("dir", dir),
		slog.Int("members", len(members)))
	return nil
}

// ReadFile reads the entire content of a file
func (m *Manager) ReadFile(path string) ([]byte, error) {
	fullPath := m.resolvePath(path)

	m.logger.Debug("Reading file",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	return os.ReadFile(fullPath)
}

// WriteFile writes data through a temporary file in the same directory and
// renames it into place, so readers never observe a partial file.
func (m *Manager) WriteFile(path string, data []byte) error {
	fullPath := m.resolvePath(path)

	m.logger.Info("Writing file",
		slog.String("full_path", fullPath),
		slog.Int("size_bytes", len(data)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("create directory", err).WithContext("path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("create temp file", err).WithContext("path", fullPath)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("write temp file", err).WithContext("path", fullPath)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("sync temp file", err).WithContext("path", fullPath)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("close temp file", err).WithContext("path", fullPath)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return apperrors.NewStorageError("chmod temp file", err).WithContext("path", fullPath)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		return apperrors.NewStorageError("rename into place", err).WithContext("path", fullPath)
	}
	return nil
}

// ListFiles returns the files below dir, relative to it and sorted.
func (m *Manager) ListFiles(dir string) ([]string, error) {
	root := m.resolvePath(dir)

	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// resolvePath resolves a relative path against the work directory, or the
// output directory for paths starting with "out/".
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if rest, ok := strings.CutPrefix(filepath.ToSlash(path), "out/"); ok {
		return filepath.Join(m.paths.OutDir, filepath.FromSlash(rest))
	}
	return filepath.Join(m.paths.WorkDir, path)
}

// safeJoin joins an archive member name onto dir, rejecting names that
// would escape it.
func safeJoin(dir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("member path %q escapes extract dir", name)
	}
	return filepath.Join(dir, clean), nil
}
