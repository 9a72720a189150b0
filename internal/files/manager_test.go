package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafefcli/internal/archive"
	"cafefcli/internal/config"
	apperrors "cafefcli/internal/errors"
	"cafefcli/internal/shared/testutil"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	root := t.TempDir()
	paths := &config.Paths{
		OutDir:      filepath.Join(root, "out"),
		WorkDir:     filepath.Join(root, "work"),
		ArchiveFile: filepath.Join(root, "out", "cafef.zip"),
		ReportFile:  filepath.Join(root, "out", "latest.json"),
	}
	logger, _ := testutil.NewTestLogger(t)
	return NewManager(paths, logger), paths
}

func TestResetWorkDir(t *testing.T) {
	m, paths := newTestManager(t)

	stale := filepath.Join(paths.WorkDir, "daily_20240101", "old.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))

	require.NoError(t, m.ResetWorkDir())

	entries, err := os.ReadDir(paths.WorkDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.DirExists(t, paths.OutDir)
}

func TestRemoveWorkDir(t *testing.T) {
	m, paths := newTestManager(t)
	require.NoError(t, m.ResetWorkDir())

	m.RemoveWorkDir()

	assert.NoDirExists(t, paths.WorkDir)
	assert.DirExists(t, paths.OutDir)
}

func TestStore(t *testing.T) {
	tests := []struct {
		name    string
		members []archive.Member
		want    []string
		wantErr bool
	}{
		{
			name: "flat members",
			members: []archive.Member{
				{Name: "CafeF.HSX.Upto15.03.2024.csv", Data: []byte("a")},
				{Name: "CafeF.INDEX.Upto15.03.2024.csv", Data: []byte("b")},
			},
			want: []string{"CafeF.HSX.Upto15.03.2024.csv", "CafeF.INDEX.Upto15.03.2024.csv"},
		},
		{
			name: "nested member keeps its directory",
			members: []archive.Member{
				{Name: "data/CafeF.HNX.csv", Data: []byte("c")},
			},
			want: []string{"data/CafeF.HNX.csv"},
		},
		{
			name: "escaping member rejected",
			members: []archive.Member{
				{Name: "../evil.csv", Data: []byte("d")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, paths := newTestManager(t)

			err := m.Store("extract_upto", tt.members)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
				assert.NoFileExists(t, filepath.Join(paths.WorkDir, "evil.csv"))
				return
			}
			require.NoError(t, err)

			got, err := m.ListFiles("extract_upto")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStoreImplementsSink(t *testing.T) {
	m, _ := newTestManager(t)
	var _ archive.Sink = m
}

func TestWriteFile(t *testing.T) {
	m, paths := newTestManager(t)

	require.NoError(t, m.WriteFile(paths.ReportFile, []byte(`{"a":1}`)))
	require.NoError(t, m.WriteFile(paths.ReportFile, []byte(`{"a":2}`)))

	data, err := os.ReadFile(paths.ReportFile)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(paths.OutDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "latest.json", entries[0].Name())
}

func TestResolvePath(t *testing.T) {
	m, paths := newTestManager(t)

	tests := []struct {
		in   string
		want string
	}{
		{"out/cafef.zip", filepath.Join(paths.OutDir, "cafef.zip")},
		{"extract_upto/a.csv", filepath.Join(paths.WorkDir, "extract_upto", "a.csv")},
		{paths.ReportFile, paths.ReportFile},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.resolvePath(tt.in))
		})
	}
}

func TestFileExistsAndReadFile(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.WriteFile("out/latest.json", []byte("{}")))

	assert.True(t, m.FileExists("out/latest.json"))
	assert.False(t, m.FileExists("out/missing.json"))

	data, err := m.ReadFile("out/latest.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
