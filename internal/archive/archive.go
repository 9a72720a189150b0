// Package archive unpacks downloaded CDN bundles in memory.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Member is a single file extracted from an archive.
type Member struct {
	// Name is the slash-separated path inside the archive.
	Name string
	Data []byte
}

// BaseName returns the file name without any archive directory.
func (m Member) BaseName() string {
	return path.Base(strings.ReplaceAll(m.Name, `\`, "/"))
}

// Size returns the member's uncompressed size in bytes.
func (m Member) Size() int64 {
	return int64(len(m.Data))
}

// Extract unpacks every regular file of the zip archive in data. Directory
// entries are skipped. Members are returned sorted by name.
func Extract(data []byte) ([]Member, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	members := make([]Member, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		b, err := readFile(f)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		members = append(members, Member{Name: f.Name, Data: b})
	}

	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

// ExtractAll unpacks several archives into one member list, the way the
// transaction and index bundles of a single day are extracted side by side.
func ExtractAll(archives ...[]byte) ([]Member, error) {
	var all []Member
	for i, data := range archives {
		members, err := Extract(data)
		if err != nil {
			return nil, fmt.Errorf("archive %d: %w", i, err)
		}
		all = append(all, members...)
	}
	return all, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Sink receives extracted members for post-mortem inspection. label names
// the extraction, e.g. "extract_upto".
type Sink interface {
	Store(label string, members []Member) error
}
