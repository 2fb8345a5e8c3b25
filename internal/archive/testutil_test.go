package archive

import (
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// archived is one entry read back from a written archive.
type archived struct {
	name   string
	method uint16
	mode   fs.FileMode
	data   string
}

// readArchive opens the zip at path and returns its entries in archive order.
func readArchive(t *testing.T, fsys afero.Fs, path string) []archived {
	t.Helper()

	raw, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	r.RegisterDecompressor(uint16(Bzip2), func(in io.Reader) io.ReadCloser {
		return io.NopCloser(bzip2.NewReader(in))
	})
	r.RegisterDecompressor(uint16(Zstd), zstd.ZipDecompressor())

	entries := make([]archived, 0, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err, "open %s", f.Name)
		data, err := io.ReadAll(rc)
		require.NoError(t, err, "read %s", f.Name)
		require.NoError(t, rc.Close())

		entries = append(entries, archived{
			name:   f.Name,
			method: f.Method,
			mode:   f.Mode(),
			data:   string(data),
		})
	}
	return entries
}

func entryNames(entries []archived) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	return names
}

func findEntry(t *testing.T, entries []archived, name string) archived {
	t.Helper()
	for _, e := range entries {
		if e.name == name {
			return e
		}
	}
	t.Fatalf("entry %q not found in %v", name, entryNames(entries))
	return archived{}
}

// newMemMapFs creates an in-memory filesystem holding files (path -> content).
func newMemMapFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return fsys
}

// faultyFs fails opens or reads for selected paths.
type faultyFs struct {
	afero.Fs
	denyOpen map[string]bool
	failRead map[string]bool
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	clean := filepath.Clean(name)
	if f.denyOpen[clean] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}

	file, err := f.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	if f.failRead[clean] {
		return &failingFile{File: file}, nil
	}
	return file, nil
}

type failingFile struct {
	afero.File
}

func (f *failingFile) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
