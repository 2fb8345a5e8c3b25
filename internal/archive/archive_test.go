package archive

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuabioo/zipdir/internal/errors"
)

func TestArchive_DirectoryEntries(t *testing.T) {
	fsys := newMemMapFs(t, map[string]string{
		"/D/a.txt":     "alpha",
		"/D/sub/b.txt": "bravo",
	})

	res, err := New(Options{Fs: fsys}).Archive("/D", "/out.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "/out.zip")
	assert.Equal(t, []string{"D/", "D/a.txt", "D/sub/", "D/sub/b.txt"}, entryNames(entries))
	assert.Equal(t, "alpha", findEntry(t, entries, "D/a.txt").data)
	assert.Equal(t, "bravo", findEntry(t, entries, "D/sub/b.txt").data)

	assert.Equal(t, ModeDirectory, res.Mode)
	assert.Equal(t, "stored", res.Method)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, 1, res.Dirs)
	assert.Equal(t, int64(len("alpha")+len("bravo")), res.BytesRead)
	assert.Positive(t, res.ArchiveSize)
	assert.Empty(t, res.Emptied)
}

func TestArchive_DirectoryPermissions(t *testing.T) {
	fsys := newMemMapFs(t, map[string]string{
		"/D/a.txt":     "alpha",
		"/D/sub/b.txt": "bravo",
	})

	_, err := New(Options{Fs: fsys}).Archive("/D", "/out.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "/out.zip")

	file := findEntry(t, entries, "D/a.txt")
	assert.Equal(t, fs.FileMode(0o755), file.mode)

	dir := findEntry(t, entries, "D/sub/")
	assert.True(t, dir.mode.IsDir())
	assert.Equal(t, fs.FileMode(0o755), dir.mode.Perm())

	root := findEntry(t, entries, "D/")
	assert.True(t, root.mode.IsDir())
}

func TestArchive_CustomPermissions(t *testing.T) {
	fsys := newMemMapFs(t, map[string]string{"/D/a.txt": "alpha"})

	_, err := New(Options{Fs: fsys, Permissions: 0o640}).Archive("/D", "/out.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "/out.zip")
	assert.Equal(t, fs.FileMode(0o640), findEntry(t, entries, "D/a.txt").mode)
}

func TestArchive_Methods(t *testing.T) {
	content := "the quick brown fox jumps over the lazy dog, again and again and again"

	for _, method := range Enabled(DefaultCandidates()) {
		t.Run(method.String(), func(t *testing.T) {
			fsys := newMemMapFs(t, map[string]string{"/D/fox.txt": content})

			res, err := New(Options{Fs: fsys}).Archive("/D", "/out.zip", method)
			require.NoError(t, err)
			assert.Equal(t, method.String(), res.Method)

			entries := readArchive(t, fsys, "/out.zip")
			fox := findEntry(t, entries, "D/fox.txt")
			assert.Equal(t, uint16(method), fox.method)
			assert.Equal(t, content, fox.data)

			// Directory entries never carry a compression method.
			assert.Equal(t, uint16(Stored), findEntry(t, entries, "D/").method)
		})
	}
}

func TestArchive_Idempotent(t *testing.T) {
	fsys := newMemMapFs(t, map[string]string{
		"/D/a.txt":       "alpha",
		"/D/sub/b.txt":   "bravo",
		"/D/sub/c/d.txt": "delta",
	})
	archiver := New(Options{Fs: fsys})

	_, err := archiver.Archive("/D", "/first.zip", Deflated)
	require.NoError(t, err)
	_, err = archiver.Archive("/D", "/second.zip", Deflated)
	require.NoError(t, err)

	first := readArchive(t, fsys, "/first.zip")
	second := readArchive(t, fsys, "/second.zip")
	assert.Equal(t, entryNames(first), entryNames(second))
	for i := range first {
		assert.Equal(t, first[i].data, second[i].data, first[i].name)
	}
}

func TestArchive_SingleFileAlwaysStored(t *testing.T) {
	fsys := newMemMapFs(t, map[string]string{"/docs/report.pdf": "%PDF-1.7 fake"})

	for _, method := range Enabled(DefaultCandidates()) {
		t.Run(method.String(), func(t *testing.T) {
			res, err := New(Options{Fs: fsys}).Archive("/docs/report.pdf", "/report.zip", method)
			require.NoError(t, err)
			assert.Equal(t, ModeSingleFile, res.Mode)
			assert.Equal(t, "stored", res.Method)
			assert.Equal(t, 1, res.Files)

			entries := readArchive(t, fsys, "/report.zip")
			require.Len(t, entries, 1)
			assert.Equal(t, "report.pdf", entries[0].name)
			assert.Equal(t, uint16(Stored), entries[0].method)
			assert.Equal(t, "%PDF-1.7 fake", entries[0].data)
		})
	}
}

func TestArchive_SingleFileMissingSource(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := New(Options{Fs: fsys}).Archive("/nope.txt", "/nope.txt.zip", Stored)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeSourceUnavailable), "got %v", err)

	exists, err := afero.Exists(fsys, "/nope.txt.zip")
	require.NoError(t, err)
	assert.False(t, exists, "no destination should be created")
}

func TestArchive_SingleFileReadFailure(t *testing.T) {
	base := newMemMapFs(t, map[string]string{"/report.pdf": "secret"})
	fsys := &faultyFs{Fs: base, failRead: map[string]bool{"/report.pdf": true}}

	res, err := New(Options{Fs: fsys}).Archive("/report.pdf", "/report.zip", Stored)
	require.NoError(t, err)
	assert.Equal(t, []string{"report.pdf"}, res.Emptied)

	entries := readArchive(t, base, "/report.zip")
	require.Len(t, entries, 1)
	assert.Equal(t, "report.pdf", entries[0].name)
	assert.Empty(t, entries[0].data)
}

func TestArchive_UnreadablePolicies(t *testing.T) {
	files := map[string]string{
		"/D/a.txt":      "alpha",
		"/D/locked.txt": "secret",
	}

	t.Run("empty", func(t *testing.T) {
		base := newMemMapFs(t, files)
		fsys := &faultyFs{Fs: base, denyOpen: map[string]bool{"/D/locked.txt": true}}

		res, err := New(Options{Fs: fsys}).Archive("/D", "/out.zip", Stored)
		require.NoError(t, err)
		assert.Equal(t, []string{"D/locked.txt"}, res.Emptied)

		entries := readArchive(t, base, "/out.zip")
		assert.Equal(t, []string{"D/", "D/a.txt", "D/locked.txt"}, entryNames(entries))
		assert.Empty(t, findEntry(t, entries, "D/locked.txt").data)
	})

	t.Run("skip", func(t *testing.T) {
		base := newMemMapFs(t, files)
		fsys := &faultyFs{Fs: base, failRead: map[string]bool{"/D/locked.txt": true}}

		res, err := New(Options{Fs: fsys, Policy: PolicySkip}).Archive("/D", "/out.zip", Stored)
		require.NoError(t, err)
		assert.Equal(t, []string{"/D/locked.txt"}, res.Skipped)

		entries := readArchive(t, base, "/out.zip")
		assert.Equal(t, []string{"D/", "D/a.txt"}, entryNames(entries))
	})

	t.Run("abort", func(t *testing.T) {
		base := newMemMapFs(t, files)
		fsys := &faultyFs{Fs: base, denyOpen: map[string]bool{"/D/locked.txt": true}}

		_, err := New(Options{Fs: fsys, Policy: PolicyAbort}).Archive("/D", "/out.zip", Stored)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeUnreadableFile), "got %v", err)

		names, err := afero.ReadDir(base, "/")
		require.NoError(t, err)
		for _, info := range names {
			assert.Equal(t, "D", info.Name(), "no archive or temp file should remain")
		}
	})
}

func TestArchive_DestinationCreateFailure(t *testing.T) {
	base := newMemMapFs(t, map[string]string{"/D/a.txt": "alpha"})
	fsys := afero.NewReadOnlyFs(base)

	_, err := New(Options{Fs: fsys}).Archive("/D", "/out.zip", Stored)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeDestinationFailed), "got %v", err)
}

func TestArchive_OverwritesDestination(t *testing.T) {
	fsys := newMemMapFs(t, map[string]string{
		"/D/a.txt": "alpha",
		"/out.zip": "not a zip",
	})

	_, err := New(Options{Fs: fsys}).Archive("/D", "/out.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "/out.zip")
	assert.Equal(t, []string{"D/", "D/a.txt"}, entryNames(entries))
}

func TestArchive_DestinationInsideSource(t *testing.T) {
	fsys := newMemMapFs(t, map[string]string{
		"/D/a.txt": "alpha",
		"/D/D.zip": "stale archive",
	})

	_, err := New(Options{Fs: fsys}).Archive("/D", "/D/D.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "/D/D.zip")
	assert.Equal(t, []string{"D/", "D/a.txt"}, entryNames(entries))
}

func TestArchive_EmptyDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/D", 0o755))

	res, err := New(Options{Fs: fsys}).Archive("/D", "/out.zip", Stored)
	require.NoError(t, err)
	assert.Zero(t, res.Files)

	entries := readArchive(t, fsys, "/out.zip")
	assert.Equal(t, []string{"D/"}, entryNames(entries))
}

// The remaining tests use the real filesystem for relative paths and symlinks.

func setupTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func TestArchive_RelativeSource(t *testing.T) {
	setupTree(t, map[string]string{
		"D/a.txt":     "alpha",
		"D/sub/b.txt": "bravo",
	})
	fsys := afero.NewOsFs()

	_, err := New(Options{Fs: fsys}).Archive("D", "out.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "out.zip")
	assert.Equal(t, []string{"D/", "D/a.txt", "D/sub/", "D/sub/b.txt"}, entryNames(entries))
}

func TestArchive_DotSourceHasNoRootEntry(t *testing.T) {
	setupTree(t, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "bravo",
	})
	out := filepath.Join(t.TempDir(), "out.zip")
	fsys := afero.NewOsFs()

	_, err := New(Options{Fs: fsys}).Archive(".", out, Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, out)
	assert.Equal(t, []string{"a.txt", "sub/", "sub/b.txt"}, entryNames(entries))
}

func TestArchive_Symlinks(t *testing.T) {
	dir := setupTree(t, map[string]string{
		"D/target.txt":     "target",
		"D/real/inner.txt": "inner",
	})
	require.NoError(t, os.Symlink(filepath.Join(dir, "D", "target.txt"), filepath.Join("D", "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "D", "missing.txt"), filepath.Join("D", "broken.txt")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "D", "real"), filepath.Join("D", "dirlink")))
	fsys := afero.NewOsFs()

	res, err := New(Options{Fs: fsys}).Archive("D", "out.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "out.zip")
	assert.Equal(t, []string{
		"D/",
		"D/broken.txt",
		"D/dirlink/",
		"D/link.txt",
		"D/real/",
		"D/real/inner.txt",
		"D/target.txt",
	}, entryNames(entries))

	assert.Equal(t, "target", findEntry(t, entries, "D/link.txt").data)
	assert.Empty(t, findEntry(t, entries, "D/broken.txt").data)
	assert.Equal(t, []string{"D/broken.txt"}, res.Emptied)
}

func TestArchive_SymlinkedRoot(t *testing.T) {
	dir := setupTree(t, map[string]string{
		"real/a.txt":     "alpha",
		"real/sub/b.txt": "bravo",
	})
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), "D"))
	fsys := afero.NewOsFs()

	res, err := New(Options{Fs: fsys}).Archive("D", "out.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "out.zip")
	assert.Equal(t, []string{"D/", "D/a.txt", "D/sub/", "D/sub/b.txt"}, entryNames(entries))
	assert.Equal(t, "alpha", findEntry(t, entries, "D/a.txt").data)
	assert.Equal(t, "bravo", findEntry(t, entries, "D/sub/b.txt").data)
	assert.Equal(t, 2, res.Files)
}

func TestArchive_SymlinkedRootWithDestinationInside(t *testing.T) {
	dir := setupTree(t, map[string]string{"real/a.txt": "alpha"})
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), "D"))
	fsys := afero.NewOsFs()

	_, err := New(Options{Fs: fsys}).Archive("D", filepath.Join("D", "out.zip"), Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, filepath.Join("real", "out.zip"))
	assert.Equal(t, []string{"D/", "D/a.txt"}, entryNames(entries))
}

func TestArchive_ControlCharactersInNames(t *testing.T) {
	fsys := newMemMapFs(t, map[string]string{
		"/D/tab\there.txt":  "tab",
		"/D/line\nfeed.txt": "newline",
	})

	res, err := New(Options{Fs: fsys}).Archive("/D", "/out.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "/out.zip")
	assert.Equal(t, "tab", findEntry(t, entries, "D/tab\there.txt").data)
	assert.Equal(t, "newline", findEntry(t, entries, "D/line\nfeed.txt").data)
	assert.Equal(t, 2, res.Files)
}

func TestArchive_SourceWithParentElements(t *testing.T) {
	fsys := newMemMapFs(t, map[string]string{"/x/y/D/a.txt": "alpha"})

	_, err := New(Options{Fs: fsys}).Archive("/x/y/../y/D", "/out.zip", Stored)
	require.NoError(t, err)

	entries := readArchive(t, fsys, "/out.zip")
	assert.Equal(t, []string{"x/y/D/", "x/y/D/a.txt"}, entryNames(entries))
}
