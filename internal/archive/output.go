package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	zipdirerrors "github.com/Fuabioo/zipdir/internal/errors"
	"github.com/Fuabioo/zipdir/internal/security"
)

// output is a temporary sibling of the destination that is renamed into
// place once the archive is sealed.
type output struct {
	fs   afero.Fs
	file afero.File
	dst  string
	tmp  string
	// dir is the destination directory with symlinks resolved.
	dir string
}

// resolvePath evaluates symlinks in p on the OS filesystem. Other
// filesystems, and paths that cannot be resolved, are returned unchanged.
func resolvePath(fsys afero.Fs, p string) string {
	if _, ok := fsys.(*afero.OsFs); !ok {
		return p
	}
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return p
	}
	return resolved
}

func createOutput(fsys afero.Fs, dst string) (*output, error) {
	tmp := filepath.Join(filepath.Dir(dst), fmt.Sprintf(".%s.zipdir-tmp-%s", filepath.Base(dst), uuid.NewString()))

	file, err := fsys.Create(tmp)
	if err != nil {
		return nil, zipdirerrors.DestinationFailed(dst, err)
	}

	return &output{fs: fsys, file: file, dst: dst, tmp: tmp, dir: resolvePath(fsys, filepath.Dir(dst))}, nil
}

// isOutput reports whether path is the destination or its temporary file.
func (o *output) isOutput(path string) bool {
	for _, candidate := range []string{
		o.tmp,
		o.dst,
		filepath.Join(o.dir, filepath.Base(o.tmp)),
		filepath.Join(o.dir, filepath.Base(o.dst)),
	} {
		if security.SamePath(path, candidate) {
			return true
		}
	}
	return false
}

// commit closes the temporary file, moves it onto the destination and
// returns the archive size. On error the caller still owns cleanup via discard.
func (o *output) commit() (int64, error) {
	info, err := o.file.Stat()
	if err != nil {
		return 0, zipdirerrors.DestinationFailed(o.dst, err)
	}

	if err := o.file.Close(); err != nil {
		return 0, zipdirerrors.DestinationFailed(o.dst, err)
	}

	if err := o.fs.Rename(o.tmp, o.dst); err != nil {
		return 0, zipdirerrors.DestinationFailed(o.dst, err)
	}

	return info.Size(), nil
}

// discard closes and removes the temporary file. Closing an already
// closed file is not reported.
func (o *output) discard() error {
	closeErr := o.file.Close()
	if errors.Is(closeErr, fs.ErrClosed) {
		closeErr = nil
	}
	return errors.Join(closeErr, o.fs.Remove(o.tmp))
}
