// Package archive packages a directory tree or a single file into a zip archive.
package archive

import (
	"io/fs"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultPermissions are the Unix mode bits stored for every entry in directory mode.
const DefaultPermissions fs.FileMode = 0o755

// Mode tells which traversal an Archive call used.
type Mode string

const (
	ModeDirectory  Mode = "directory"
	ModeSingleFile Mode = "file"
)

// Options configures an Archiver. Zero values select the defaults.
type Options struct {
	Fs          afero.Fs
	Logger      *zap.Logger
	Policy      Policy
	Permissions fs.FileMode
	Levels      *Levels
}

// Archiver writes zip archives from a filesystem.
type Archiver struct {
	fs     afero.Fs
	logger *zap.Logger
	policy Policy
	perm   fs.FileMode
	levels Levels
}

// Result summarizes a completed archive run.
type Result struct {
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	Mode        Mode          `json:"mode"`
	Method      string        `json:"method"`
	Files       int           `json:"files"`
	Dirs        int           `json:"dirs"`
	Emptied     []string      `json:"emptied,omitempty"`
	Skipped     []string      `json:"skipped,omitempty"`
	BytesRead   int64         `json:"bytes_read"`
	ArchiveSize int64         `json:"archive_size_bytes"`
	Duration    time.Duration `json:"duration_ns"`
}

// New creates an Archiver.
func New(opts Options) *Archiver {
	a := &Archiver{
		fs:     opts.Fs,
		logger: opts.Logger,
		policy: opts.Policy,
		perm:   opts.Permissions,
		levels: DefaultLevels(),
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.perm == 0 {
		a.perm = DefaultPermissions
	}
	if opts.Levels != nil {
		a.levels = *opts.Levels
	}
	return a
}

// Archive writes src into a zip archive at dst using method.
//
// A directory source is walked recursively. Anything else is treated as a
// single file and always stored uncompressed under its base name. An
// existing file at dst is replaced only once the new archive is complete.
func (a *Archiver) Archive(src, dst string, method Method) (*Result, error) {
	isDir, err := afero.IsDir(a.fs, src)
	if err != nil || !isDir {
		return a.archiveFile(src, dst)
	}
	return a.archiveDir(src, dst, method)
}
