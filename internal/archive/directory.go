package archive

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Fuabioo/zipdir/internal/errors"
	"github.com/Fuabioo/zipdir/internal/security"
)

type entryKind int

const (
	kindOther entryKind = iota
	kindFile
	kindDir
)

// archiveDir walks src and writes every file and directory below it.
// Entry names are the normalized source path joined with the path
// relative to src, e.g. "D/sub/b.txt".
func (a *Archiver) archiveDir(src, dst string, method Method) (res *Result, err error) {
	out, err := createOutput(a.fs, dst)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = out.discard()
		}
	}()

	root := a.walkRoot(src)

	// Only outputs created inside the tree can show up during the walk.
	checkOutput, _ := security.Within(root, filepath.Dir(dst))
	if !checkOutput {
		checkOutput, _ = security.Within(root, out.dir)
	}

	zw := zip.NewWriter(out.file)
	if c := method.compressor(a.levels); c != nil {
		zw.RegisterCompressor(uint16(method), c)
	}

	res = &Result{
		Source:      src,
		Destination: dst,
		Mode:        ModeDirectory,
		Method:      method.String(),
	}

	prefix := security.NormalizeEntryName(src)
	if prefix != "" {
		if err := a.addRoot(zw, src, prefix); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	err = afero.Walk(a.fs, root, func(path string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			a.logger.Debug("skipping unreadable path", zap.String("path", path), zap.Error(walkErr))
			res.Skipped = append(res.Skipped, path)
			return nil
		}
		if path == root {
			return nil
		}
		if checkOutput && out.isOutput(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		return a.addEntry(zw, res, path, security.JoinEntryName(prefix, rel), info, method)
	})
	res.Duration = time.Since(start)
	if err != nil {
		return nil, err
	}

	a.logger.Info("entries written",
		zap.Duration("duration", res.Duration),
		zap.Int("files", res.Files),
		zap.Int("dirs", res.Dirs),
		zap.Int("emptied", len(res.Emptied)),
		zap.Int("skipped", len(res.Skipped)),
	)

	if err := zw.Close(); err != nil {
		return nil, errors.ArchiveFailed("central directory", err)
	}

	size, err := out.commit()
	if err != nil {
		return nil, err
	}
	res.ArchiveSize = size

	a.logger.Debug("archive committed",
		zap.String("destination", dst),
		zap.String("method", res.Method),
		zap.String("size", humanize.Bytes(uint64(size))),
	)

	return res, nil
}

// walkRoot returns the path to walk for src. Walk never descends into a
// symlink, so a symlinked root is replaced by its target.
func (a *Archiver) walkRoot(src string) string {
	lstater, ok := a.fs.(afero.Lstater)
	if !ok {
		return src
	}
	info, lstatCalled, err := lstater.LstatIfPossible(src)
	if err != nil || !lstatCalled || info.Mode()&fs.ModeSymlink == 0 {
		return src
	}

	if resolved := resolvePath(a.fs, src); resolved != src {
		return resolved
	}
	// A trailing separator makes Lstat follow the link.
	return src + string(filepath.Separator)
}

// addRoot writes the directory entry for the traversal root with default attributes.
func (a *Archiver) addRoot(zw *zip.Writer, src, prefix string) error {
	name := prefix + "/"
	if err := security.ValidateEntryName(name); err != nil {
		return err
	}

	header := &zip.FileHeader{Name: name, Method: zip.Store}
	if info, err := a.fs.Stat(src); err == nil {
		header.Modified = info.ModTime()
	}

	if _, err := zw.CreateHeader(header); err != nil {
		return errors.ArchiveFailed(fmt.Sprintf("entry %q", name), err)
	}
	return nil
}

func (a *Archiver) addEntry(zw *zip.Writer, res *Result, path, name string, info fs.FileInfo, method Method) error {
	kind, info := a.classify(path, info)

	switch kind {
	case kindDir:
		if name == "" {
			return nil
		}
		name += "/"
		if err := security.ValidateEntryName(name); err != nil {
			return err
		}

		header := &zip.FileHeader{Name: name, Method: zip.Store, Modified: info.ModTime()}
		header.SetMode(fs.ModeDir | a.perm)
		if _, err := zw.CreateHeader(header); err != nil {
			return errors.ArchiveFailed(fmt.Sprintf("entry %q", name), err)
		}
		res.Dirs++
		return nil

	case kindFile:
		if err := security.ValidateEntryName(name); err != nil {
			return err
		}

		data, ok, err := a.readContent(res, path, name)
		if err != nil || !ok {
			return err
		}

		header := &zip.FileHeader{Name: name, Method: uint16(method), Modified: info.ModTime()}
		header.SetMode(a.perm)
		if err := writeEntry(zw, header, data); err != nil {
			return err
		}
		res.Files++
		res.BytesRead += int64(len(data))
		return nil

	default:
		a.logger.Debug("skipping special file", zap.String("path", path), zap.Stringer("mode", info.Mode()))
		res.Skipped = append(res.Skipped, path)
		return nil
	}
}

// classify resolves symlinks without descending into them. A link whose
// target cannot be resolved is treated as a file so the unreadable policy
// decides its fate.
func (a *Archiver) classify(path string, info fs.FileInfo) (entryKind, fs.FileInfo) {
	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := a.fs.Stat(path)
		if err != nil {
			return kindFile, info
		}
		info = target
	}

	switch {
	case info.IsDir():
		return kindDir, info
	case info.Mode().IsRegular():
		return kindFile, info
	default:
		return kindOther, info
	}
}

// readContent reads a whole file and applies the unreadable policy on failure.
// ok is false when the entry must be left out.
func (a *Archiver) readContent(res *Result, path, name string) (data []byte, ok bool, err error) {
	data, readErr := afero.ReadFile(a.fs, path)
	if readErr == nil {
		return data, true, nil
	}

	switch a.policy {
	case PolicySkip:
		a.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(readErr))
		res.Skipped = append(res.Skipped, path)
		return nil, false, nil
	case PolicyAbort:
		return nil, false, errors.UnreadableFile(path, readErr)
	default:
		a.logger.Warn("writing unreadable file as empty entry", zap.String("path", path), zap.Error(readErr))
		res.Emptied = append(res.Emptied, name)
		return nil, true, nil
	}
}

func writeEntry(zw *zip.Writer, header *zip.FileHeader, data []byte) error {
	w, err := zw.CreateHeader(header)
	if err != nil {
		return errors.ArchiveFailed(fmt.Sprintf("entry %q", header.Name), err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.ArchiveFailed(fmt.Sprintf("entry %q", header.Name), err)
	}
	return nil
}
