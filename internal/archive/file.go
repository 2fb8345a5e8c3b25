package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Fuabioo/zipdir/internal/errors"
	"github.com/Fuabioo/zipdir/internal/security"
)

// archiveFile wraps a single file as one stored entry named by its base name.
// The requested method is ignored and no custom permissions are set.
func (a *Archiver) archiveFile(src, dst string) (res *Result, err error) {
	f, err := a.fs.Open(src)
	if err != nil {
		return nil, errors.SourceUnavailable(src, err)
	}
	defer f.Close()

	name := filepath.Base(src)
	if err := security.ValidateEntryName(name); err != nil {
		return nil, err
	}

	out, err := createOutput(a.fs, dst)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = out.discard()
		}
	}()

	res = &Result{
		Source:      src,
		Destination: dst,
		Mode:        ModeSingleFile,
		Method:      Stored.String(),
	}

	zw := zip.NewWriter(out.file)
	start := time.Now()

	data, readErr := io.ReadAll(f)
	include := true
	if readErr != nil {
		switch a.policy {
		case PolicySkip:
			a.logger.Warn("skipping unreadable file", zap.String("path", src), zap.Error(readErr))
			res.Skipped = append(res.Skipped, src)
			include = false
		case PolicyAbort:
			return nil, errors.UnreadableFile(src, readErr)
		default:
			a.logger.Warn("writing unreadable file as empty entry", zap.String("path", src), zap.Error(readErr))
			res.Emptied = append(res.Emptied, name)
			data = nil
		}
	}

	if include {
		header := &zip.FileHeader{Name: name, Method: zip.Store}
		if info, statErr := f.Stat(); statErr == nil {
			header.Modified = info.ModTime()
		}
		if err := writeEntry(zw, header, data); err != nil {
			return nil, err
		}
		res.Files = 1
		res.BytesRead = int64(len(data))
	}
	res.Duration = time.Since(start)

	a.logger.Info("entries written", zap.Duration("duration", res.Duration), zap.Int("files", res.Files))

	if err := zw.Close(); err != nil {
		return nil, errors.ArchiveFailed(fmt.Sprintf("central directory of %q", dst), err)
	}

	size, err := out.commit()
	if err != nil {
		return nil, err
	}
	res.ArchiveSize = size

	return res, nil
}
