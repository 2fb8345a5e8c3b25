//go:build !zipdir_no_bzip2

package archive

import (
	"archive/zip"
	"io"

	"github.com/dsnet/compress/bzip2"
)

func init() {
	register(Bzip2, func(levels Levels) zip.Compressor {
		return func(w io.Writer) (io.WriteCloser, error) {
			return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: levels.Bzip2})
		}
	})
}
