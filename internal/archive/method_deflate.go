//go:build !zipdir_no_deflate

package archive

import (
	"archive/zip"
	"io"

	"github.com/klauspost/compress/flate"
)

func init() {
	register(Deflated, func(levels Levels) zip.Compressor {
		return func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, levels.Deflate)
		}
	})
}
