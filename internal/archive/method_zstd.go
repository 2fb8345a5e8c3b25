//go:build !zipdir_no_zstd

package archive

import (
	"archive/zip"

	"github.com/klauspost/compress/zstd"
)

func init() {
	register(Zstd, func(levels Levels) zip.Compressor {
		var opts []zstd.EOption
		if levels.Zstd > 0 {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(levels.Zstd)))
		}
		return zstd.ZipCompressor(opts...)
	})
}
