package archive

import "strings"

// DefaultSuffix is appended to the source path when no destination is given.
const DefaultSuffix = ".zip"

// TrimTrailingSeparator strips exactly one trailing '/' or '\' from path.
// A path that is only a separator is returned unchanged.
func TrimTrailingSeparator(path string) string {
	if len(path) > 1 && (strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`)) {
		return path[:len(path)-1]
	}
	return path
}

// DefaultDestination derives the archive path for a source path.
func DefaultDestination(src string) string {
	return src + DefaultSuffix
}
