package security

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/Fuabioo/zipdir/internal/errors"
)

// NormalizeEntryName converts a filesystem path into a portable zip entry name.
//   - Separators become forward slashes
//   - Volume names and leading slashes are dropped
//   - "." and ".." elements are resolved lexically, and any ".." left
//     at the front is dropped
//
// The result may be empty, e.g. for "." or "/".
func NormalizeEntryName(p string) string {
	p = path.Clean(filepath.ToSlash(p[len(filepath.VolumeName(p)):]))
	p = strings.TrimLeft(p, "/")

	for p == ".." || strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(strings.TrimPrefix(p, ".."), "/")
	}

	if p == "." {
		return ""
	}
	return p
}

// JoinEntryName joins a normalized prefix and a relative filesystem path
// into an entry name. An empty prefix yields the normalized relative path.
func JoinEntryName(prefix, rel string) string {
	rel = NormalizeEntryName(rel)
	switch {
	case prefix == "":
		return rel
	case rel == "":
		return prefix
	}
	return prefix + "/" + rel
}

// ValidateEntryName checks that a zip entry name keeps the archive structure.
// Rejects:
// - Empty names
// - Absolute names
// - Null bytes
// - ".." components
//
// Other control characters are legal in file names and are kept.
// A single trailing slash (directory entry) is allowed.
func ValidateEntryName(name string) error {
	if name == "" || name == "/" {
		return errors.InvalidEntryName(name, "name cannot be empty")
	}

	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return errors.InvalidEntryName(name, "name must be relative")
	}

	if strings.Contains(name, "\x00") {
		return errors.InvalidEntryName(name, "contains null byte")
	}

	for _, part := range strings.Split(strings.TrimSuffix(name, "/"), "/") {
		if part == ".." {
			return errors.InvalidEntryName(name, "contains \"..\" component")
		}
	}

	return nil
}
