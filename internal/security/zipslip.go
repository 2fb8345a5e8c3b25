package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Within reports whether target resolves to base itself or to a path below it.
// Both paths are made absolute first, so relative inputs are resolved
// against the working directory.
func Within(base, target string) (bool, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %q: %w", base, err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %q: %w", target, err)
	}

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		// Different volumes
		return false, nil
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}

	return true, nil
}

// SamePath reports whether a and b name the same location after
// cleaning and resolving against the working directory. It does not
// consult the filesystem.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
