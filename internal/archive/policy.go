package archive

import (
	"strings"

	"github.com/Fuabioo/zipdir/internal/errors"
)

// Policy decides what happens to a file whose contents cannot be read
// after traversal has found it.
type Policy int

const (
	// PolicyEmpty writes the entry with zero-length content.
	PolicyEmpty Policy = iota
	// PolicySkip leaves the entry out of the archive.
	PolicySkip
	// PolicyAbort fails the whole run with UNREADABLE_FILE.
	PolicyAbort
)

func (p Policy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicyAbort:
		return "abort"
	default:
		return "empty"
	}
}

// ParsePolicy parses "empty", "skip" or "abort".
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "empty":
		return PolicyEmpty, nil
	case "skip":
		return PolicySkip, nil
	case "abort":
		return PolicyAbort, nil
	default:
		return PolicyEmpty, errors.InvalidPolicy(name)
	}
}
