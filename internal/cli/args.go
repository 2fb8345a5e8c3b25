package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fuabioo/zipdir/internal/archive"
	"github.com/Fuabioo/zipdir/internal/errors"
)

// Target is the resolved source and destination of an archive run.
type Target struct {
	Source      string
	Destination string
}

// resolveArgs turns positional arguments into a Target. It does not touch
// the filesystem.
func resolveArgs(args []string) (Target, error) {
	if len(args) < 1 {
		return Target{}, errors.Usage("source path is required")
	}
	if len(args) > 2 {
		return Target{}, errors.Usage(fmt.Sprintf("expected at most 2 arguments, got %d", len(args)))
	}

	src := archive.TrimTrailingSeparator(args[0])

	dst := archive.DefaultDestination(src)
	if len(args) == 2 {
		dst = args[1]
	}

	return Target{Source: src, Destination: dst}, nil
}

func validateArgs(cmd *cobra.Command, args []string) error {
	_, err := resolveArgs(args)
	return err
}
