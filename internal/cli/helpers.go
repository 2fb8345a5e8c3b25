package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Fuabioo/zipdir/internal/config"
)

// outputJSON marshals and prints JSON to w.
func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// isTerminal checks if the given file descriptor is a TTY.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// getExitCode maps errors to CLI exit codes. Usage errors and operational
// errors share status 1.
func getExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// loadConfig loads the configuration with the command's flags bound on top.
// It also returns the config file that was read, or "" when none was found.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, used, err := config.Load(config.LoadOptions{
		ConfigFile: flagConfig,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, "", err
	}
	return cfg, used, nil
}

// printError prints an error with appropriate formatting.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
