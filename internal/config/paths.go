package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the configuration directory for zipdir.
// It follows the XDG Base Directory Specification:
// - $ZIPDIR_CONFIG_DIR (full override)
// - $XDG_CONFIG_HOME/zipdir
// - ~/.config/zipdir (fallback)
func Dir() (string, error) {
	if dir := os.Getenv("ZIPDIR_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".config", AppName), nil
}
