package utils

import (
	"os"
	"path/filepath"
)

// GetProjectRoot returns the absolute path to the nearest directory holding go.mod,
// or "." when there is none.
func GetProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "." // fallback
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root
		}
		dir = parent
	}
	return "." // fallback
}

// GetStateDir returns ~/.fsfplink, where the CLI keeps its credential cell.
// FSFPL_STATE_DIR overrides it.
func GetStateDir() string {
	if dir := os.Getenv("FSFPL_STATE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".fsfplink")
	}
	return filepath.Join(home, ".fsfplink")
}
