// Package appdir resolves the directories xlogger keeps next to its
// executable: data/ for recorded sessions and logs/ for per-run log files.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExeDir returns the directory containing the running executable.
// If the executable path cannot be resolved it falls back to the
// current directory.
func ExeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}

	return filepath.Dir(exe)
}

// DataDir returns the session data directory beside the executable.
func DataDir() string {
	return filepath.Join(ExeDir(), "data")
}

// LogsDir returns the log directory beside the executable.
func LogsDir() string {
	return filepath.Join(ExeDir(), "logs")
}

// Ensure creates dir if it does not exist.
func Ensure(dir string) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	return nil
}
