// Package logging sets up the global zap logger. Each run writes its own
// file under logs/ beside the executable, named by the start timestamp.
package logging

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/markus-wa/xlogger/features/appdir"
)

const fileTimestampFormat = "2006-01-02_15-04-05"

// Init builds a development-style logger that writes to a per-run log file
// and stderr, and installs it as the global logger. The caller should defer
// Sync on the returned logger.
func Init() (*zap.Logger, error) {
	logsDir := appdir.LogsDir()

	err := appdir.Ensure(logsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logPath := filepath.Join(logsDir, time.Now().Format(fileTimestampFormat)+".log")

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{logPath, "stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("could not initialize logger: %w", err)
	}

	zap.ReplaceGlobals(logger)

	return logger, nil
}
