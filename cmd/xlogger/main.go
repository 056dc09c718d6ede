package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/markus-wa/xlogger/features/appdir"
	"github.com/markus-wa/xlogger/features/hud"
	"github.com/markus-wa/xlogger/features/input"
	"github.com/markus-wa/xlogger/features/logging"
	"github.com/markus-wa/xlogger/features/recorder"
	"github.com/markus-wa/xlogger/features/sessions"
	"github.com/markus-wa/xlogger/features/ui"
)

func run(dataDir string, withHud bool) error {
	err := appdir.Ensure(dataDir)
	if err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	catalog, err := sessions.OpenCatalog(filepath.Join(dataDir, "xlogger.db"))
	if err != nil {
		return fmt.Errorf("could not open session catalog: %w", err)
	}
	defer catalog.Close()

	var (
		rec        *recorder.Recorder
		captureErr string
	)

	src, err := input.NewEvdevSource()
	if err != nil {
		// the app stays up to browse and plot old sessions, but the UI
		// must say why recording is off
		zap.S().Errorw("failed to initialize input backend", "error", err)
		captureErr = err.Error()
	} else {
		defer src.Close()

		rec = recorder.New(src, dataDir, catalog)

		err = rec.StartListening()
		if err != nil {
			return fmt.Errorf("failed to start listening: %w", err)
		}
		defer rec.StopListening()

		zap.S().Infow("started listening to controllers")
	}

	var sink ui.StatusSink

	if withHud {
		h := hud.New()
		sink = h

		go func() {
			err := h.Start()
			if err != nil {
				zap.S().Errorw("hud failed", "error", err)
			}
		}()
	}

	model := ui.New(rec, catalog, sink, filepath.Join(dataDir, "plots"), captureErr)

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("UI failed: %w", err)
	}

	return nil
}

func main() {
	dataDir := flag.String("data", appdir.DataDir(), "directory for recorded session files")
	withHud := flag.Bool("hud", false, "show the on-screen recording overlay")
	flag.Parse()

	logger, err := logging.Init()
	if err != nil {
		// do not allow the program to continue without logging
		log.Fatalf("could not initialize logger: %v", err)
	}

	defer logger.Sync()

	err = run(*dataDir, *withHud)
	if err != nil {
		zap.S().Errorw("run failed", "error", err)
	}
}
