// xlogger-record is the headless recorder: it captures controller input to
// session files without the TUI, driven by a few terminal keys.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"unicode"

	"github.com/eiannone/keyboard"
	"go.uber.org/zap"

	"github.com/markus-wa/xlogger/features/appdir"
	"github.com/markus-wa/xlogger/features/input"
	"github.com/markus-wa/xlogger/features/logging"
	"github.com/markus-wa/xlogger/features/recorder"
	"github.com/markus-wa/xlogger/features/sessions"
)

func logNotifications(notes <-chan recorder.Notification) {
	for n := range notes {
		switch n.Kind {
		case recorder.NoteConnection:
			zap.S().Infow("controller", "device", n.Device, "name", n.Name, "connected", n.Connected)
		case recorder.NoteRecording:
			zap.S().Infow("recording", "active", n.Recording)
		case recorder.NoteError:
			zap.S().Errorw("capture error", "message", n.Message)
		}
	}
}

func run(dataDir string) error {
	catalog, err := sessions.OpenCatalog(filepath.Join(dataDir, "xlogger.db"))
	if err != nil {
		return fmt.Errorf("could not open session catalog: %w", err)
	}
	defer catalog.Close()

	src, err := input.NewEvdevSource()
	if err != nil {
		return fmt.Errorf("failed to initialize input backend: %w", err)
	}
	defer src.Close()

	rec := recorder.New(src, dataDir, catalog)

	err = rec.StartListening()
	if err != nil {
		return fmt.Errorf("failed to start listening: %w", err)
	}
	defer rec.StopListening()

	go logNotifications(rec.Notifications())

	for _, d := range src.Devices() {
		fmt.Printf("Controller %d: %s\n", d.ID, d.Name)
	}

	fmt.Println("r: toggle recording, c: list controllers, q: quit")

	keyCh, err := keyboard.GetKeys(1)
	if err != nil {
		return fmt.Errorf("failed to get keys: %w", err)
	}

	defer keyboard.Close()

	for key := range keyCh {
		r := unicode.ToLower(key.Rune)

		if key.Key == keyboard.KeyCtrlC || r == 'q' {
			break
		} else if r == 'r' {
			if rec.Recording() {
				rec.Send(recorder.CmdStopRecording)
			} else {
				rec.Send(recorder.CmdStartRecording)
			}
		} else if r == 'c' {
			rec.Send(recorder.CmdGetAllControllers)
		}
	}

	return nil
}

func main() {
	dataDir := flag.String("data", appdir.DataDir(), "directory for recorded session files")
	flag.Parse()

	logger, err := logging.Init()
	if err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}

	defer logger.Sync()

	err = run(*dataDir)
	if err != nil {
		zap.S().Errorw("run failed", "error", err)
	}
}
