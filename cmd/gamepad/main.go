// gamepad dumps normalized controller events, useful for checking what a
// pad actually reports before recording with it.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/markus-wa/xlogger/features/input"
)

func run() error {
	src, err := input.NewEvdevSource()
	if err != nil {
		return fmt.Errorf("failed to initialize input backend: %w", err)
	}

	defer src.Close()

	for _, d := range src.Devices() {
		zap.S().Infow("controller", "id", d.ID, "name", d.Name, "path", d.Path)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	for {
		select {
		case <-interrupt:
			return nil
		default:
		}

		ev, ok := src.Poll()
		if !ok {
			time.Sleep(time.Millisecond)

			continue
		}

		switch ev.Kind {
		case input.KindAxisChanged:
			zap.S().Infow("axis", "device", ev.Device, "axis", ev.Axis.String(), "value", ev.Value)
		case input.KindButtonChanged:
			zap.S().Infow("button", "device", ev.Device, "button", ev.Button, "value", ev.Value)
		case input.KindConnected:
			zap.S().Infow("connected", "device", ev.Device, "name", ev.Name)
		case input.KindDisconnected:
			zap.S().Infow("disconnected", "device", ev.Device, "name", ev.Name)
		}
	}
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}

	defer logger.Sync()

	zap.ReplaceGlobals(logger)

	err = run()
	if err != nil {
		zap.S().Errorw("run failed", "error", err)
	}
}
