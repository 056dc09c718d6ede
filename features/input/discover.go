package input

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kenshaw/evdev"
)

const devInputDir = "/dev/input"

// discovered describes one gamepad device node found under /dev/input.
type discovered struct {
	Name   string
	Path   string
	Serial string
}

// probeDevice opens path just long enough to read its identity and
// capabilities. Gamepads are recognized by their key capability bits.
func probeDevice(path string) (discovered, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return discovered{}, false, fmt.Errorf("failed to open device: %w", err)
	}
	defer f.Close()

	dev := evdev.Open(f)

	keys := dev.KeyTypes()
	isGamepad := keys[evdev.BtnGamepad] || keys[evdev.BtnTrigger] || keys[evdev.BtnSelect]

	return discovered{
		Name:   dev.Name(),
		Path:   path,
		Serial: dev.Serial(),
	}, isGamepad, nil
}

// scanGamepads lists all gamepad device nodes currently present.
// Devices we lack permission for are skipped, not errors.
func scanGamepads() ([]discovered, error) {
	dir, err := os.ReadDir(devInputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	devices := make([]discovered, 0, len(dir))

	for _, entry := range dir {
		if !strings.HasPrefix(entry.Name(), "event") {
			continue
		}

		dev, isGamepad, err := probeDevice(devInputDir + "/" + entry.Name())
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				continue
			}

			return nil, fmt.Errorf("failed to read device: %w", err)
		}

		if !isGamepad {
			continue
		}

		devices = append(devices, dev)
	}

	return devices, nil
}
