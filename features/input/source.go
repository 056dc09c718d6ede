// Package input adapts Linux evdev gamepads into a stream of normalized
// input events: stick axis changes, button changes and connect/disconnect.
package input

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kenshaw/evdev"
	"go.uber.org/zap"
)

// DeviceInfo describes one connected gamepad.
type DeviceInfo struct {
	ID     DeviceID
	Name   string
	Path   string
	Serial string
}

// Source produces raw input events. Poll is non-blocking and drains one
// event per call; callers loop until it reports no event, then yield.
type Source interface {
	Poll() (Event, bool)
	Devices() []DeviceInfo
	Close() error
}

const (
	eventBufferSize = 256
	rescanInterval  = time.Second
)

// EvdevSource is an evdev-backed Source. It opens every gamepad under
// /dev/input, pumps their events into a shared buffer and rescans
// periodically for hotplugged devices.
type EvdevSource struct {
	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	wg     sync.WaitGroup

	mu     sync.Mutex
	open   map[string]*deviceHandle
	nextID DeviceID
	closed bool
}

type deviceHandle struct {
	info DeviceInfo
	dev  *evdev.Evdev
}

// NewEvdevSource opens all currently connected gamepads and starts the
// hotplug watcher. Failure to scan /dev/input at all is a construction
// error; the capture subsystem cannot run without it. Zero connected
// gamepads is not an error.
func NewEvdevSource() (*EvdevSource, error) {
	devs, err := scanGamepads()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	s := &EvdevSource{
		events: make(chan Event, eventBufferSize),
		open:   make(map[string]*deviceHandle),
		nextID: 1,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.mu.Lock()
	for _, d := range devs {
		s.attachLocked(d)
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go s.watch()

	return s, nil
}

// Poll returns the next buffered event, if any.
func (s *EvdevSource) Poll() (Event, bool) {
	select {
	case ev := <-s.events:
		return ev, true
	default:
		return Event{}, false
	}
}

// Devices returns a snapshot of the currently connected gamepads,
// ordered by connect time.
func (s *EvdevSource) Devices() []DeviceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]DeviceInfo, 0, len(s.open))
	for _, h := range s.open {
		infos = append(infos, h.info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })

	return infos
}

// Close stops the watcher and all device pumps and waits for them to exit.
func (s *EvdevSource) Close() error {
	s.mu.Lock()
	s.closed = true
	for _, h := range s.open {
		h.dev.Close()
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	return nil
}

// attachLocked opens a discovered device and starts its pump.
// Open failures are logged and the device is skipped; the next rescan
// will retry it. Caller holds s.mu.
func (s *EvdevSource) attachLocked(d discovered) {
	dev, err := evdev.OpenFile(d.Path)
	if err != nil {
		zap.S().Warnw("failed to open device", "path", d.Path, "error", err)

		return
	}

	h := &deviceHandle{
		info: DeviceInfo{
			ID:     s.nextID,
			Name:   d.Name,
			Path:   d.Path,
			Serial: d.Serial,
		},
		dev: dev,
	}
	s.nextID++
	s.open[d.Path] = h

	s.emit(Event{
		Kind:   KindConnected,
		Device: h.info.ID,
		Name:   h.info.Name,
		Time:   time.Now(),
	})

	s.wg.Add(1)
	go s.pump(h)
}

// pump forwards one device's events until its poll channel closes,
// which happens on unplug or Close.
func (s *EvdevSource) pump(h *deviceHandle) {
	defer s.wg.Done()

	tr := &translator{device: h.info.ID}

	for env := range h.dev.Poll(s.ctx) {
		if env == nil {
			continue
		}

		now := time.Now()
		for _, ev := range tr.translate(env.Type, env.Value, now) {
			s.emit(ev)
		}
	}

	s.detach(h.info.Path)
}

// detach removes a device and emits its disconnect event. Safe to call
// from both the pump and the watcher; only the first call wins.
func (s *EvdevSource) detach(path string) {
	s.mu.Lock()

	h, ok := s.open[path]
	if ok {
		delete(s.open, path)
	}
	closed := s.closed

	s.mu.Unlock()

	if !ok || closed {
		return
	}

	s.emit(Event{
		Kind:   KindDisconnected,
		Device: h.info.ID,
		Name:   h.info.Name,
		Time:   time.Now(),
	})
}

// watch rescans /dev/input for hotplug. New gamepads are attached;
// vanished device nodes have their handles closed, which ends their
// pumps and emits the disconnect.
func (s *EvdevSource) watch() {
	defer s.wg.Done()

	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}

		devs, err := scanGamepads()
		if err != nil {
			zap.S().Warnw("device rescan failed", "error", err)

			continue
		}

		present := make(map[string]discovered, len(devs))
		for _, d := range devs {
			present[d.Path] = d
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()

			return
		}

		for path, h := range s.open {
			if _, ok := present[path]; !ok {
				h.dev.Close()
			}
		}

		for path, d := range present {
			if _, ok := s.open[path]; !ok {
				s.attachLocked(d)
			}
		}
		s.mu.Unlock()
	}
}

// emit drops the event if the buffer is full rather than blocking a pump.
func (s *EvdevSource) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		zap.S().Warnw("event buffer full, dropping event", "device", ev.Device, "kind", ev.Kind)
	}
}
