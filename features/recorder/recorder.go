// Package recorder contains the capture core: the button press/release
// correlator, the stick state tracker, per-session CSV writers and the
// recording controller that drives them from a single background goroutine.
package recorder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/markus-wa/xlogger/features/input"
	"github.com/markus-wa/xlogger/features/sessions"
)

// Command is a discrete request handled by the capture loop.
type Command int

const (
	CmdGetAllControllers Command = iota
	CmdStartRecording
	CmdStopRecording
)

// NotificationKind classifies messages published back to the UI.
type NotificationKind int

const (
	// NoteConnection reports a controller connecting or disconnecting.
	NoteConnection NotificationKind = iota
	// NoteHighlight pulses while a controller produces input.
	NoteHighlight
	// NoteRecording reports the recording state changing.
	NoteRecording
	// NoteError carries a user-visible error message.
	NoteError
)

// Notification is one message from the capture loop to the UI.
type Notification struct {
	Kind      NotificationKind
	Device    input.DeviceID
	Name      string
	Connected bool
	Highlight bool
	Recording bool
	Message   string
}

// ErrAlreadyListening is returned by StartListening while a capture loop
// is already running.
var ErrAlreadyListening = errors.New("already listening for controller events")

// Recorder owns the event source and, while recording, one session writer
// pair per connected device. Its public methods are safe to call from the
// UI goroutine; all capture state lives inside the background loop.
type Recorder struct {
	src     input.Source
	dataDir string
	catalog *sessions.Catalog

	cmds  chan Command
	notes chan Notification

	running   atomic.Bool
	recording atomic.Bool

	mu   sync.Mutex
	done chan struct{}
}

// New creates a Recorder writing session files under dataDir. catalog may
// be nil, in which case completed sessions are not indexed.
func New(src input.Source, dataDir string, catalog *sessions.Catalog) *Recorder {
	return &Recorder{
		src:     src,
		dataDir: dataDir,
		catalog: catalog,
		cmds:    make(chan Command, 16),
		notes:   make(chan Notification, 64),
	}
}

// Notifications returns the stream of connection, highlight, recording and
// error messages for the UI.
func (r *Recorder) Notifications() <-chan Notification {
	return r.notes
}

// Listening reports whether the capture loop is running.
func (r *Recorder) Listening() bool {
	return r.running.Load()
}

// Recording reports whether a session is active.
func (r *Recorder) Recording() bool {
	return r.recording.Load()
}

// StartListening spawns the background capture loop.
func (r *Recorder) StartListening() error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyListening
	}

	done := make(chan struct{})

	r.mu.Lock()
	r.done = done
	r.mu.Unlock()

	go r.loop(done)

	return nil
}

// StopListening signals the capture loop to exit and blocks until it has.
// Any active session is closed and flushed before this returns.
func (r *Recorder) StopListening() {
	if !r.running.Load() {
		return
	}

	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	r.running.Store(false)

	if done != nil {
		<-done
	}
}

// Send queues a command for the capture loop. Commands are dropped with a
// log entry if the loop is not keeping up; they gate session lifecycle
// only and must never block the caller.
func (r *Recorder) Send(cmd Command) {
	select {
	case r.cmds <- cmd:
	default:
		zap.S().Warnw("command channel full, dropping command", "command", cmd)
	}
}

// loopState is the capture state owned exclusively by the loop goroutine.
type loopState struct {
	connected map[input.DeviceID]string
	corr      *Correlator
	trackers  map[input.DeviceID]*StickTracker
	open      map[input.DeviceID]*Session
	recording bool
}

func (r *Recorder) loop(done chan struct{}) {
	defer close(done)

	st := &loopState{
		connected: make(map[input.DeviceID]string),
		corr:      NewCorrelator(),
		trackers:  make(map[input.DeviceID]*StickTracker),
		open:      make(map[input.DeviceID]*Session),
	}

	for _, d := range r.src.Devices() {
		st.connected[d.ID] = d.Name
	}

	for r.running.Load() {
		idle := true

		for {
			var cmd Command

			select {
			case cmd = <-r.cmds:
			default:
				cmd = -1
			}

			if cmd < 0 {
				break
			}

			idle = false
			r.handleCommand(cmd, st)
		}

		// act on record flag edges only; re-acting on the level would
		// reopen a session every iteration
		if want := r.recording.Load(); want != st.recording {
			idle = false
			r.applyRecordEdge(want, st)
		}

		for {
			ev, ok := r.src.Poll()
			if !ok {
				break
			}

			idle = false
			r.handleEvent(ev, st)
		}

		if idle {
			time.Sleep(time.Millisecond)
		}
	}

	if st.recording {
		r.closeSessions(st)
		r.recording.Store(false)
	}
}

func (r *Recorder) handleCommand(cmd Command, st *loopState) {
	zap.S().Debugw("got command", "command", cmd)

	switch cmd {
	case CmdGetAllControllers:
		ids := make([]input.DeviceID, 0, len(st.connected))
		for id := range st.connected {
			ids = append(ids, id)
		}

		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			r.notify(Notification{
				Kind:      NoteConnection,
				Device:    id,
				Name:      st.connected[id],
				Connected: true,
			})
		}

	case CmdStartRecording:
		if len(st.connected) == 0 {
			r.notify(Notification{
				Kind:    NoteError,
				Message: "no controllers connected",
			})

			return
		}

		r.recording.Store(true)

	case CmdStopRecording:
		r.recording.Store(false)
	}
}

// applyRecordEdge opens or closes the per-device sessions when the record
// flag flips. A failed open aborts the whole start; recording either runs
// for every connected device or not at all.
func (r *Recorder) applyRecordEdge(want bool, st *loopState) {
	if !want {
		r.closeSessions(st)
		st.recording = false

		r.notify(Notification{Kind: NoteRecording, Recording: false})

		return
	}

	err := r.openSessions(st)
	if err != nil {
		zap.S().Errorw("failed to start recording", "error", err)
		r.recording.Store(false)
		r.notify(Notification{
			Kind:    NoteError,
			Message: fmt.Sprintf("failed to start recording: %v", err),
		})

		return
	}

	st.corr.Reset()
	st.trackers = make(map[input.DeviceID]*StickTracker)
	st.recording = true

	r.notify(Notification{Kind: NoteRecording, Recording: true})
}

func (r *Recorder) openSessions(st *loopState) error {
	start := time.Now()

	for id, name := range st.connected {
		s, err := OpenSession(r.dataDir, devicePrefix(name, id), name, start)
		if err != nil {
			r.closeSessions(st)

			return fmt.Errorf("device %q: %w", name, err)
		}

		st.open[id] = s
		zap.S().Infow("started recording", "device", name, "id", id)
	}

	return nil
}

func (r *Recorder) closeSessions(st *loopState) {
	for id, s := range st.open {
		r.closeSession(id, s, st)
	}
}

func (r *Recorder) closeSession(id input.DeviceID, s *Session, st *loopState) {
	delete(st.open, id)

	err := s.Close()
	if err != nil {
		zap.S().Errorw("failed to close session", "device", id, "error", err)
	}

	if r.catalog != nil {
		_, err = r.catalog.Add(s.Record(time.Now()))
		if err != nil {
			zap.S().Errorw("failed to catalog session", "device", id, "error", err)
		}
	}

	zap.S().Infow("stopped recording", "device", id)
}

func (r *Recorder) handleEvent(ev input.Event, st *loopState) {
	switch ev.Kind {
	case input.KindConnected:
		st.connected[ev.Device] = ev.Name

		r.notify(Notification{
			Kind:      NoteConnection,
			Device:    ev.Device,
			Name:      ev.Name,
			Connected: true,
		})

		if st.recording {
			s, err := OpenSession(r.dataDir, devicePrefix(ev.Name, ev.Device), ev.Name, time.Now())
			if err != nil {
				zap.S().Errorw("failed to record new device", "device", ev.Name, "error", err)

				return
			}

			st.open[ev.Device] = s
		}

	case input.KindDisconnected:
		delete(st.connected, ev.Device)

		if s, ok := st.open[ev.Device]; ok {
			r.closeSession(ev.Device, s, st)
		}

		r.notify(Notification{
			Kind:   NoteConnection,
			Device: ev.Device,
			Name:   ev.Name,
		})

	case input.KindButtonChanged:
		r.notify(Notification{
			Kind:      NoteHighlight,
			Device:    ev.Device,
			Highlight: ev.Value != 0,
		})

		s, ok := st.open[ev.Device]
		if !st.recording || !ok {
			return
		}

		if ev.Time.Before(s.Start()) {
			zap.S().Debugw("ignoring old event", "device", ev.Device, "time", ev.Time)

			return
		}

		rec, ok := st.corr.Observe(ev.Device, ev.Button, ev.Value, ev.Time, s.Start())
		if !ok {
			return
		}

		err := s.WriteButton(rec)
		if err != nil {
			zap.S().Errorw("failed to write button event", "event", rec, "error", err)
		}

	case input.KindAxisChanged:
		r.notify(Notification{
			Kind:      NoteHighlight,
			Device:    ev.Device,
			Highlight: ev.Value != 0,
		})

		s, ok := st.open[ev.Device]
		if !st.recording || !ok {
			return
		}

		if ev.Time.Before(s.Start()) {
			zap.S().Debugw("ignoring old event", "device", ev.Device, "time", ev.Time)

			return
		}

		tracker, ok := st.trackers[ev.Device]
		if !ok {
			tracker = &StickTracker{}
			st.trackers[ev.Device] = tracker
		}

		snap, ok := tracker.Observe(ev.Axis, ev.Value, ev.Time, s.Start())
		if !ok {
			zap.S().Warnw("unhandled axis event", "device", ev.Device, "axis", ev.Axis)

			return
		}

		err := s.WriteStick(snap)
		if err != nil {
			zap.S().Errorw("failed to write stick event", "event", snap, "error", err)
		}
	}
}

// notify drops the message if the UI is not draining; notifications are
// advisory and must never stall the capture loop.
func (r *Recorder) notify(n Notification) {
	select {
	case r.notes <- n:
	default:
	}
}

// devicePrefix builds the session file name prefix <name>_<id>_ with
// spaces replaced so the names stay shell-friendly.
func devicePrefix(name string, id input.DeviceID) string {
	return fmt.Sprintf("%s_%d_", strings.ReplaceAll(name, " ", "_"), id)
}
