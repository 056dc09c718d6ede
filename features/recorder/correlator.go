package recorder

import (
	"time"

	"github.com/markus-wa/xlogger/features/input"
	"github.com/markus-wa/xlogger/features/sessions"
)

type pressKey struct {
	device input.DeviceID
	button input.Button
}

// Correlator pairs a button's press and release into one duration record.
// It keeps the instant of the first press per (device, button); repeated
// "still held" events do not move it.
type Correlator struct {
	pending map[pressKey]time.Time
}

func NewCorrelator() *Correlator {
	return &Correlator{pending: make(map[pressKey]time.Time)}
}

// Observe feeds one button change into the correlator. A non-zero value is
// a press or hold; zero is a release and completes the record, with times
// converted to seconds relative to origin. A release with no matching
// press yields a zero-duration record rather than being dropped.
func (c *Correlator) Observe(device input.DeviceID, button input.Button, value float64, t, origin time.Time) (sessions.ButtonEvent, bool) {
	key := pressKey{device: device, button: button}

	if value != 0 {
		if _, ok := c.pending[key]; !ok {
			c.pending[key] = t
		}

		return sessions.ButtonEvent{}, false
	}

	press, ok := c.pending[key]
	delete(c.pending, key)

	if !ok {
		press = t
	}

	return sessions.ButtonEvent{
		PressTime:   press.Sub(origin).Seconds(),
		ReleaseTime: t.Sub(origin).Seconds(),
		Button:      string(button),
	}, true
}

// Reset drops all pending presses. Called when a new session begins so no
// timestamps leak across sessions.
func (c *Correlator) Reset() {
	c.pending = make(map[pressKey]time.Time)
}
