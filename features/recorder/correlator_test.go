package recorder

import (
	"testing"
	"time"

	"github.com/markus-wa/xlogger/features/input"
)

func TestCorrelatorPairsPressAndRelease(t *testing.T) {
	origin := time.Now()
	c := NewCorrelator()

	_, done := c.Observe(1, input.ButtonSouth, 1.0, origin.Add(1000*time.Millisecond), origin)
	if done {
		t.Fatal("press must not emit a record")
	}

	rec, done := c.Observe(1, input.ButtonSouth, 0.0, origin.Add(1250*time.Millisecond), origin)
	if !done {
		t.Fatal("release must emit a record")
	}

	if rec.Button != "South" {
		t.Errorf("button = %q, want %q", rec.Button, "South")
	}
	if rec.PressTime != 1.0 {
		t.Errorf("press time = %v, want 1.0", rec.PressTime)
	}
	if rec.ReleaseTime != 1.25 {
		t.Errorf("release time = %v, want 1.25", rec.ReleaseTime)
	}
}

func TestCorrelatorRepeatedPressIsIdempotent(t *testing.T) {
	origin := time.Now()
	c := NewCorrelator()

	// held buttons report non-zero values repeatedly; only the first
	// press establishes the press time
	c.Observe(1, input.ButtonSouth, 1.0, origin.Add(time.Second), origin)
	c.Observe(1, input.ButtonSouth, 0.7, origin.Add(2*time.Second), origin)
	c.Observe(1, input.ButtonSouth, 0.3, origin.Add(3*time.Second), origin)

	rec, done := c.Observe(1, input.ButtonSouth, 0.0, origin.Add(4*time.Second), origin)
	if !done {
		t.Fatal("release must emit a record")
	}

	if rec.PressTime != 1.0 {
		t.Errorf("press time = %v, want 1.0 (first press)", rec.PressTime)
	}
	if rec.ReleaseTime < rec.PressTime {
		t.Errorf("release %v before press %v", rec.ReleaseTime, rec.PressTime)
	}
}

func TestCorrelatorUnmatchedReleaseIsZeroDuration(t *testing.T) {
	origin := time.Now()
	c := NewCorrelator()

	rec, done := c.Observe(1, input.ButtonSouth, 0.0, origin.Add(2*time.Second), origin)
	if !done {
		t.Fatal("unmatched release must still emit a record")
	}

	if rec.PressTime != rec.ReleaseTime {
		t.Errorf("press %v != release %v, want zero duration", rec.PressTime, rec.ReleaseTime)
	}
	if rec.PressTime != 2.0 {
		t.Errorf("press time = %v, want 2.0", rec.PressTime)
	}
}

func TestCorrelatorTracksDevicesIndependently(t *testing.T) {
	origin := time.Now()
	c := NewCorrelator()

	c.Observe(1, input.ButtonSouth, 1.0, origin.Add(time.Second), origin)
	c.Observe(2, input.ButtonSouth, 1.0, origin.Add(2*time.Second), origin)

	rec, _ := c.Observe(2, input.ButtonSouth, 0.0, origin.Add(3*time.Second), origin)
	if rec.PressTime != 2.0 {
		t.Errorf("device 2 press time = %v, want 2.0", rec.PressTime)
	}

	rec, _ = c.Observe(1, input.ButtonSouth, 0.0, origin.Add(4*time.Second), origin)
	if rec.PressTime != 1.0 {
		t.Errorf("device 1 press time = %v, want 1.0", rec.PressTime)
	}
}

func TestCorrelatorResetDropsPendingPresses(t *testing.T) {
	origin := time.Now()
	c := NewCorrelator()

	c.Observe(1, input.ButtonSouth, 1.0, origin.Add(time.Second), origin)
	c.Reset()

	// after the reset the release has no matching press left
	rec, done := c.Observe(1, input.ButtonSouth, 0.0, origin.Add(5*time.Second), origin)
	if !done {
		t.Fatal("release must emit a record")
	}

	if rec.PressTime != rec.ReleaseTime {
		t.Errorf("press %v != release %v, want zero duration after reset", rec.PressTime, rec.ReleaseTime)
	}
}
