package recorder

import (
	"testing"
	"time"

	"github.com/markus-wa/xlogger/features/input"
)

func TestStickTrackerSnapshotsAllAxes(t *testing.T) {
	origin := time.Now()
	tracker := &StickTracker{}

	snap, ok := tracker.Observe(input.AxisLeftX, 0.5, origin.Add(100*time.Millisecond), origin)
	if !ok {
		t.Fatal("known axis must emit a snapshot")
	}

	if snap.Time != 0.1 {
		t.Errorf("time = %v, want 0.1", snap.Time)
	}
	if snap.LeftX != 0.5 {
		t.Errorf("left x = %v, want 0.5", snap.LeftX)
	}
	if snap.LeftY != 0 || snap.RightX != 0 || snap.RightY != 0 {
		t.Errorf("untouched axes changed: %+v", snap)
	}
}

func TestStickTrackerKeepsLastKnownValues(t *testing.T) {
	origin := time.Now()
	tracker := &StickTracker{}

	tracker.Observe(input.AxisLeftX, 0.5, origin.Add(time.Second), origin)
	tracker.Observe(input.AxisRightY, -0.25, origin.Add(2*time.Second), origin)

	snap, _ := tracker.Observe(input.AxisLeftY, 1.0, origin.Add(3*time.Second), origin)

	want := struct{ lx, ly, rx, ry float64 }{0.5, 1.0, 0, -0.25}
	got := struct{ lx, ly, rx, ry float64 }{snap.LeftX, snap.LeftY, snap.RightX, snap.RightY}

	if got != want {
		t.Errorf("snapshot = %+v, want %+v", got, want)
	}
}

func TestStickTrackerIgnoresUnknownAxis(t *testing.T) {
	origin := time.Now()
	tracker := &StickTracker{}

	_, ok := tracker.Observe(input.AxisUnknown, 0.5, origin.Add(time.Second), origin)
	if ok {
		t.Fatal("unknown axis must not emit a snapshot")
	}

	snap, _ := tracker.Observe(input.AxisLeftX, 0.1, origin.Add(2*time.Second), origin)
	if snap.LeftY != 0 || snap.RightX != 0 || snap.RightY != 0 {
		t.Errorf("unknown axis mutated state: %+v", snap)
	}
}
