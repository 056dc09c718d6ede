package plot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/markus-wa/xlogger/features/sessions"
)

func TestBoxValuesSpanPressToRelease(t *testing.T) {
	got := boxValues(sessions.ButtonEvent{PressTime: 1, ReleaseTime: 1.25, Button: "South"})
	want := []float64{1, 1, 1, 1.25, 1.25}

	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGroupByButtonSortsNames(t *testing.T) {
	events := []sessions.ButtonEvent{
		{PressTime: 3, ReleaseTime: 4, Button: "West"},
		{PressTime: 1, ReleaseTime: 2, Button: "South"},
		{PressTime: 5, ReleaseTime: 6, Button: "South"},
		{PressTime: 7, ReleaseTime: 8, Button: "East"},
	}

	names, groups := groupByButton(events)

	want := []string{"East", "South", "West"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	if len(groups["South"]) != 2 {
		t.Errorf("South group has %d events, want 2", len(groups["South"]))
	}
	if groups["South"][0].PressTime != 1 {
		t.Errorf("South events out of order: %+v", groups["South"])
	}
}

func TestStickPointsOffsetRightStick(t *testing.T) {
	left, right := stickPoints([]sessions.StickEvent{
		{Time: 0.1, LeftX: 0.5, LeftY: -0.5, RightX: 0.25, RightY: 1},
	})

	if len(left) != 1 || len(right) != 1 {
		t.Fatalf("got %d/%d points, want 1/1", len(left), len(right))
	}

	if left[0] != [2]float64{0.5, -0.5} {
		t.Errorf("left point = %v", left[0])
	}
	if right[0] != [2]float64{0.25 + rightStickOffset, 1} {
		t.Errorf("right point = %v, want x shifted by %v", right[0], rightStickOffset)
	}
}

func TestRenderSessionWritesHTML(t *testing.T) {
	dataDir := t.TempDir()

	buttonPath := filepath.Join(dataDir, "buttons.csv")
	buttonCSV := "PressTime,ReleaseTime,Button\n1,1.25,South\n2,2.1,East\n"
	if err := os.WriteFile(buttonPath, []byte(buttonCSV), 0o644); err != nil {
		t.Fatalf("write button fixture: %v", err)
	}

	stickPath := filepath.Join(dataDir, "sticks.csv")
	stickCSV := "Time,LeftX,LeftY,RightX,RightY\n0.1,0.5,0,0,0\n0.2,0.5,0.5,-0.25,0\n"
	if err := os.WriteFile(stickPath, []byte(stickCSV), 0o644); err != nil {
		t.Fatalf("write stick fixture: %v", err)
	}

	rec := sessions.Record{
		ID:         7,
		Device:     "Test Pad",
		StartedAt:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		ButtonPath: buttonPath,
		StickPath:  stickPath,
	}

	outDir := t.TempDir()

	for _, lines := range []bool{false, true} {
		out, err := RenderSession(rec, outDir, lines)
		if err != nil {
			t.Fatalf("render (lines=%v): %v", lines, err)
		}

		if filepath.Base(out) != "session_7_2024-03-01_10-30-00.html" {
			t.Errorf("output file = %q", filepath.Base(out))
		}

		html, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}

		for _, want := range []string{"Test Pad button presses", "Test Pad stick movement", "South"} {
			if !strings.Contains(string(html), want) {
				t.Errorf("output (lines=%v) missing %q", lines, want)
			}
		}
	}
}

func TestRenderSessionFailsOnMissingData(t *testing.T) {
	rec := sessions.Record{
		ID:         1,
		Device:     "pad",
		StartedAt:  time.Now(),
		ButtonPath: filepath.Join(t.TempDir(), "missing_buttons.csv"),
		StickPath:  filepath.Join(t.TempDir(), "missing_sticks.csv"),
	}

	if _, err := RenderSession(rec, t.TempDir(), false); err == nil {
		t.Error("render with missing session files must fail")
	}
}
