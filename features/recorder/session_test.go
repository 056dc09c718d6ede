package recorder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/markus-wa/xlogger/features/sessions"
)

func TestOpenSessionCreatesNamedFilePair(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	s, err := OpenSession(dir, "Test_Pad_1_", "Test Pad", start)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer s.Close()

	wantButtons := filepath.Join(dir, "Test_Pad_1_buttons_2024-03-01_10-30-00.csv")
	wantSticks := filepath.Join(dir, "Test_Pad_1_sticks_2024-03-01_10-30-00.csv")

	if _, err := os.Stat(wantButtons); err != nil {
		t.Errorf("button file missing: %v", err)
	}
	if _, err := os.Stat(wantSticks); err != nil {
		t.Errorf("stick file missing: %v", err)
	}
}

func TestSessionWritesHeadersAndRows(t *testing.T) {
	dir := t.TempDir()
	start := time.Now()

	s, err := OpenSession(dir, "pad_", "pad", start)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	err = s.WriteButton(sessions.ButtonEvent{PressTime: 1, ReleaseTime: 1.25, Button: "South"})
	if err != nil {
		t.Fatalf("write button: %v", err)
	}

	err = s.WriteStick(sessions.StickEvent{Time: 0.1, LeftX: 0.5})
	if err != nil {
		t.Fatalf("write stick: %v", err)
	}

	rec := s.Record(start.Add(time.Minute))

	err = s.Close()
	if err != nil {
		t.Fatalf("close session: %v", err)
	}

	buttons, err := os.ReadFile(rec.ButtonPath)
	if err != nil {
		t.Fatalf("read button file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(buttons)), "\n")
	if len(lines) != 2 {
		t.Fatalf("button file has %d lines, want 2", len(lines))
	}
	if lines[0] != "PressTime,ReleaseTime,Button" {
		t.Errorf("button header = %q", lines[0])
	}
	if lines[1] != "1,1.25,South" {
		t.Errorf("button row = %q, want %q", lines[1], "1,1.25,South")
	}

	sticks, err := os.ReadFile(rec.StickPath)
	if err != nil {
		t.Fatalf("read stick file: %v", err)
	}

	lines = strings.Split(strings.TrimSpace(string(sticks)), "\n")
	if len(lines) != 2 {
		t.Fatalf("stick file has %d lines, want 2", len(lines))
	}
	if lines[0] != "Time,LeftX,LeftY,RightX,RightY" {
		t.Errorf("stick header = %q", lines[0])
	}
	if lines[1] != "0.1,0.5,0,0,0" {
		t.Errorf("stick row = %q, want %q", lines[1], "0.1,0.5,0,0,0")
	}

	if rec.ButtonCount != 1 || rec.StickCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", rec.ButtonCount, rec.StickCount)
	}
	if rec.Device != "pad" {
		t.Errorf("device = %q, want %q", rec.Device, "pad")
	}
	if rec.EndedAt == nil {
		t.Error("ended at not set")
	}
}

func TestDevicePrefixReplacesSpaces(t *testing.T) {
	got := devicePrefix("Xbox Wireless Controller", 3)
	want := "Xbox_Wireless_Controller_3_"

	if got != want {
		t.Errorf("prefix = %q, want %q", got, want)
	}
}
