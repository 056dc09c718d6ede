package recorder

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markus-wa/xlogger/features/appdir"
	"github.com/markus-wa/xlogger/features/sessions"
)

const fileTimestampFormat = "2006-01-02_15-04-05"

// Session owns the two CSV sinks of one recording session for one device.
// Every write is flushed immediately; input arrives at human speed, so
// durability wins over throughput.
type Session struct {
	device string
	start  time.Time

	buttonPath string
	stickPath  string
	buttonFile *os.File
	stickFile  *os.File
	buttons    *csv.Writer
	sticks     *csv.Writer

	buttonCount int
	stickCount  int
}

// OpenSession creates the button and stick sinks under dir using names
// derived from prefix and the session start timestamp, and writes the
// header rows. On any failure nothing stays open.
func OpenSession(dir, prefix, device string, start time.Time) (*Session, error) {
	err := appdir.Ensure(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	ts := start.Format(fileTimestampFormat)

	s := &Session{
		device:     device,
		start:      start,
		buttonPath: filepath.Join(dir, fmt.Sprintf("%sbuttons_%s.csv", prefix, ts)),
		stickPath:  filepath.Join(dir, fmt.Sprintf("%ssticks_%s.csv", prefix, ts)),
	}

	s.buttonFile, err = os.Create(s.buttonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create button file: %w", err)
	}

	s.stickFile, err = os.Create(s.stickPath)
	if err != nil {
		s.buttonFile.Close()

		return nil, fmt.Errorf("failed to create stick file: %w", err)
	}

	s.buttons = csv.NewWriter(s.buttonFile)
	s.sticks = csv.NewWriter(s.stickFile)

	err = writeRow(s.buttons, sessions.ButtonHeader)
	if err == nil {
		err = writeRow(s.sticks, sessions.StickHeader)
	}

	if err != nil {
		s.buttonFile.Close()
		s.stickFile.Close()

		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return s, nil
}

// Start returns the session's time origin.
func (s *Session) Start() time.Time {
	return s.start
}

// WriteButton appends one completed button event and flushes it.
func (s *Session) WriteButton(ev sessions.ButtonEvent) error {
	err := writeRow(s.buttons, ev.Row())
	if err != nil {
		return fmt.Errorf("failed to write button event: %w", err)
	}

	s.buttonCount++

	return nil
}

// WriteStick appends one stick snapshot and flushes it.
func (s *Session) WriteStick(ev sessions.StickEvent) error {
	err := writeRow(s.sticks, ev.Row())
	if err != nil {
		return fmt.Errorf("failed to write stick event: %w", err)
	}

	s.stickCount++

	return nil
}

// Close flushes and releases both sinks.
func (s *Session) Close() error {
	s.buttons.Flush()
	s.sticks.Flush()

	err := s.buttons.Error()
	if err == nil {
		err = s.sticks.Error()
	}

	if cerr := s.buttonFile.Close(); err == nil {
		err = cerr
	}
	if cerr := s.stickFile.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	return nil
}

// Record returns the catalog entry for this session.
func (s *Session) Record(endedAt time.Time) sessions.Record {
	return sessions.Record{
		Device:      s.device,
		StartedAt:   s.start,
		EndedAt:     &endedAt,
		ButtonPath:  s.buttonPath,
		StickPath:   s.stickPath,
		ButtonCount: s.buttonCount,
		StickCount:  s.stickCount,
	}
}

func writeRow(w *csv.Writer, row []string) error {
	err := w.Write(row)
	if err != nil {
		return err
	}

	w.Flush()

	return w.Error()
}
