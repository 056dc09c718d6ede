// Package sessions holds the recorded event types, the CSV session file
// format shared by the recorder and the plot builder, and the SQLite
// catalog that indexes completed sessions.
package sessions

import "strconv"

// ButtonEvent is one completed press/release pair. Times are seconds
// relative to the recording session's start instant.
type ButtonEvent struct {
	PressTime   float64
	ReleaseTime float64
	Button      string
}

// StickEvent is a full snapshot of both sticks, emitted on every axis
// change. Time is seconds relative to the session start instant.
type StickEvent struct {
	Time   float64
	LeftX  float64
	LeftY  float64
	RightX float64
	RightY float64
}

// CSV headers of the two session file kinds.
var (
	ButtonHeader = []string{"PressTime", "ReleaseTime", "Button"}
	StickHeader  = []string{"Time", "LeftX", "LeftY", "RightX", "RightY"}
)

// formatSeconds renders a relative timestamp so that parsing it back
// yields the exact same float64.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Row renders the event as a CSV row.
func (e ButtonEvent) Row() []string {
	return []string{formatSeconds(e.PressTime), formatSeconds(e.ReleaseTime), e.Button}
}

// Row renders the event as a CSV row.
func (e StickEvent) Row() []string {
	return []string{
		formatSeconds(e.Time),
		formatSeconds(e.LeftX),
		formatSeconds(e.LeftY),
		formatSeconds(e.RightX),
		formatSeconds(e.RightY),
	}
}
