package ui

import (
	"github.com/markus-wa/xlogger/features/recorder"
	"github.com/markus-wa/xlogger/features/sessions"
)

// NoteMsg wraps one notification from the capture loop.
type NoteMsg struct {
	Note recorder.Notification
}

// NotesClosedMsg is sent when the notification stream ends.
type NotesClosedMsg struct{}

// SessionsLoadedMsg carries the session list from the catalog.
type SessionsLoadedMsg struct {
	Sessions []sessions.Record
}

// SessionsErrorMsg is sent when the catalog cannot be read.
type SessionsErrorMsg struct {
	Err error
}

// PlotRenderedMsg reports a successfully written plot file.
type PlotRenderedMsg struct {
	Path string
}

// PlotErrorMsg reports a failed plot render.
type PlotErrorMsg struct {
	Err error
}
