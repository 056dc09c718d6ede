// Package ui is the terminal shell: it shows connected controllers with
// input highlights, toggles recording, and browses recorded sessions to
// render them as plots.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markus-wa/xlogger/features/input"
	"github.com/markus-wa/xlogger/features/plot"
	"github.com/markus-wa/xlogger/features/recorder"
	"github.com/markus-wa/xlogger/features/sessions"
)

// StatusSink receives the recording status line, e.g. an on-screen overlay.
type StatusSink interface {
	SetStatus(status string)
}

type statusState int

const (
	statusDefault statusState = iota
	statusSuccess
	statusWarning
	statusError
)

type controllerRow struct {
	ID        input.DeviceID
	Name      string
	Highlight bool
}

// Model is the root bubbletea model.
type Model struct {
	rec        *recorder.Recorder
	catalog    *sessions.Catalog
	sink       StatusSink
	plotDir    string
	captureErr string

	controllers []controllerRow
	recording   bool

	sessionList []sessions.Record
	selected    int
	showLines   bool

	statusText  string
	statusState statusState

	width  int
	height int
}

// New creates the model. rec may be nil when the capture backend failed to
// initialize; captureErr then explains why and recording is disabled.
// sink may be nil.
func New(rec *recorder.Recorder, catalog *sessions.Catalog, sink StatusSink, plotDir, captureErr string) Model {
	return Model{
		rec:        rec,
		catalog:    catalog,
		sink:       sink,
		plotDir:    plotDir,
		captureErr: captureErr,
		showLines:  true,
		statusText: "Ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadSessionsCmd(m.catalog)}

	if m.rec != nil {
		m.rec.Send(recorder.CmdGetAllControllers)
		cmds = append(cmds, waitForNoteCmd(m.rec.Notifications()))
	}

	return tea.Batch(cmds...)
}

// waitForNoteCmd blocks on the next capture-loop notification.
func waitForNoteCmd(notes <-chan recorder.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-notes
		if !ok {
			return NotesClosedMsg{}
		}

		return NoteMsg{Note: n}
	}
}

func loadSessionsCmd(catalog *sessions.Catalog) tea.Cmd {
	return func() tea.Msg {
		if catalog == nil {
			return SessionsLoadedMsg{}
		}

		list, err := catalog.List()
		if err != nil {
			return SessionsErrorMsg{Err: err}
		}

		return SessionsLoadedMsg{Sessions: list}
	}
}

func renderPlotCmd(rec sessions.Record, outDir string, lines bool) tea.Cmd {
	return func() tea.Msg {
		path, err := plot.RenderSession(rec, outDir, lines)
		if err != nil {
			return PlotErrorMsg{Err: err}
		}

		return PlotRenderedMsg{Path: path}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case NoteMsg:
		cmd := m.handleNote(msg.Note)

		return m, tea.Batch(cmd, waitForNoteCmd(m.rec.Notifications()))

	case NotesClosedMsg:
		return m, nil

	case SessionsLoadedMsg:
		m.sessionList = msg.Sessions
		if m.selected >= len(m.sessionList) {
			m.selected = 0
		}

		return m, nil

	case SessionsErrorMsg:
		m.setStatus(fmt.Sprintf("failed to list sessions: %v", msg.Err), statusError)

		return m, nil

	case PlotRenderedMsg:
		m.setStatus("plot written to "+msg.Path, statusSuccess)

		return m, nil

	case PlotErrorMsg:
		m.setStatus(fmt.Sprintf("failed to render plot: %v", msg.Err), statusError)

		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return *m, tea.Quit

	case "r":
		if m.rec == nil {
			m.setStatus("capture unavailable", statusError)

			return *m, nil
		}

		if m.recording {
			m.rec.Send(recorder.CmdStopRecording)
		} else {
			m.rec.Send(recorder.CmdStartRecording)
		}

		return *m, nil

	case "c":
		if m.rec != nil {
			m.controllers = nil
			m.rec.Send(recorder.CmdGetAllControllers)
		}

		return *m, nil

	case "s":
		return *m, loadSessionsCmd(m.catalog)

	case "l":
		m.showLines = !m.showLines
		if m.showLines {
			m.setStatus("stick plots: lines", statusDefault)
		} else {
			m.setStatus("stick plots: points", statusDefault)
		}

		return *m, nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

		return *m, nil

	case "down", "j":
		if m.selected < len(m.sessionList)-1 {
			m.selected++
		}

		return *m, nil

	case "enter":
		if len(m.sessionList) == 0 {
			return *m, nil
		}

		rec := m.sessionList[m.selected]
		m.setStatus("rendering plot...", statusDefault)

		return *m, renderPlotCmd(rec, m.plotDir, m.showLines)
	}

	return *m, nil
}

func (m *Model) handleNote(n recorder.Notification) tea.Cmd {
	switch n.Kind {
	case recorder.NoteConnection:
		if n.Connected {
			m.upsertController(n.Device, n.Name)
			m.setStatus(n.Name+" connected", statusDefault)
		} else {
			m.removeController(n.Device)
			m.setStatus(n.Name+" disconnected", statusWarning)
		}

	case recorder.NoteHighlight:
		for i := range m.controllers {
			if m.controllers[i].ID == n.Device {
				m.controllers[i].Highlight = n.Highlight
			}
		}

	case recorder.NoteRecording:
		m.recording = n.Recording

		if m.sink != nil {
			if n.Recording {
				m.sink.SetStatus("REC")
			} else {
				m.sink.SetStatus("")
			}
		}

		if n.Recording {
			m.setStatus("recording", statusSuccess)
		} else {
			m.setStatus("saved", statusSuccess)

			// new session files just landed
			return loadSessionsCmd(m.catalog)
		}

	case recorder.NoteError:
		m.setStatus(n.Message, statusError)
	}

	return nil
}

func (m *Model) upsertController(id input.DeviceID, name string) {
	for i := range m.controllers {
		if m.controllers[i].ID == id {
			m.controllers[i].Name = name

			return
		}
	}

	m.controllers = append(m.controllers, controllerRow{ID: id, Name: name})
}

func (m *Model) removeController(id input.DeviceID) {
	for i := range m.controllers {
		if m.controllers[i].ID == id {
			m.controllers = append(m.controllers[:i], m.controllers[i+1:]...)

			return
		}
	}
}

func (m *Model) setStatus(text string, state statusState) {
	m.statusText = text
	m.statusState = state
}

func (m Model) statusLine() string {
	switch m.statusState {
	case statusSuccess:
		return successStyle.Render(m.statusText)
	case statusWarning:
		return warningStyle.Render(m.statusText)
	case statusError:
		return errorStyle.Render(m.statusText)
	default:
		return dimStyle.Render(m.statusText)
	}
}

func (m Model) View() string {
	var b strings.Builder

	dot := idleDotStyle.Render("●")
	state := "idle"

	if m.recording {
		dot = recordingDotStyle.Render("●")
		state = "recording"
	}

	b.WriteString(titleStyle.Render("xlogger") + "  " + dot + " " + state + "\n\n")

	if m.captureErr != "" {
		b.WriteString(errorStyle.Render("capture unavailable: "+m.captureErr) + "\n\n")
	}

	b.WriteString(panelTitleStyle.Render("Controllers") + "\n")

	if len(m.controllers) == 0 {
		b.WriteString(dimStyle.Render("  none connected") + "\n")
	}

	for _, c := range m.controllers {
		line := fmt.Sprintf("  [%d] %s", c.ID, c.Name)
		if c.Highlight {
			line = highlightStyle.Render(line + " *")
		}

		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + panelTitleStyle.Render("Sessions") + "\n")

	if len(m.sessionList) == 0 {
		b.WriteString(dimStyle.Render("  no recorded sessions") + "\n")
	}

	for i, s := range m.sessionList {
		line := fmt.Sprintf("  %s  %s  (%d buttons, %d sticks)",
			s.StartedAt.Format("2006-01-02 15:04:05"), s.Device, s.ButtonCount, s.StickCount)

		if i == m.selected {
			line = selectedStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}

		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + m.statusLine() + "\n\n")
	b.WriteString(footer())

	return b.String()
}

func footer() string {
	keys := []struct{ key, desc string }{
		{"r", "record"},
		{"enter", "plot"},
		{"l", "lines/points"},
		{"c", "controllers"},
		{"s", "sessions"},
		{"q", "quit"},
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, footerKeyStyle.Render(k.key)+" "+footerDescStyle.Render(k.desc))
	}

	return strings.Join(parts, "  ")
}
