package recorder

import (
	"time"

	"github.com/markus-wa/xlogger/features/input"
	"github.com/markus-wa/xlogger/features/sessions"
)

// StickTracker holds the last-known coordinates of both sticks for one
// device. Every axis change updates one coordinate and snapshots all four.
type StickTracker struct {
	leftX  float64
	leftY  float64
	rightX float64
	rightY float64
}

// Observe applies one axis change and returns the full snapshot with a
// timestamp relative to origin. Unrecognized axes report false and leave
// the state untouched.
func (s *StickTracker) Observe(axis input.Axis, value float64, t, origin time.Time) (sessions.StickEvent, bool) {
	switch axis {
	case input.AxisLeftX:
		s.leftX = value
	case input.AxisLeftY:
		s.leftY = value
	case input.AxisRightX:
		s.rightX = value
	case input.AxisRightY:
		s.rightY = value
	default:
		return sessions.StickEvent{}, false
	}

	return sessions.StickEvent{
		Time:   t.Sub(origin).Seconds(),
		LeftX:  s.leftX,
		LeftY:  s.leftY,
		RightX: s.rightX,
		RightY: s.rightY,
	}, true
}
