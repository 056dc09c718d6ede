package input

import (
	"time"

	"github.com/kenshaw/evdev"
)

// DeviceID identifies one connected gamepad. IDs are assigned at connect
// time and are never reused within a Source's lifetime.
type DeviceID int

// Kind classifies a raw input event.
type Kind int

const (
	KindAxisChanged Kind = iota
	KindButtonChanged
	KindConnected
	KindDisconnected
)

// Axis is one of the four tracked analog stick dimensions.
type Axis int

const (
	AxisUnknown Axis = iota
	AxisLeftX
	AxisLeftY
	AxisRightX
	AxisRightY
)

func (a Axis) String() string {
	switch a {
	case AxisLeftX:
		return "LeftStickX"
	case AxisLeftY:
		return "LeftStickY"
	case AxisRightX:
		return "RightStickX"
	case AxisRightY:
		return "RightStickY"
	default:
		return "Unknown"
	}
}

// Button is the symbolic name of a gamepad button as it appears in the
// recorded CSV files. Face buttons use compass names: on an Xbox pad
// South is A, East is B, West is X and North is Y.
type Button string

const (
	ButtonSouth         Button = "South"
	ButtonEast          Button = "East"
	ButtonWest          Button = "West"
	ButtonNorth         Button = "North"
	ButtonLeftTrigger   Button = "LeftTrigger"
	ButtonRightTrigger  Button = "RightTrigger"
	ButtonLeftTrigger2  Button = "LeftTrigger2"
	ButtonRightTrigger2 Button = "RightTrigger2"
	ButtonSelect        Button = "Select"
	ButtonStart         Button = "Start"
	ButtonMode          Button = "Mode"
	ButtonLeftThumb     Button = "LeftThumb"
	ButtonRightThumb    Button = "RightThumb"
	ButtonDPadUp        Button = "DPadUp"
	ButtonDPadDown      Button = "DPadDown"
	ButtonDPadLeft      Button = "DPadLeft"
	ButtonDPadRight     Button = "DPadRight"
)

// Event is one raw input event. Kind selects which fields are meaningful:
// axis events carry Axis+Value, button events carry Button+Value (0 means
// released, anything else pressed/held), connect/disconnect events carry
// the device display name.
type Event struct {
	Kind   Kind
	Device DeviceID
	Name   string
	Axis   Axis
	Button Button
	Value  float64
	Time   time.Time
}

// buttonByType maps evdev event types to button names. D-pad and thumb
// stick clicks use raw key codes; kenshaw/evdev has no named constants
// for them (BTN_THUMBL=0x13d, BTN_THUMBR=0x13e, BTN_DPAD_*=544..547).
var buttonByType = map[any]Button{
	evdev.BtnA:           ButtonSouth,
	evdev.BtnB:           ButtonEast,
	evdev.BtnX:           ButtonWest,
	evdev.BtnY:           ButtonNorth,
	evdev.BtnTL:          ButtonLeftTrigger,
	evdev.BtnTR:          ButtonRightTrigger,
	evdev.BtnTL2:         ButtonLeftTrigger2,
	evdev.BtnTR2:         ButtonRightTrigger2,
	evdev.BtnSelect:      ButtonSelect,
	evdev.BtnStart:       ButtonStart,
	evdev.BtnMode:        ButtonMode,
	evdev.KeyType(0x13d): ButtonLeftThumb,
	evdev.KeyType(0x13e): ButtonRightThumb,
	evdev.KeyType(544):   ButtonDPadUp,
	evdev.KeyType(545):   ButtonDPadDown,
	evdev.KeyType(546):   ButtonDPadLeft,
	evdev.KeyType(547):   ButtonDPadRight,
}

// axisByType maps evdev absolute types to tracked stick axes.
var axisByType = map[any]Axis{
	evdev.AbsoluteX:  AxisLeftX,
	evdev.AbsoluteY:  AxisLeftY,
	evdev.AbsoluteRX: AxisRightX,
	evdev.AbsoluteRY: AxisRightY,
}

const (
	stickRange   = 32767.0
	triggerRange = 255.0
)

// normalizeStick maps a raw absolute value to [-1, 1].
func normalizeStick(v int32) float64 {
	f := float64(v) / stickRange

	if f > 1 {
		return 1
	} else if f < -1 {
		return -1
	}

	return f
}

// normalizeTrigger maps a raw trigger value to [0, 1].
func normalizeTrigger(v int32) float64 {
	f := float64(v) / triggerRange

	if f > 1 {
		return 1
	} else if f < 0 {
		return 0
	}

	return f
}

// translator converts evdev envelopes for one device into normalized
// events. It remembers the last hat direction per axis so that a hat
// returning to center releases only the direction that was pressed.
type translator struct {
	device DeviceID
	hatX   Button
	hatY   Button
}

func (t *translator) translate(typ any, value int32, now time.Time) []Event {
	if axis, ok := axisByType[typ]; ok {
		v := normalizeStick(value)

		// evdev Y grows downward; recorded values use stick-up positive
		if axis == AxisLeftY || axis == AxisRightY {
			v = -v
		}

		return []Event{{
			Kind:   KindAxisChanged,
			Device: t.device,
			Axis:   axis,
			Value:  v,
			Time:   now,
		}}
	}

	switch typ {
	case evdev.AbsoluteZ:
		return []Event{t.buttonEvent(ButtonLeftTrigger2, normalizeTrigger(value), now)}

	case evdev.AbsoluteRZ:
		return []Event{t.buttonEvent(ButtonRightTrigger2, normalizeTrigger(value), now)}

	case evdev.AbsoluteHat0X:
		return t.hatEvents(&t.hatX, ButtonDPadLeft, ButtonDPadRight, value, now)

	case evdev.AbsoluteHat0Y:
		return t.hatEvents(&t.hatY, ButtonDPadUp, ButtonDPadDown, value, now)
	}

	if button, ok := buttonByType[typ]; ok {
		v := 0.0
		if value != 0 {
			v = 1.0
		}

		return []Event{t.buttonEvent(button, v, now)}
	}

	return nil
}

func (t *translator) buttonEvent(b Button, v float64, now time.Time) Event {
	return Event{
		Kind:   KindButtonChanged,
		Device: t.device,
		Button: b,
		Value:  v,
		Time:   now,
	}
}

// hatEvents turns a hat axis change into d-pad button presses/releases.
// state holds the direction currently held on this hat axis.
func (t *translator) hatEvents(state *Button, negative, positive Button, v int32, now time.Time) []Event {
	var events []Event

	next := Button("")
	if v < 0 {
		next = negative
	} else if v > 0 {
		next = positive
	}

	if *state == next {
		return nil
	}

	if *state != "" {
		events = append(events, t.buttonEvent(*state, 0, now))
	}

	if next != "" {
		events = append(events, t.buttonEvent(next, 1, now))
	}

	*state = next

	return events
}
