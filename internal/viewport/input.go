package viewport

import (
	"fmt"

	"tracegraph/pkg/geometry"
)

// Modifiers is the state of the modifier keys.
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Shift bool
}

// Button is a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonOther
)

// Key is a keyboard key as far as the viewport cares.
type Key int

const (
	KeyOther Key = iota
	KeyShift
	KeyCtrl
	KeyAlt
)

// Action is the kind of an active drag gesture. It is fixed when the
// pointer goes down.
type Action int

const (
	ActionZoom Action = iota + 1
	ActionShiftX
	ActionShiftY
	ActionPan
)

func (a Action) String() string {
	switch a {
	case ActionZoom:
		return "zoom"
	case ActionShiftX:
		return "shiftX"
	case ActionShiftY:
		return "shiftY"
	case ActionPan:
		return "pan"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Press records where and how a gesture started.
type Press struct {
	Action  Action
	Pointer geometry.Point2D
}

// DownOutcome tells the caller what a pointer-down did.
type DownOutcome int

const (
	// DownIgnored: no gesture was started.
	DownIgnored DownOutcome = iota
	// DownStarted: a drag gesture is now active.
	DownStarted
	// DownThreshold: threshold mode consumed the press; resolve a threshold value.
	DownThreshold
)

// InputState is the per-chart input state machine. The zero value is idle
// with no known pointer.
type InputState struct {
	Modifiers  Modifiers
	Pointer    geometry.Point2D
	HasPointer bool
	Down       *Press
}

// Idle reports whether no gesture is active.
func (s *InputState) Idle() bool {
	return s.Down == nil
}

// PointerDown starts a gesture according to the region under the pointer.
// A press replaces any gesture already in progress.
func (s *InputState) PointerDown(p geometry.Point2D, region Region, button Button, mods Modifiers, thresholdMode bool) DownOutcome {
	s.Pointer, s.HasPointer = p, true
	s.Modifiers = mods
	s.Down = nil

	var action Action
	switch region {
	case RegionInner:
		if thresholdMode {
			return DownThreshold
		}
		switch button {
		case ButtonPrimary:
			action = ActionZoom
		case ButtonSecondary:
			action = ActionPan
		default:
			return DownIgnored
		}
	case RegionXTicks:
		action = ActionShiftX
	case RegionYTicks:
		action = ActionShiftY
	default:
		return DownIgnored
	}

	s.Down = &Press{Action: action, Pointer: p}
	return DownStarted
}

// PointerMove records the pointer position and modifiers. It reports
// whether the machine is idle.
func (s *InputState) PointerMove(p geometry.Point2D, mods Modifiers) bool {
	s.Pointer, s.HasPointer = p, true
	s.Modifiers = mods
	return s.Idle()
}

// PointerLeave forgets the pointer position unless a gesture is active;
// drags keep their last position until the button is released.
func (s *InputState) PointerLeave() {
	if s.Idle() {
		s.HasPointer = false
	}
}

// PointerUp finishes the active gesture, if any, and returns to idle. ok is
// false when no gesture was active; the zero Gesture returned then carries
// no valid Action and must not be passed to Resolve.
func (s *InputState) PointerUp(p geometry.Point2D, mods Modifiers) (Gesture, bool) {
	s.Pointer, s.HasPointer = p, true
	s.Modifiers = mods
	if s.Down == nil {
		return Gesture{}, false
	}

	g := Gesture{
		Action:    s.Down.Action,
		Down:      s.Down.Pointer,
		Up:        p,
		Modifiers: mods,
	}
	s.Down = nil
	return g, true
}

// KeyDown sets the modifier for k.
func (s *InputState) KeyDown(k Key) { s.setKey(k, true) }

// KeyUp clears the modifier for k.
func (s *InputState) KeyUp(k Key) { s.setKey(k, false) }

func (s *InputState) setKey(k Key, down bool) {
	switch k {
	case KeyShift:
		s.Modifiers.Shift = down
	case KeyCtrl:
		s.Modifiers.Ctrl = down
	case KeyAlt:
		s.Modifiers.Alt = down
	}
}
