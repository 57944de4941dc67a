package app

import (
	"fmt"

	"tracegraph/internal/chart"
)

// Action is a chart context-menu command.
type Action int

const (
	ActionSelectAll Action = iota + 1
	ActionInvert
	ActionDeselect
	ActionSelectUnique
	ActionDeleteSelected
	ActionDeleteUnselected
	ActionDeleteZero
	ActionToggleThreshold
	ActionResetZoom
)

// Actions lists every action in menu order.
var Actions = []Action{
	ActionSelectAll,
	ActionInvert,
	ActionDeselect,
	ActionSelectUnique,
	ActionDeleteSelected,
	ActionDeleteUnselected,
	ActionDeleteZero,
	ActionToggleThreshold,
	ActionResetZoom,
}

func (a Action) String() string {
	switch a {
	case ActionSelectAll:
		return "Select all"
	case ActionInvert:
		return "Invert selection"
	case ActionDeselect:
		return "Deselect all"
	case ActionSelectUnique:
		return "Select unique"
	case ActionDeleteSelected:
		return "Delete selected"
	case ActionDeleteUnselected:
		return "Delete unselected"
	case ActionDeleteZero:
		return "Delete zero traces"
	case ActionToggleThreshold:
		return "Threshold select"
	case ActionResetZoom:
		return "Reset zoom"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Apply runs action a on chart id.
func (s *State) Apply(id chart.ID, a Action) error {
	c, ok := s.Chart(id)
	if !ok {
		return fmt.Errorf("%v on chart %d: %w", a, id, ErrUnknownChart)
	}

	switch a {
	case ActionSelectAll:
		s.setActive(id, func(chart.Trace) bool { return true })
	case ActionInvert:
		s.setActive(id, func(t chart.Trace) bool { return !t.Active })
	case ActionDeselect:
		s.setActive(id, func(chart.Trace) bool { return false })
	case ActionSelectUnique:
		seen := make(map[chart.Handle]bool)
		s.setActive(id, func(t chart.Trace) bool {
			if seen[t.Handle] {
				return false
			}
			seen[t.Handle] = true
			return true
		})
	case ActionDeleteSelected:
		s.filterTraces(id, func(t chart.Trace) bool { return !t.Active })
	case ActionDeleteUnselected:
		s.filterTraces(id, func(t chart.Trace) bool { return t.Active })
	case ActionDeleteZero:
		zero := make(map[chart.Handle]bool)
		for _, h := range c.Handles() {
			z, err := s.traces.IsZero(h, c.XRange[0], c.XRange[1])
			if err != nil {
				return fmt.Errorf("%v on chart %d: %w", a, id, err)
			}
			zero[h] = z
		}
		s.filterTraces(id, func(t chart.Trace) bool { return !zero[t.Handle] })
	case ActionToggleThreshold:
		s.SetThresholdMode(!s.ThresholdMode())
	case ActionResetZoom:
		return s.ResetWindow(id)
	default:
		return fmt.Errorf("unknown chart action %v", a)
	}
	return nil
}
