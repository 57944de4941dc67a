// Package app holds the application state: the chart records, the
// threshold-picking mode and the event listeners that keep the UI in sync.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"tracegraph/internal/chart"
	"tracegraph/internal/trace"

	"github.com/charmbracelet/log"
)

// ErrUnknownChart is returned for chart ids that are not in the state.
var ErrUnknownChart = errors.New("unknown chart")

// ExtentRecommender suggests y-extents for an x-range.
type ExtentRecommender interface {
	RecommendExtents(ctx context.Context, xStart, xEnd float64, handles []chart.Handle) (chart.Window, error)
}

// State holds every chart record. It is safe for concurrent use.
type State struct {
	mu sync.RWMutex

	charts    map[chart.ID]*chart.Chart
	order     []chart.ID
	nextID    chart.ID
	threshold bool

	traces *trace.Store
	logger *log.Logger

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	// EventChartsChanged: a chart was added or removed. Data is nil.
	EventChartsChanged EventType = iota
	// EventWindowChanged: a chart's data window changed. Data is a WindowChange.
	EventWindowChanged
	// EventTracesChanged: a chart's trace list or activation changed. Data is the chart.ID.
	EventTracesChanged
	// EventThresholdChanged: threshold mode toggled. Data is the new bool.
	EventThresholdChanged
)

// WindowChange is the data of EventWindowChanged. Window is nil when the
// chart returned to its default view.
type WindowChange struct {
	ID     chart.ID
	Window *chart.Window
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates an empty state over the given trace store.
func NewState(traces *trace.Store, logger *log.Logger) *State {
	if logger == nil {
		logger = log.Default()
	}
	return &State{
		charts:    make(map[chart.ID]*chart.Chart),
		nextID:    1,
		traces:    traces,
		logger:    logger.WithPrefix("state"),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Traces returns the trace store backing the charts.
func (s *State) Traces() *trace.Store {
	return s.traces
}

// AddChart stores c under a fresh id and returns it. A zero style or x
// type is replaced by the defaults.
func (s *State) AddChart(c chart.Chart) chart.ID {
	c = c.Clone()
	if c.Style == (chart.Style{}) {
		c.Style = chart.DefaultStyle()
	}
	if c.XType == "" {
		c.XType = chart.XTypeNumeric
	}

	s.mu.Lock()
	c.ID = s.nextID
	s.nextID++
	s.charts[c.ID] = &c
	s.order = append(s.order, c.ID)
	s.mu.Unlock()

	s.logger.Debug("chart added", "chart", c.ID, "traces", len(c.Traces))
	s.Emit(EventChartsChanged, nil)
	return c.ID
}

// RemoveChart deletes a chart.
func (s *State) RemoveChart(id chart.ID) error {
	s.mu.Lock()
	if _, ok := s.charts[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("remove chart %d: %w", id, ErrUnknownChart)
	}
	delete(s.charts, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.Emit(EventChartsChanged, nil)
	return nil
}

// CloneChart adds a copy of chart id, optionally with its active traces only.
func (s *State) CloneChart(id chart.ID, activeOnly bool) (chart.ID, error) {
	c, ok := s.Chart(id)
	if !ok {
		return 0, fmt.Errorf("clone chart %d: %w", id, ErrUnknownChart)
	}
	if activeOnly {
		kept := c.Traces[:0]
		for _, t := range c.Traces {
			if t.Active {
				kept = append(kept, t)
			}
		}
		c.Traces = kept
	}
	return s.AddChart(c), nil
}

// Chart returns a copy of the chart record.
func (s *State) Chart(id chart.ID) (chart.Chart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.charts[id]
	if !ok {
		return chart.Chart{}, false
	}
	return c.Clone(), true
}

// Charts returns copies of all charts in insertion order.
func (s *State) Charts() []chart.Chart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]chart.Chart, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.charts[id].Clone())
	}
	return out
}

// ActiveTraceHandles returns the handles of the chart's active traces.
func (s *State) ActiveTraceHandles(id chart.ID) []chart.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.charts[id]
	if !ok {
		return nil
	}
	return c.ActiveHandles()
}

// SetWindow applies an explicit data window to a chart.
func (s *State) SetWindow(id chart.ID, w chart.Window) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("set window of chart %d: %w", id, err)
	}

	s.mu.Lock()
	c, ok := s.charts[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("set window of chart %d: %w", id, ErrUnknownChart)
	}
	c.Zoom = &w
	s.mu.Unlock()

	s.logger.Debug("window changed", "chart", id, "window", w)
	s.Emit(EventWindowChanged, WindowChange{ID: id, Window: &w})
	return nil
}

// ResetWindow returns a chart to its default view.
func (s *State) ResetWindow(id chart.ID) error {
	s.mu.Lock()
	c, ok := s.charts[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("reset window of chart %d: %w", id, ErrUnknownChart)
	}
	c.Zoom = nil
	s.mu.Unlock()

	s.Emit(EventWindowChanged, WindowChange{ID: id})
	return nil
}

// SetThresholdMode switches threshold picking on or off for all charts.
func (s *State) SetThresholdMode(on bool) {
	s.mu.Lock()
	changed := s.threshold != on
	s.threshold = on
	s.mu.Unlock()

	if changed {
		s.Emit(EventThresholdChanged, on)
	}
}

// ThresholdMode reports whether threshold picking is active.
func (s *State) ThresholdMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threshold
}

// SelectThreshold activates exactly those traces of the chart that reach
// |y| >= value anywhere in the chart's x-range, then leaves threshold mode.
func (s *State) SelectThreshold(id chart.ID, value float64) error {
	c, ok := s.Chart(id)
	if !ok {
		return fmt.Errorf("threshold select on chart %d: %w", id, ErrUnknownChart)
	}

	active := make(map[chart.Handle]bool, len(c.Traces))
	for _, t := range c.Traces {
		hit, err := s.traces.Exceeds(t.Handle, c.XRange[0], c.XRange[1], value)
		if err != nil {
			return fmt.Errorf("threshold select on chart %d: %w", id, err)
		}
		active[t.Handle] = hit
	}

	s.setActive(id, func(t chart.Trace) bool { return active[t.Handle] })
	s.logger.Debug("threshold selected", "chart", id, "value", value)
	s.SetThresholdMode(false)
	return nil
}

// SelectTopLow activates the n traces with the highest mean over the
// visible x-range, or the -n lowest ones when n is negative.
func (s *State) SelectTopLow(id chart.ID, n int) error {
	c, ok := s.Chart(id)
	if !ok {
		return fmt.Errorf("top/low select on chart %d: %w", id, ErrUnknownChart)
	}
	view := c.View()
	avgs, err := s.traces.Averages(view.XStart, view.XEnd, c.Handles())
	if err != nil {
		return fmt.Errorf("top/low select on chart %d: %w", id, err)
	}

	if n > 0 {
		sort.SliceStable(avgs, func(i, j int) bool { return avgs[i].Mean > avgs[j].Mean })
	} else {
		n = -n
	}
	if n > len(avgs) {
		n = len(avgs)
	}
	picked := make(map[chart.Handle]bool, n)
	for _, a := range avgs[:n] {
		picked[a.Handle] = true
	}

	s.setActive(id, func(t chart.Trace) bool { return picked[t.Handle] })
	return nil
}

// SyncZoom copies the x-window of chart id to every other chart whose
// x-range contains it, fitting their y-range to their active traces.
func (s *State) SyncZoom(ctx context.Context, id chart.ID, rec ExtentRecommender) error {
	src, ok := s.Chart(id)
	if !ok {
		return fmt.Errorf("zoom sync from chart %d: %w", id, ErrUnknownChart)
	}
	if src.Zoom == nil {
		return nil
	}
	zoom := *src.Zoom

	for _, c := range s.Charts() {
		if c.ID == id || zoom.XStart < c.XRange[0] || zoom.XEnd > c.XRange[1] {
			continue
		}
		w, err := rec.RecommendExtents(ctx, zoom.XStart, zoom.XEnd, c.ActiveHandles())
		if err != nil {
			return fmt.Errorf("zoom sync to chart %d: %w", c.ID, err)
		}
		if err := s.SetWindow(c.ID, w); err != nil {
			return err
		}
	}
	return nil
}

// setActive sets the activation of every trace of chart id.
func (s *State) setActive(id chart.ID, active func(chart.Trace) bool) {
	s.mu.Lock()
	c, ok := s.charts[id]
	if ok {
		for i := range c.Traces {
			c.Traces[i].Active = active(c.Traces[i])
		}
	}
	s.mu.Unlock()

	if ok {
		s.Emit(EventTracesChanged, id)
	}
}

// filterTraces keeps the traces of chart id for which keep returns true.
func (s *State) filterTraces(id chart.ID, keep func(chart.Trace) bool) {
	s.mu.Lock()
	c, ok := s.charts[id]
	if ok {
		kept := c.Traces[:0]
		for _, t := range c.Traces {
			if keep(t) {
				kept = append(kept, t)
			}
		}
		c.Traces = kept
	}
	s.mu.Unlock()

	if ok {
		s.Emit(EventTracesChanged, id)
	}
}
