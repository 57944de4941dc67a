package viewport

import (
	"sync"

	"tracegraph/internal/chart"
)

// RulerValue is the hovered data-x value shared between charts.
type RulerValue struct {
	XType chart.XType
	Value float64
}

// Ruler is the crosshair slot shared by every chart of a window. The chart
// that last saw the pointer while idle owns it.
type Ruler struct {
	mu    sync.RWMutex
	value RulerValue
	set   bool
}

// NewRuler returns an empty ruler.
func NewRuler() *Ruler {
	return &Ruler{}
}

// Set stores v, replacing any previous value.
func (r *Ruler) Set(v RulerValue) {
	r.mu.Lock()
	r.value, r.set = v, true
	r.mu.Unlock()
}

// Clear empties the ruler regardless of which chart set it.
func (r *Ruler) Clear() {
	r.mu.Lock()
	r.value, r.set = RulerValue{}, false
	r.mu.Unlock()
}

// Get returns the current value and whether one is set.
func (r *Ruler) Get() (RulerValue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value, r.set
}
