package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowValidate(t *testing.T) {
	require.NoError(t, NewWindow(0, 1, 0, 1).Validate())

	for _, w := range []Window{
		NewWindow(1, 1, 0, 1),
		NewWindow(0, 1, 2, 1),
		NewWindow(math.NaN(), 1, 0, 1),
		NewWindow(0, math.Inf(1), 0, 1),
	} {
		err := w.Validate()
		assert.ErrorIs(t, err, ErrInvalidWindow, "window %v", w)
	}
}

func TestWindowSubAndTranslate(t *testing.T) {
	w := NewWindow(0, 100, 0, 1)

	sub := w.Sub(0.1, 0.6, 0.2, 0.9)
	assert.InDelta(t, 10, sub.XStart, 1e-12)
	assert.InDelta(t, 60, sub.XEnd, 1e-12)
	assert.InDelta(t, 0.2, sub.YStart, 1e-12)
	assert.InDelta(t, 0.9, sub.YEnd, 1e-12)

	assert.Equal(t, NewWindow(-5, 95, 1, 2), w.Translate(-5, 1))
}

func TestChartViewDefaultsToXRange(t *testing.T) {
	c := Chart{XRange: [2]float64{10, 20}}
	assert.Equal(t, NewWindow(10, 20, 0, 1), c.View())

	z := NewWindow(12, 14, -1, 1)
	c.Zoom = &z
	assert.Equal(t, z, c.View())
}

func TestChartCloneIsDeep(t *testing.T) {
	z := NewWindow(0, 1, 0, 1)
	c := Chart{Zoom: &z, Traces: []Trace{{ID: "a", Handle: 1, Active: true}}}

	cp := c.Clone()
	cp.Zoom.XEnd = 5
	cp.Traces[0].Active = false

	assert.Equal(t, 1.0, c.Zoom.XEnd)
	assert.True(t, c.Traces[0].Active)
}

func TestActiveHandles(t *testing.T) {
	c := Chart{Traces: []Trace{
		{ID: "a", Handle: 1, Active: true},
		{ID: "b", Handle: 2},
		{ID: "c", Handle: 3, Active: true},
	}}
	assert.Equal(t, []Handle{1, 3}, c.ActiveHandles())
	assert.Len(t, c.Handles(), 3)
}
