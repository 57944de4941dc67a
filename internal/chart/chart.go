// Package chart defines the chart record the viewport controller works on:
// the visible data window, the layout style and the x-axis type.
package chart

import (
	"errors"
	"fmt"
	"math"
)

// TickSpace is the height of the x-tick strip below the plot and the width
// of the y-tick strip left of it, in pixels.
const TickSpace = 24

// ErrInvalidWindow is returned for windows that are not finite or have a
// non-positive span on either axis.
var ErrInvalidWindow = errors.New("invalid data window")

// ID identifies a chart within the application state.
type ID int

// Handle identifies a trace in the trace store.
type Handle int

// XType names the unit of a chart's x-axis. Rulers are only shared between
// charts with the same XType.
type XType string

const (
	XTypeNumeric  XType = "numeric"
	XTypeDatetime XType = "datetime"
)

// Window is the visible data rectangle [XStart, XEnd] x [YStart, YEnd].
type Window struct {
	XStart float64 `json:"x_start" yaml:"x_start"`
	XEnd   float64 `json:"x_end" yaml:"x_end"`
	YStart float64 `json:"y_start" yaml:"y_start"`
	YEnd   float64 `json:"y_end" yaml:"y_end"`
}

// NewWindow creates a window from its four bounds.
func NewWindow(xStart, xEnd, yStart, yEnd float64) Window {
	return Window{XStart: xStart, XEnd: xEnd, YStart: yStart, YEnd: yEnd}
}

// XSpan returns XEnd - XStart.
func (w Window) XSpan() float64 { return w.XEnd - w.XStart }

// YSpan returns YEnd - YStart.
func (w Window) YSpan() float64 { return w.YEnd - w.YStart }

// Validate checks that all bounds are finite and both spans are positive.
func (w Window) Validate() error {
	for _, v := range []float64{w.XStart, w.XEnd, w.YStart, w.YEnd} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bound in %v", ErrInvalidWindow, w)
		}
	}
	if w.XEnd <= w.XStart || w.YEnd <= w.YStart {
		return fmt.Errorf("%w: empty span in %v", ErrInvalidWindow, w)
	}
	return nil
}

// Lerp interpolates the window at relative fractions. (0,0) maps to
// (XStart, YStart) and (1,1) to (XEnd, YEnd).
func (w Window) Lerp(relX, relY float64) (x, y float64) {
	return w.XStart + relX*w.XSpan(), w.YStart + relY*w.YSpan()
}

// Sub returns the window spanned by the relative ranges
// [relXS, relXE] x [relYS, relYE] of w.
func (w Window) Sub(relXS, relXE, relYS, relYE float64) Window {
	return Window{
		XStart: w.XStart + relXS*w.XSpan(),
		XEnd:   w.XStart + relXE*w.XSpan(),
		YStart: w.YStart + relYS*w.YSpan(),
		YEnd:   w.YStart + relYE*w.YSpan(),
	}
}

// Translate shifts the window by dx and dy data units.
func (w Window) Translate(dx, dy float64) Window {
	return Window{
		XStart: w.XStart + dx,
		XEnd:   w.XEnd + dx,
		YStart: w.YStart + dy,
		YEnd:   w.YEnd + dy,
	}
}

// ContainsX reports whether x lies within the closed x-range of the window.
func (w Window) ContainsX(x float64) bool {
	return x >= w.XStart && x <= w.XEnd
}

func (w Window) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", w.XStart, w.XEnd, w.YStart, w.YEnd)
}

// Style controls the insets of the plot area within the drawing surface.
type Style struct {
	Margin      float64 `json:"margin" yaml:"margin"`
	XLabelSpace float64 `json:"x_label_space" yaml:"x_label_space"`
	YLabelSpace float64 `json:"y_label_space" yaml:"y_label_space"`
}

// DefaultStyle returns the style new charts are created with.
func DefaultStyle() Style {
	return Style{Margin: 5, XLabelSpace: 24, YLabelSpace: 60}
}

// Trace is a chart's reference to a trace in the trace store.
type Trace struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Handle Handle `json:"handle" yaml:"handle"`
	Active bool   `json:"active" yaml:"active"`
}

// Chart is the externally owned record of one chart.
type Chart struct {
	ID     ID
	Title  string
	XLabel string
	YLabel string
	XType  XType
	Style  Style

	// XRange is the loaded data range; it bounds the default view.
	XRange [2]float64
	// Zoom is the explicit data window, nil until one has been applied.
	Zoom *Window

	Traces []Trace
}

// View returns the window the chart currently displays. Charts without an
// explicit zoom show their full x-range over [0, 1].
func (c Chart) View() Window {
	if c.Zoom != nil {
		return *c.Zoom
	}
	return Window{XStart: c.XRange[0], XEnd: c.XRange[1], YStart: 0, YEnd: 1}
}

// ActiveHandles returns the handles of the chart's active traces.
func (c Chart) ActiveHandles() []Handle {
	handles := make([]Handle, 0, len(c.Traces))
	for _, t := range c.Traces {
		if t.Active {
			handles = append(handles, t.Handle)
		}
	}
	return handles
}

// Handles returns the handles of all traces of the chart.
func (c Chart) Handles() []Handle {
	handles := make([]Handle, 0, len(c.Traces))
	for _, t := range c.Traces {
		handles = append(handles, t.Handle)
	}
	return handles
}

// Clone returns a deep copy of c.
func (c Chart) Clone() Chart {
	out := c
	if c.Zoom != nil {
		z := *c.Zoom
		out.Zoom = &z
	}
	out.Traces = append([]Trace(nil), c.Traces...)
	return out
}
