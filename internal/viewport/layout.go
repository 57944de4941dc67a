// Package viewport turns pointer and keyboard input over a chart surface
// into changes of the chart's data window, and paints the transient
// interaction overlay (selection, axis-shift guides, pan arrow, ruler,
// threshold line).
package viewport

import (
	"tracegraph/internal/chart"
	"tracegraph/pkg/geometry"
)

// Layout splits a drawing surface into the inner plot rectangle and the two
// tick strips.
type Layout struct {
	Viewport geometry.Rect
	Style    chart.Style
}

// NewLayout creates the layout of a width x height surface.
func NewLayout(width, height float64, style chart.Style) Layout {
	return Layout{Viewport: geometry.NewRect(0, 0, width, height), Style: style}
}

// Inner returns the plot area: the viewport inset by the margin on all
// sides, by the y-label space on the left and by the x-label space plus the
// x-tick strip at the bottom.
func (l Layout) Inner() geometry.Rect {
	s := l.Style
	return l.Viewport.Inset(
		s.Margin+s.YLabelSpace,
		s.Margin,
		s.Margin,
		s.Margin+s.XLabelSpace+chart.TickSpace,
	)
}

// XTicks returns the strip directly below the inner rectangle.
func (l Layout) XTicks() geometry.Rect {
	in := l.Inner()
	return geometry.NewRect(in.X, in.Bottom(), in.Width, chart.TickSpace)
}

// YTicks returns the strip directly left of the inner rectangle.
func (l Layout) YTicks() geometry.Rect {
	in := l.Inner()
	return geometry.NewRect(in.X-chart.TickSpace, in.Y, chart.TickSpace, in.Height)
}
