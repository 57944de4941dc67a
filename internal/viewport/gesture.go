package viewport

import (
	"fmt"
	"math"

	"tracegraph/internal/chart"
	"tracegraph/pkg/geometry"
)

// CompactRadius is the drag distance in pixels below which an axis of a zoom
// selection counts as unspecified and keeps its current range.
const CompactRadius = 16

// Gesture is a finished drag: where it started and ended and which
// modifiers were held on release.
type Gesture struct {
	Action    Action
	Down      geometry.Point2D
	Up        geometry.Point2D
	Modifiers Modifiers
}

// Frame is what gesture resolution needs to know about the chart.
type Frame struct {
	Layout Layout
	Window chart.Window
}

// Effect is the outcome of a resolved gesture. The set of effects is closed.
type Effect interface {
	effect()
}

type (
	// NoEffect means nothing changes.
	NoEffect struct{}
	// WindowEffect replaces the chart's data window.
	WindowEffect struct{ Window chart.Window }
	// RecommendEffect asks for the recommended window over an x-range.
	RecommendEffect struct{ XStart, XEnd float64 }
	// FullExtentsEffect asks for the window covering all active traces.
	FullExtentsEffect struct{}
	// ContextMenuEffect opens the context menu at a surface position.
	ContextMenuEffect struct{ At geometry.Point2D }
	// ThresholdEffect selects a threshold value.
	ThresholdEffect struct{ Value float64 }
)

func (NoEffect) effect()          {}
func (WindowEffect) effect()      {}
func (RecommendEffect) effect()   {}
func (FullExtentsEffect) effect() {}
func (ContextMenuEffect) effect() {}
func (ThresholdEffect) effect()   {}

// compact reports per axis whether the drag from a to b stays within
// CompactRadius.
func compact(a, b geometry.Point2D) (x, y bool) {
	d := b.Sub(a)
	return math.Abs(d.X) < CompactRadius, math.Abs(d.Y) < CompactRadius
}

// Resolve computes the effect of a finished gesture. It panics on an
// action outside the closed set.
func Resolve(g Gesture, f Frame) Effect {
	switch g.Action {
	case ActionZoom:
		return resolveZoom(g, f)
	case ActionShiftX:
		return resolveShiftX(g, f)
	case ActionShiftY:
		return resolveShiftY(g, f)
	case ActionPan:
		return resolvePan(g, f)
	default:
		panic(fmt.Sprintf("viewport: unknown gesture action %v", g.Action))
	}
}

func resolveZoom(g Gesture, f Frame) Effect {
	inner := f.Layout.Inner()
	start, ok := inner.ToLocal(g.Down, false, false)
	if !ok {
		return NoEffect{}
	}
	end, ok := inner.ToLocal(g.Up, true, false)
	if !ok {
		return NoEffect{}
	}

	compactX, compactY := compact(start, end)
	if compactX && compactY {
		return NoEffect{}
	}

	relXS, relXE := 0.0, 1.0
	if !compactX {
		relXS = math.Min(start.X, end.X) / inner.Width
		relXE = math.Max(start.X, end.X) / inner.Width
	}

	// Pixel rows grow downwards, data y grows upwards.
	relYS, relYE := 0.0, 1.0
	if !compactY {
		relYS = 1 - math.Max(start.Y, end.Y)/inner.Height
		relYE = 1 - math.Min(start.Y, end.Y)/inner.Height
	}

	w := f.Window
	if compactY && g.Modifiers.Shift {
		return RecommendEffect{
			XStart: w.XStart + relXS*w.XSpan(),
			XEnd:   w.XStart + relXE*w.XSpan(),
		}
	}
	return WindowEffect{Window: w.Sub(relXS, relXE, relYS, relYE)}
}

func resolveShiftX(g Gesture, f Frame) Effect {
	ticks := f.Layout.XTicks()
	if ticks.Empty() || !ticks.Contains(g.Up) {
		return NoEffect{}
	}
	dpx := g.Up.Sub(g.Down).X
	if dpx == 0 {
		return NoEffect{}
	}

	d := f.Window.XSpan() * dpx / ticks.Width
	return WindowEffect{Window: f.Window.Translate(-d, 0)}
}

func resolveShiftY(g Gesture, f Frame) Effect {
	ticks := f.Layout.YTicks()
	if ticks.Empty() || !ticks.Contains(g.Up) {
		return NoEffect{}
	}
	dpy := g.Up.Sub(g.Down).Y
	if dpy == 0 {
		return NoEffect{}
	}

	// Dragging down moves the visible range up.
	d := f.Window.YSpan() * dpy / ticks.Height
	return WindowEffect{Window: f.Window.Translate(0, d)}
}

func resolvePan(g Gesture, f Frame) Effect {
	if g.Up == g.Down {
		return ContextMenuEffect{At: g.Up}
	}
	inner := f.Layout.Inner()
	if inner.Empty() {
		return NoEffect{}
	}

	w := f.Window
	d := g.Up.Sub(g.Down)
	dx := w.XSpan() * d.X / inner.Width
	dy := -w.YSpan() * d.Y / inner.Height
	return WindowEffect{Window: w.Translate(-dx, -dy)}
}

// ResolveThreshold returns the data-y value at row p.Y of the inner
// rectangle: YEnd at the top edge, YStart at the bottom edge.
func ResolveThreshold(p geometry.Point2D, f Frame) (ThresholdEffect, bool) {
	rel, ok := f.Layout.Inner().ToLocal(p, true, true)
	if !ok {
		return ThresholdEffect{}, false
	}
	w := f.Window
	return ThresholdEffect{Value: w.YEnd - rel.Y*w.YSpan()}, true
}
