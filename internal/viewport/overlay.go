package viewport

import (
	"image"
	"math"
	"strconv"
	"time"

	"tracegraph/internal/chart"
	"tracegraph/internal/config"
	"tracegraph/internal/raster"
	"tracegraph/pkg/geometry"
)

var (
	selectionDash = raster.Dash{5, 5}
	rulerDash     = raster.Dash{4, 12}
)

const (
	padWidth     = 2
	arrowHeadLen = 10
	anchorRadius = 3
	labelGap     = 4

	datetimeLayout = "02.01. 15:04"
)

// Scene is everything the overlay shows in one frame.
type Scene struct {
	Layout        Layout
	Window        chart.Window
	XType         chart.XType
	Input         InputState
	ThresholdMode bool
	Ruler         RulerValue
	HasRuler      bool
}

// OverlayRenderer paints the interaction overlay of a chart.
type OverlayRenderer struct {
	Colors   config.Colors
	Location *time.Location
}

// Render clears dst and paints the scene onto it. Only one of threshold
// guide, gesture preview or ruler is drawn, in that order of precedence.
func (r *OverlayRenderer) Render(dst *image.RGBA, s Scene) {
	raster.Clear(dst)

	inner := s.Layout.Inner()
	if inner.Empty() {
		return
	}

	in := s.Input
	switch {
	case s.ThresholdMode:
		if in.HasPointer {
			r.drawThreshold(dst, inner, in.Pointer)
		}
	case in.Down != nil:
		if !in.HasPointer {
			return
		}
		switch in.Down.Action {
		case ActionZoom:
			r.drawZoom(dst, inner, in)
		case ActionShiftX:
			r.drawShiftX(dst, s.Layout.XTicks(), in)
		case ActionShiftY:
			r.drawShiftY(dst, s.Layout.YTicks(), in)
		case ActionPan:
			r.drawPan(dst, in)
		}
	case s.HasRuler:
		r.drawRuler(dst, inner, s)
	}
}

func (r *OverlayRenderer) drawThreshold(dst *image.RGBA, inner geometry.Rect, p geometry.Point2D) {
	y := px(inner.Clamp(p).Y)
	raster.Line(dst, px(inner.X), y, px(inner.Right())-1, y, r.Colors.Threshold, 1)
}

func (r *OverlayRenderer) drawZoom(dst *image.RGBA, inner geometry.Rect, in InputState) {
	start, ok := inner.ToLocal(in.Down.Pointer, true, false)
	if !ok {
		return
	}
	pos, _ := inner.ToLocal(in.Pointer, true, false)

	compactX, compactY := compact(start, pos)
	if compactX && compactY {
		return
	}

	a, b := start, pos
	switch {
	case compactY:
		a.Y, b.Y = 0, inner.Height
	case compactX:
		a.X, b.X = 0, inner.Width
	}

	col := r.Colors.Stroke
	if in.Modifiers.Shift {
		col = r.Colors.ShiftZoom
	}

	sel := geometry.NewRectFromPoints(inner.ToPixel(a, false), inner.ToPixel(b, false))
	raster.Rect(dst, toImageRect(sel), col, 1, selectionDash)

	switch {
	case compactY:
		for _, x := range []float64{start.X, pos.X} {
			r.pad(dst, inner, geometry.NewPoint2D(x, start.Y-CompactRadius), geometry.NewPoint2D(x, start.Y+CompactRadius))
		}
	case compactX:
		for _, y := range []float64{start.Y, pos.Y} {
			r.pad(dst, inner, geometry.NewPoint2D(start.X-CompactRadius, y), geometry.NewPoint2D(start.X+CompactRadius, y))
		}
	}
}

func (r *OverlayRenderer) pad(dst *image.RGBA, inner geometry.Rect, from, to geometry.Point2D) {
	a, b := inner.ToPixel(from, false), inner.ToPixel(to, false)
	raster.Line(dst, px(a.X), px(a.Y), px(b.X), px(b.Y), r.Colors.Stroke, padWidth)
}

func (r *OverlayRenderer) drawShiftX(dst *image.RGBA, ticks geometry.Rect, in InputState) {
	if ticks.Empty() {
		return
	}
	top, bottom := px(ticks.Y), px(ticks.Bottom())-1
	for _, p := range []geometry.Point2D{in.Down.Pointer, in.Pointer} {
		x := px(ticks.Clamp(p).X)
		raster.Line(dst, x, top, x, bottom, r.Colors.Stroke, 1)
	}
}

func (r *OverlayRenderer) drawShiftY(dst *image.RGBA, ticks geometry.Rect, in InputState) {
	if ticks.Empty() {
		return
	}
	left, right := px(ticks.X), px(ticks.Right())-1
	for _, p := range []geometry.Point2D{in.Down.Pointer, in.Pointer} {
		y := px(ticks.Clamp(p).Y)
		raster.Line(dst, left, y, right, y, r.Colors.Stroke, 1)
	}
}

func (r *OverlayRenderer) drawPan(dst *image.RGBA, in InputState) {
	from, to := in.Down.Pointer, in.Pointer
	raster.Dot(dst, px(from.X), px(from.Y), anchorRadius, r.Colors.Stroke)
	raster.Arrow(dst, px(from.X), px(from.Y), px(to.X), px(to.Y), r.Colors.Stroke, 1, arrowHeadLen)
}

func (r *OverlayRenderer) drawRuler(dst *image.RGBA, inner geometry.Rect, s Scene) {
	w := s.Window
	if s.Ruler.XType != s.XType || !w.ContainsX(s.Ruler.Value) || w.XSpan() <= 0 {
		return
	}

	rel := (s.Ruler.Value - w.XStart) / w.XSpan()
	x := px(inner.X + rel*inner.Width)
	raster.DashedLine(dst, x, px(inner.Y), x, px(inner.Bottom())-1, r.Colors.Ruler, 1, rulerDash)

	label := FormatX(s.XType, s.Ruler.Value, r.Location)
	lx := x + labelGap
	if width := raster.TextWidth(label); lx+width > px(inner.Right()) {
		lx = x - labelGap - width
	}
	raster.Label(dst, label, lx, px(inner.Y)+labelGap, r.Colors.Ruler)
}

// FormatX renders a data-x value the way axis labels show it. Datetime
// values are unix seconds shown in loc, or local time when loc is nil.
func FormatX(xType chart.XType, v float64, loc *time.Location) string {
	if xType != chart.XTypeDatetime {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if loc == nil {
		loc = time.Local
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9)).In(loc).Format(datetimeLayout)
}

func px(v float64) int {
	return int(math.Round(v))
}

func toImageRect(r geometry.Rect) image.Rectangle {
	return image.Rect(px(r.X), px(r.Y), px(r.Right()), px(r.Bottom()))
}
