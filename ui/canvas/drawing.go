package canvas

import (
	"image"
	"math"
	"strconv"
	"time"

	"tracegraph/internal/chart"
	"tracegraph/internal/config"
	"tracegraph/internal/raster"
	"tracegraph/internal/trace"
	"tracegraph/internal/viewport"
	"tracegraph/pkg/colorutil"
)

const (
	tickCount  = 5
	tickLength = 4
)

// Surface draws the persistent content of a chart: background, frame,
// tick labels and the active traces.
type Surface struct {
	Colors   config.Colors
	Traces   *trace.Store
	Location *time.Location
}

// Render paints ch onto dst, which covers the whole chart surface.
func (s *Surface) Render(dst *image.RGBA, ch chart.Chart) {
	raster.Fill(dst, s.Colors.Background)

	b := dst.Bounds()
	layout := viewport.NewLayout(float64(b.Dx()), float64(b.Dy()), ch.Style)
	inner := layout.Inner()
	if inner.Empty() {
		return
	}
	w := ch.View()

	plot := image.Rect(px(inner.X), px(inner.Y), px(inner.Right()), px(inner.Bottom()))
	s.drawTraces(dst.SubImage(plot).(*image.RGBA), plot, ch, w)
	raster.Rect(dst, plot, s.Colors.Stroke, 1, nil)
	s.drawXTicks(dst, plot, ch.XType, w)
	s.drawYTicks(dst, plot, w)

	if ch.XLabel != "" {
		xt := layout.XTicks()
		x := px(inner.X+inner.Width/2) - raster.TextWidth(ch.XLabel)/2
		raster.Label(dst, ch.XLabel, x, px(xt.Bottom()), s.Colors.Stroke)
	}
	if ch.Title != "" {
		raster.Label(dst, ch.Title, plot.Min.X+tickLength, plot.Min.Y+tickLength, s.Colors.Stroke)
	}
}

func (s *Surface) drawTraces(dst *image.RGBA, plot image.Rectangle, ch chart.Chart, w chart.Window) {
	if s.Traces == nil {
		return
	}
	width, height := float64(plot.Dx()), float64(plot.Dy())
	for i, t := range ch.Traces {
		if !t.Active {
			continue
		}
		samples, err := s.Traces.SamplesIn(t.Handle, w.XStart, w.XEnd)
		if err != nil || len(samples) == 0 {
			continue
		}
		pts := make([]image.Point, len(samples))
		for j, smp := range samples {
			pts[j] = image.Point{
				X: plot.Min.X + px((smp.X-w.XStart)/w.XSpan()*width),
				Y: plot.Max.Y - px((smp.Y-w.YStart)/w.YSpan()*height),
			}
		}
		if len(pts) == 1 {
			raster.Dot(dst, pts[0].X, pts[0].Y, 1, colorutil.Series(i))
			continue
		}
		raster.Polyline(dst, pts, colorutil.Series(i), 1)
	}
}

func (s *Surface) drawXTicks(dst *image.RGBA, plot image.Rectangle, xType chart.XType, w chart.Window) {
	for i := 0; i <= tickCount; i++ {
		rel := float64(i) / tickCount
		x := plot.Min.X + px(rel*float64(plot.Dx()))
		raster.Line(dst, x, plot.Max.Y, x, plot.Max.Y+tickLength, s.Colors.Stroke, 1)

		label := viewport.FormatX(xType, w.XStart+rel*w.XSpan(), s.Location)
		lx := x - raster.TextWidth(label)/2
		raster.Label(dst, label, lx, plot.Max.Y+tickLength+2, s.Colors.Stroke)
	}
}

func (s *Surface) drawYTicks(dst *image.RGBA, plot image.Rectangle, w chart.Window) {
	for i := 0; i <= tickCount; i++ {
		rel := float64(i) / tickCount
		y := plot.Max.Y - px(rel*float64(plot.Dy()))
		raster.Line(dst, plot.Min.X-tickLength, y, plot.Min.X, y, s.Colors.Stroke, 1)

		label := strconv.FormatFloat(w.YStart+rel*w.YSpan(), 'g', 4, 64)
		lx := plot.Min.X - chart.TickSpace - raster.TextWidth(label)
		raster.Label(dst, label, lx, y-raster.TextHeight()/2, s.Colors.Stroke)
	}
}

func px(v float64) int {
	return int(math.Round(v))
}
