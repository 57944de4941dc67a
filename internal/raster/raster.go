// Package raster provides the pixel drawing primitives used by the chart
// surfaces: solid and dashed lines, rectangles, dots, arrows and text.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Dash is an on/off pattern in pixels. A nil or empty Dash draws solid.
type Dash []int

// Clear resets every pixel of dst to transparent.
func Clear(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Fill paints the whole of dst with col.
func Fill(dst *image.RGBA, col color.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func set(dst *image.RGBA, x, y int, col color.RGBA) {
	if (image.Point{X: x, Y: y}).In(dst.Bounds()) {
		dst.SetRGBA(x, y, col)
	}
}

// Line draws a line between two points using Bresenham's algorithm.
func Line(dst *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	DashedLine(dst, x1, y1, x2, y2, col, thickness, nil)
}

// DashedLine draws a line with the given dash pattern. The pattern restarts
// at (x1, y1).
func DashedLine(dst *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int, dash Dash) {
	if thickness <= 0 {
		thickness = 1
	}

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	period := 0
	for _, d := range dash {
		period += d
	}

	err := dx - dy
	for step := 0; ; step++ {
		if on(dash, period, step) {
			// Thick points are centred on the line; even widths lean down/right.
			lo := -(thickness - 1) / 2
			for t := lo; t < lo+thickness; t++ {
				for s := lo; s < lo+thickness; s++ {
					set(dst, x1+s, y1+t, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func on(dash Dash, period, step int) bool {
	if period <= 0 {
		return true
	}
	pos := step % period
	for i, d := range dash {
		if pos < d {
			return i%2 == 0
		}
		pos -= d
	}
	return true
}

// Rect draws the outline of r. The outline covers the pixels of the
// closed rectangle [Min, Max].
func Rect(dst *image.RGBA, r image.Rectangle, col color.RGBA, thickness int, dash Dash) {
	r = r.Canon()
	DashedLine(dst, r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, col, thickness, dash)
	DashedLine(dst, r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, col, thickness, dash)
	DashedLine(dst, r.Max.X, r.Max.Y, r.Min.X, r.Max.Y, col, thickness, dash)
	DashedLine(dst, r.Min.X, r.Max.Y, r.Min.X, r.Min.Y, col, thickness, dash)
}

// Dot draws a filled circle.
func Dot(dst *image.RGBA, cx, cy, radius int, col color.RGBA) {
	r2 := radius * radius
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			ddx, ddy := x-cx, y-cy
			if ddx*ddx+ddy*ddy <= r2 {
				set(dst, x, y, col)
			}
		}
	}
}

// Arrow draws a line from (x1, y1) to (x2, y2) with an arrowhead at the
// end. The head's two barbs are headLen pixels long at +-30 degrees.
func Arrow(dst *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness, headLen int) {
	Line(dst, x1, y1, x2, y2, col, thickness)
	if x1 == x2 && y1 == y2 {
		return
	}

	angle := math.Atan2(float64(y2-y1), float64(x2-x1))
	for _, barb := range []float64{angle + math.Pi*5/6, angle - math.Pi*5/6} {
		bx := x2 + int(math.Round(float64(headLen)*math.Cos(barb)))
		by := y2 + int(math.Round(float64(headLen)*math.Sin(barb)))
		Line(dst, x2, y2, bx, by, col, thickness)
	}
}

// Polyline connects consecutive points with solid lines.
func Polyline(dst *image.RGBA, pts []image.Point, col color.RGBA, thickness int) {
	for i := 1; i < len(pts); i++ {
		Line(dst, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col, thickness)
	}
}

var face = basicfont.Face7x13

// TextWidth returns the advance width of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(face, s).Round()
}

// TextHeight returns the line height of the label font in pixels.
func TextHeight() int {
	return face.Metrics().Height.Round()
}

// Label draws s with its top-left corner at (x, y).
func Label(dst *image.RGBA, s string, x, y int, col color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Round()),
	}
	d.DrawString(s)
}
