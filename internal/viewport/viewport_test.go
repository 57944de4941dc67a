package viewport

import (
	"tracegraph/internal/chart"
	"tracegraph/pkg/geometry"
)

// testLayout has its inner rectangle at (65, 5) with size 200x100.
var testLayout = NewLayout(270, 158, chart.DefaultStyle())

// at converts a position local to the inner rectangle into surface pixels.
func at(x, y float64) geometry.Point2D {
	return testLayout.Inner().ToPixel(geometry.NewPoint2D(x, y), false)
}

func testFrame(w chart.Window) Frame {
	return Frame{Layout: testLayout, Window: w}
}
