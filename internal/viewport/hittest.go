package viewport

import "tracegraph/pkg/geometry"

// Region classifies a pixel position on the chart surface.
type Region int

const (
	RegionNone Region = iota
	RegionXTicks
	RegionYTicks
	RegionInner
)

func (r Region) String() string {
	switch r {
	case RegionXTicks:
		return "x-ticks"
	case RegionYTicks:
		return "y-ticks"
	case RegionInner:
		return "inner"
	default:
		return "none"
	}
}

// HitTest returns the region under p. Tick strips win over the inner
// rectangle where they touch.
func HitTest(l Layout, p geometry.Point2D) Region {
	switch {
	case l.XTicks().Contains(p):
		return RegionXTicks
	case l.YTicks().Contains(p):
		return RegionYTicks
	case l.Inner().Contains(p):
		return RegionInner
	default:
		return RegionNone
	}
}
