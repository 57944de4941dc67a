package viewport

import (
	"testing"

	"tracegraph/internal/chart"
	"tracegraph/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertWindow(t *testing.T, want, got chart.Window) {
	t.Helper()
	assert.InDelta(t, want.XStart, got.XStart, 1e-9, "x start")
	assert.InDelta(t, want.XEnd, got.XEnd, 1e-9, "x end")
	assert.InDelta(t, want.YStart, got.YStart, 1e-9, "y start")
	assert.InDelta(t, want.YEnd, got.YEnd, 1e-9, "y end")
}

func windowOf(t *testing.T, eff Effect) chart.Window {
	t.Helper()
	we, ok := eff.(WindowEffect)
	require.True(t, ok, "expected a window update, got %#v", eff)
	return we.Window
}

func TestZoomSelection(t *testing.T) {
	g := Gesture{Action: ActionZoom, Down: at(20, 80), Up: at(120, 10)}
	got := windowOf(t, Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1))))
	assertWindow(t, chart.NewWindow(10, 60, 0.2, 0.9), got)
}

func TestZoomSelectionIsSymmetric(t *testing.T) {
	g := Gesture{Action: ActionZoom, Down: at(120, 10), Up: at(20, 80)}
	got := windowOf(t, Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1))))
	assertWindow(t, chart.NewWindow(10, 60, 0.2, 0.9), got)
}

func TestZoomCompactBothIsNoop(t *testing.T) {
	for _, mods := range []Modifiers{{}, {Shift: true}} {
		g := Gesture{Action: ActionZoom, Down: at(50, 50), Up: at(65, 35), Modifiers: mods}
		assert.Equal(t, NoEffect{}, Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1))))
	}
}

func TestZoomCompactAxisKeepsRange(t *testing.T) {
	w := chart.NewWindow(0, 100, -1, 1)

	// Horizontal drag: y unchanged.
	g := Gesture{Action: ActionZoom, Down: at(20, 50), Up: at(120, 55)}
	assertWindow(t, chart.NewWindow(10, 60, -1, 1), windowOf(t, Resolve(g, testFrame(w))))

	// Vertical drag: x unchanged.
	g = Gesture{Action: ActionZoom, Down: at(100, 25), Up: at(105, 75)}
	assertWindow(t, chart.NewWindow(0, 100, -0.5, 0.5), windowOf(t, Resolve(g, testFrame(w))))
}

func TestZoomShiftRecommends(t *testing.T) {
	g := Gesture{Action: ActionZoom, Down: at(20, 50), Up: at(120, 55), Modifiers: Modifiers{Shift: true}}
	eff := Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1)))

	rec, ok := eff.(RecommendEffect)
	require.True(t, ok, "got %#v", eff)
	assert.InDelta(t, 10, rec.XStart, 1e-9)
	assert.InDelta(t, 60, rec.XEnd, 1e-9)
}

func TestZoomShiftWithVerticalExtentIsPlainZoom(t *testing.T) {
	g := Gesture{Action: ActionZoom, Down: at(20, 80), Up: at(120, 10), Modifiers: Modifiers{Shift: true}}
	_, ok := Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1))).(WindowEffect)
	assert.True(t, ok)
}

func TestZoomReleaseOutsideIsClamped(t *testing.T) {
	g := Gesture{Action: ActionZoom, Down: at(100, 50), Up: geometry.NewPoint2D(1000, -50)}
	got := windowOf(t, Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1))))
	assertWindow(t, chart.NewWindow(50, 100, 0.5, 1), got)
}

func TestShiftXRoundTrip(t *testing.T) {
	orig := chart.NewWindow(0, 100, 0, 1)
	forward := Gesture{Action: ActionShiftX, Down: geometry.NewPoint2D(100, 110), Up: geometry.NewPoint2D(150, 110)}
	shifted := windowOf(t, Resolve(forward, testFrame(orig)))
	assertWindow(t, chart.NewWindow(-25, 75, 0, 1), shifted)

	back := Gesture{Action: ActionShiftX, Down: geometry.NewPoint2D(150, 110), Up: geometry.NewPoint2D(100, 110)}
	assertWindow(t, orig, windowOf(t, Resolve(back, testFrame(shifted))))
}

func TestShiftXReleasedOutsideStrip(t *testing.T) {
	g := Gesture{Action: ActionShiftX, Down: geometry.NewPoint2D(100, 110), Up: geometry.NewPoint2D(150, 50)}
	assert.Equal(t, NoEffect{}, Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1))))
}

func TestShiftXWithoutMovement(t *testing.T) {
	g := Gesture{Action: ActionShiftX, Down: geometry.NewPoint2D(100, 110), Up: geometry.NewPoint2D(100, 120)}
	assert.Equal(t, NoEffect{}, Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1))))
}

func TestShiftY(t *testing.T) {
	orig := chart.NewWindow(0, 100, 0, 1)
	down := Gesture{Action: ActionShiftY, Down: geometry.NewPoint2D(50, 20), Up: geometry.NewPoint2D(50, 70)}
	shifted := windowOf(t, Resolve(down, testFrame(orig)))
	assertWindow(t, chart.NewWindow(0, 100, 0.5, 1.5), shifted)

	up := Gesture{Action: ActionShiftY, Down: geometry.NewPoint2D(50, 70), Up: geometry.NewPoint2D(50, 20)}
	assertWindow(t, orig, windowOf(t, Resolve(up, testFrame(shifted))))
}

func TestPanInPlaceOpensContextMenu(t *testing.T) {
	p := at(40, 40)
	g := Gesture{Action: ActionPan, Down: p, Up: p}
	assert.Equal(t, ContextMenuEffect{At: p}, Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1))))
}

func TestPanMovesWindowWithPointer(t *testing.T) {
	g := Gesture{Action: ActionPan, Down: at(40, 40), Up: at(60, 50)}
	got := windowOf(t, Resolve(g, testFrame(chart.NewWindow(0, 100, 0, 1))))
	assertWindow(t, chart.NewWindow(-10, 90, 0.1, 1.1), got)
}

func TestResolveThreshold(t *testing.T) {
	f := testFrame(chart.NewWindow(0, 100, -2, 6))
	inner := testLayout.Inner()

	top, ok := ResolveThreshold(geometry.NewPoint2D(100, inner.Y), f)
	require.True(t, ok)
	assert.InDelta(t, 6, top.Value, 1e-9)

	bottom, ok := ResolveThreshold(geometry.NewPoint2D(100, inner.Bottom()), f)
	require.True(t, ok)
	assert.InDelta(t, -2, bottom.Value, 1e-9)

	mid, ok := ResolveThreshold(at(10, 25), f)
	require.True(t, ok)
	assert.InDelta(t, 4, mid.Value, 1e-9)
}

func TestResolveThresholdUnreadySurface(t *testing.T) {
	f := Frame{Layout: NewLayout(10, 10, chart.DefaultStyle()), Window: chart.NewWindow(0, 1, 0, 1)}
	_, ok := ResolveThreshold(geometry.NewPoint2D(5, 5), f)
	assert.False(t, ok)
}

func TestResolveUnknownActionPanics(t *testing.T) {
	assert.Panics(t, func() {
		Resolve(Gesture{Action: Action(42)}, testFrame(chart.NewWindow(0, 1, 0, 1)))
	})
}
