package viewport

import (
	"image"
	"testing"
	"time"

	"tracegraph/internal/chart"
	"tracegraph/internal/config"
	"tracegraph/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *OverlayRenderer {
	t.Helper()
	colors, err := config.Default().Colors()
	require.NoError(t, err)
	return &OverlayRenderer{Colors: colors, Location: time.UTC}
}

func newOverlay() *image.RGBA {
	b := testLayout.Viewport
	return image.NewRGBA(image.Rect(0, 0, int(b.Width), int(b.Height)))
}

func painted(img *image.RGBA, r image.Rectangle) int {
	n := 0
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y).A != 0 {
				n++
			}
		}
	}
	return n
}

func baseScene() Scene {
	return Scene{
		Layout: testLayout,
		Window: chart.NewWindow(0, 100, 0, 1),
		XType:  chart.XTypeNumeric,
	}
}

func dragging(action Action, down, pointer geometry.Point2D) InputState {
	return InputState{
		Pointer:    pointer,
		HasPointer: true,
		Down:       &Press{Action: action, Pointer: down},
	}
}

func TestOverlayClearedEveryFrame(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.Input = dragging(ActionZoom, at(20, 80), at(120, 10))
	r.Render(dst, s)
	require.NotZero(t, painted(dst, dst.Bounds()))

	r.Render(dst, baseScene())
	assert.Zero(t, painted(dst, dst.Bounds()))
	r.Render(dst, baseScene())
	assert.Zero(t, painted(dst, dst.Bounds()))
}

func TestOverlayCompactZoomDrawsNothing(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.Input = dragging(ActionZoom, at(50, 50), at(55, 55))
	r.Render(dst, s)
	assert.Zero(t, painted(dst, dst.Bounds()))
}

func TestOverlayCompactZoomSpansPlotHeight(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.Input = dragging(ActionZoom, at(20, 50), at(120, 52))
	r.Render(dst, s)

	// Selection edges at the top and bottom of the plot area.
	assert.NotZero(t, painted(dst, image.Rect(85, 5, 186, 6)))
	assert.NotZero(t, painted(dst, image.Rect(85, 105, 186, 106)))
	// Pads around the anchor row.
	assert.NotZero(t, painted(dst, image.Rect(84, 40, 87, 50)))
}

func TestOverlayShiftZoomUsesShiftColor(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.Input = dragging(ActionZoom, at(20, 80), at(120, 10))
	s.Input.Modifiers.Shift = true
	r.Render(dst, s)

	found := false
	for y := 0; y < dst.Bounds().Dy() && !found; y++ {
		for x := 0; x < dst.Bounds().Dx(); x++ {
			if dst.RGBAAt(x, y) == r.Colors.ShiftZoom {
				found = true
				break
			}
		}
	}
	assert.True(t, found)
}

func TestOverlayShiftGuides(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.Input = dragging(ActionShiftX, geometry.NewPoint2D(100, 110), geometry.NewPoint2D(150, 110))
	r.Render(dst, s)

	ticks := testLayout.XTicks()
	assert.Equal(t, int(ticks.Height), painted(dst, image.Rect(100, 0, 101, 200)))
	assert.Equal(t, int(ticks.Height), painted(dst, image.Rect(150, 0, 151, 200)))
}

func TestOverlayPanArrow(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.Input = dragging(ActionPan, at(40, 40), at(100, 40))
	r.Render(dst, s)

	// Anchor dot and shaft.
	assert.NotZero(t, painted(dst, image.Rect(102, 42, 108, 48)))
	assert.NotZero(t, painted(dst, image.Rect(140, 45, 150, 46)))
}

func TestOverlayThresholdLineWins(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.ThresholdMode = true
	s.Input = InputState{Pointer: at(50, 30), HasPointer: true}
	s.Ruler, s.HasRuler = RulerValue{XType: chart.XTypeNumeric, Value: 50}, true
	r.Render(dst, s)

	assert.Equal(t, 200, painted(dst, image.Rect(0, 35, 270, 36)))
	assert.Equal(t, 200, painted(dst, dst.Bounds()))
}

func TestOverlayRulerRequiresMatchingXType(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.Ruler, s.HasRuler = RulerValue{XType: chart.XTypeDatetime, Value: 50}, true
	r.Render(dst, s)
	assert.Zero(t, painted(dst, dst.Bounds()))

	s.Ruler.XType = chart.XTypeNumeric
	r.Render(dst, s)
	assert.NotZero(t, painted(dst, image.Rect(165, 5, 166, 105)))
}

func TestOverlayRulerOutsideWindow(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.Ruler, s.HasRuler = RulerValue{XType: chart.XTypeNumeric, Value: 150}, true
	r.Render(dst, s)
	assert.Zero(t, painted(dst, dst.Bounds()))
}

func TestOverlayRulerLabelFlipsAtRightEdge(t *testing.T) {
	r := newTestRenderer(t)
	dst := newOverlay()

	s := baseScene()
	s.Ruler, s.HasRuler = RulerValue{XType: chart.XTypeNumeric, Value: 99}, true
	r.Render(dst, s)

	// Nothing right of the plot, the label sits left of the line.
	assert.Zero(t, painted(dst, image.Rect(266, 0, 270, 158)))
	assert.NotZero(t, painted(dst, image.Rect(200, 9, 259, 25)))
}

func TestFormatX(t *testing.T) {
	assert.Equal(t, "0.5", FormatX(chart.XTypeNumeric, 0.5, nil))
	assert.Equal(t, "1e+21", FormatX(chart.XTypeNumeric, 1e21, nil))
	assert.Equal(t, "01.01. 00:00", FormatX(chart.XTypeDatetime, 0, time.UTC))
	assert.Equal(t, "14.11. 22:13", FormatX(chart.XTypeDatetime, 1700000000, time.UTC))
}
