// Package canvas provides the chart widget: a persistent chart surface with
// a transparent interaction overlay stacked on top of it.
package canvas

import (
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"tracegraph/internal/app"
	"tracegraph/internal/chart"
	"tracegraph/internal/config"
	"tracegraph/internal/viewport"
	"tracegraph/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
)

// Options configures a ChartCanvas.
type Options struct {
	ChartID     chart.ID
	State       *app.State
	Recommender viewport.Recommender
	Ruler       *viewport.Ruler
	Scheduler   viewport.FrameScheduler
	Colors      config.Colors
	Location    *time.Location
	Logger      *log.Logger

	// OnContextMenu is called with a position relative to the canvas.
	OnContextMenu func(id chart.ID, at fyne.Position)
}

// ChartCanvas displays one chart and turns mouse and keyboard input on it
// into window changes.
type ChartCanvas struct {
	widget.BaseWidget

	id      chart.ID
	state   *app.State
	ctrl    *viewport.Controller

	surfaceMu sync.RWMutex
	surface   Surface

	main    *fynecanvas.Raster
	overlay *fynecanvas.Raster

	// Interaction state
	mods     viewport.Modifiers
	lastDrag fyne.Position
	disposed atomic.Bool

	onContextMenu func(chart.ID, fyne.Position)
}

var (
	_ fyne.Widget         = (*ChartCanvas)(nil)
	_ fyne.Draggable      = (*ChartCanvas)(nil)
	_ fyne.DoubleTappable = (*ChartCanvas)(nil)
	_ desktop.Mouseable   = (*ChartCanvas)(nil)
	_ desktop.Hoverable   = (*ChartCanvas)(nil)
	_ desktop.Keyable     = (*ChartCanvas)(nil)
)

// NewChartCanvas creates the widget for chart opts.ChartID and starts its
// overlay frame loop.
func NewChartCanvas(opts Options) (*ChartCanvas, error) {
	cc := &ChartCanvas{
		id:            opts.ChartID,
		state:         opts.State,
		onContextMenu: opts.OnContextMenu,
		surface: Surface{
			Colors:   opts.Colors,
			Location: opts.Location,
		},
	}

	var store viewport.Store
	if opts.State != nil {
		store = opts.State
		cc.surface.Traces = opts.State.Traces()
	}

	ctrl, err := viewport.New(viewport.Options{
		ChartID:     opts.ChartID,
		Store:       store,
		Recommender: opts.Recommender,
		Ruler:       opts.Ruler,
		Scheduler:   opts.Scheduler,
		ContextMenu: cc.contextMenu,
		OnResize:    func(float64, float64) { cc.refreshMain() },
		OnFrame:     cc.refreshOverlay,
		Colors:      opts.Colors,
		Location:    opts.Location,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	cc.ctrl = ctrl

	cc.main = fynecanvas.NewRaster(cc.drawMain)
	cc.main.ScaleMode = fynecanvas.ImageScalePixels
	cc.overlay = newOverlayRaster(ctrl)

	opts.State.On(app.EventWindowChanged, func(data interface{}) {
		if wc, ok := data.(app.WindowChange); ok && wc.ID == cc.id {
			cc.refreshMain()
		}
	})
	opts.State.On(app.EventTracesChanged, func(data interface{}) {
		if id, ok := data.(chart.ID); ok && id == cc.id {
			cc.refreshMain()
		}
	})

	cc.ExtendBaseWidget(cc)
	ctrl.Mount()
	return cc, nil
}

// ChartID returns the id of the displayed chart.
func (cc *ChartCanvas) ChartID() chart.ID {
	return cc.id
}

// SetColors switches both surfaces to a new palette.
func (cc *ChartCanvas) SetColors(colors config.Colors) {
	cc.surfaceMu.Lock()
	cc.surface.Colors = colors
	cc.surfaceMu.Unlock()
	cc.ctrl.SetColors(colors)
	cc.refreshMain()
}

// Dispose stops the overlay frame loop. The widget stays visible but no
// longer reacts to input.
func (cc *ChartCanvas) Dispose() {
	if cc.disposed.Swap(true) {
		return
	}
	cc.ctrl.Dispose()
}

// Resize records the new surface size with the controller.
func (cc *ChartCanvas) Resize(size fyne.Size) {
	cc.BaseWidget.Resize(size)
	cc.ctrl.SetViewport(float64(size.Width), float64(size.Height))
}

// Refresh redraws both surfaces.
func (cc *ChartCanvas) Refresh() {
	cc.main.Refresh()
	cc.overlay.Refresh()
}

func (cc *ChartCanvas) refreshMain() {
	if !cc.disposed.Load() {
		cc.main.Refresh()
	}
}

func (cc *ChartCanvas) refreshOverlay() {
	cc.overlay.Refresh()
}

// drawMain is the raster function of the chart surface. It draws in
// surface units; the raster scales the result to w x h pixels.
func (cc *ChartCanvas) drawMain(w, h int) image.Image {
	size := cc.Size()
	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(float64(size.Width))), int(math.Ceil(float64(size.Height)))))
	cc.surfaceMu.RLock()
	surface := cc.surface
	cc.surfaceMu.RUnlock()
	if ch, ok := cc.state.Chart(cc.id); ok {
		surface.Render(img, ch)
	}
	return img
}

func (cc *ChartCanvas) contextMenu(at geometry.Point2D) {
	if cc.onContextMenu != nil {
		cc.onContextMenu(cc.id, fyne.NewPos(float32(at.X), float32(at.Y)))
	}
}

func (cc *ChartCanvas) focus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(cc); c != nil {
		c.Focus(cc)
	}
}

// MouseDown implements desktop.Mouseable.
func (cc *ChartCanvas) MouseDown(ev *desktop.MouseEvent) {
	cc.mods = modifiers(ev.Modifier)
	cc.lastDrag = ev.Position
	cc.ctrl.PointerDown(point(ev.Position), button(ev.Button), cc.mods)
	cc.focus()
}

// MouseUp implements desktop.Mouseable.
func (cc *ChartCanvas) MouseUp(ev *desktop.MouseEvent) {
	cc.mods = modifiers(ev.Modifier)
	cc.ctrl.PointerUp(point(ev.Position), cc.mods)
}

// MouseIn implements desktop.Hoverable.
func (cc *ChartCanvas) MouseIn(ev *desktop.MouseEvent) {
	cc.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (cc *ChartCanvas) MouseMoved(ev *desktop.MouseEvent) {
	cc.mods = modifiers(ev.Modifier)
	cc.ctrl.PointerMove(point(ev.Position), cc.mods)
}

// MouseOut implements desktop.Hoverable.
func (cc *ChartCanvas) MouseOut() {
	cc.ctrl.PointerLeave()
}

// Dragged implements fyne.Draggable. While dragging fyne sends drag events
// instead of mouse moves.
func (cc *ChartCanvas) Dragged(ev *fyne.DragEvent) {
	cc.lastDrag = ev.Position
	cc.ctrl.PointerMove(point(ev.Position), cc.mods)
}

// DragEnd implements fyne.Draggable. It finishes a gesture whose button
// release was not delivered to the widget.
func (cc *ChartCanvas) DragEnd() {
	cc.ctrl.PointerUp(point(cc.lastDrag), cc.mods)
}

// DoubleTapped implements fyne.DoubleTappable.
func (cc *ChartCanvas) DoubleTapped(*fyne.PointEvent) {
	cc.ctrl.DoubleClick()
}

// KeyDown implements desktop.Keyable.
func (cc *ChartCanvas) KeyDown(ev *fyne.KeyEvent) {
	k := key(ev.Name)
	cc.ctrl.KeyDown(k)
	cc.mods = cc.ctrl.Input().Modifiers
}

// KeyUp implements desktop.Keyable.
func (cc *ChartCanvas) KeyUp(ev *fyne.KeyEvent) {
	cc.ctrl.KeyUp(key(ev.Name))
	cc.mods = cc.ctrl.Input().Modifiers
}

func (cc *ChartCanvas) FocusGained()            {}
func (cc *ChartCanvas) FocusLost()              {}
func (cc *ChartCanvas) TypedRune(rune)          {}
func (cc *ChartCanvas) TypedKey(*fyne.KeyEvent) {}

func point(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}

func modifiers(m fyne.KeyModifier) viewport.Modifiers {
	return viewport.Modifiers{
		Ctrl:  m&fyne.KeyModifierControl != 0,
		Alt:   m&fyne.KeyModifierAlt != 0,
		Shift: m&fyne.KeyModifierShift != 0,
	}
}

func button(b desktop.MouseButton) viewport.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return viewport.ButtonPrimary
	case desktop.MouseButtonSecondary:
		return viewport.ButtonSecondary
	default:
		return viewport.ButtonOther
	}
}

func key(name fyne.KeyName) viewport.Key {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return viewport.KeyShift
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return viewport.KeyCtrl
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return viewport.KeyAlt
	default:
		return viewport.KeyOther
	}
}

// CreateRenderer implements fyne.Widget.
func (cc *ChartCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &chartCanvasRenderer{canvas: cc}
}

type chartCanvasRenderer struct {
	canvas *ChartCanvas
}

func (r *chartCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.main.Resize(size)
	r.canvas.overlay.Resize(size)
}

func (r *chartCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (r *chartCanvasRenderer) Refresh() {
	r.canvas.main.Refresh()
	r.canvas.overlay.Refresh()
}

func (r *chartCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.main, r.canvas.overlay}
}

func (r *chartCanvasRenderer) Destroy() {}
