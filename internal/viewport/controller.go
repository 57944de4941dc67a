package viewport

import (
	"context"
	"errors"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"tracegraph/internal/chart"
	"tracegraph/internal/config"
	"tracegraph/pkg/geometry"

	"github.com/charmbracelet/log"
)

var (
	ErrNoStore       = errors.New("viewport: no chart store")
	ErrNoRecommender = errors.New("viewport: no extent recommender")
	ErrNoRuler       = errors.New("viewport: no ruler")
	ErrNoScheduler   = errors.New("viewport: no frame scheduler")
)

// Store is the external holder of chart records.
type Store interface {
	Chart(id chart.ID) (chart.Chart, bool)
	ThresholdMode() bool
	ActiveTraceHandles(id chart.ID) []chart.Handle
	SetWindow(id chart.ID, w chart.Window) error
	SelectThreshold(id chart.ID, value float64) error
}

// Recommender suggests data windows that fit the given traces.
type Recommender interface {
	RecommendExtents(ctx context.Context, xStart, xEnd float64, handles []chart.Handle) (chart.Window, error)
	RecommendFullExtents(ctx context.Context, handles []chart.Handle) (chart.Window, error)
}

// ContextMenuFunc opens the context menu at a surface position.
type ContextMenuFunc func(at geometry.Point2D)

// Dispatcher runs fn on the UI goroutine.
type Dispatcher func(fn func())

// Options configures a Controller.
type Options struct {
	ChartID     chart.ID
	Store       Store
	Recommender Recommender
	Ruler       *Ruler
	Scheduler   FrameScheduler

	// ContextMenu is called for a click-release of the secondary button.
	ContextMenu ContextMenuFunc
	// Dispatch delivers recommendation results; nil runs them inline.
	Dispatch Dispatcher
	// Async starts a recommendation; nil starts a goroutine.
	Async func(fn func())
	// OnResize is called when the surface size changes.
	OnResize func(width, height float64)
	// OnFrame is called after every overlay frame.
	OnFrame func()

	Colors   config.Colors
	Location *time.Location
	Logger   *log.Logger
}

// Controller connects the input of one chart surface to the chart store.
type Controller struct {
	opts     Options
	logger   *log.Logger
	renderer OverlayRenderer

	// gen is bumped by every window update; recommendations made for an
	// older generation are dropped.
	gen atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	input    InputState
	width    float64
	height   float64
	overlay  *image.RGBA
	frame    FrameID
	mounted  bool
	disposed bool
}

// New creates a controller for opts.ChartID.
func New(opts Options) (*Controller, error) {
	switch {
	case opts.Store == nil:
		return nil, ErrNoStore
	case opts.Recommender == nil:
		return nil, ErrNoRecommender
	case opts.Ruler == nil:
		return nil, ErrNoRuler
	case opts.Scheduler == nil:
		return nil, ErrNoScheduler
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(fn func()) { fn() }
	}
	if opts.Async == nil {
		opts.Async = func(fn func()) { go fn() }
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		opts:     opts,
		logger:   logger.With("chart", opts.ChartID),
		renderer: OverlayRenderer{Colors: opts.Colors, Location: opts.Location},
		ctx:      ctx,
		cancel:   cancel,
		overlay:  image.NewRGBA(image.Rect(0, 0, 0, 0)),
	}, nil
}

// Mount starts the overlay frame loop. A chart that has traces but no
// explicit window gets a recommended one.
func (c *Controller) Mount() {
	c.mu.Lock()
	if c.mounted || c.disposed {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	c.frame = c.opts.Scheduler.RequestFrame(c.drawFrame)
	c.mu.Unlock()

	ch, ok := c.opts.Store.Chart(c.opts.ChartID)
	if ok && ch.Zoom == nil && len(ch.Traces) > 0 {
		c.apply(RecommendEffect{XStart: ch.XRange[0], XEnd: ch.XRange[1]})
	}
}

// Dispose stops the frame loop and abandons pending recommendations. The
// controller ignores all input afterwards.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	c.mounted = false
	c.opts.Scheduler.CancelFrame(c.frame)
	c.cancel()
}

// SetViewport records the surface size, calling OnResize when it changed.
func (c *Controller) SetViewport(width, height float64) {
	c.mu.Lock()
	if c.disposed || (width == c.width && height == c.height) {
		c.mu.Unlock()
		return
	}
	c.width, c.height = width, height
	w, h := int(math.Ceil(math.Max(0, width))), int(math.Ceil(math.Max(0, height)))
	if b := c.overlay.Bounds(); b.Dx() != w || b.Dy() != h {
		c.overlay = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	c.mu.Unlock()

	if c.opts.OnResize != nil {
		c.opts.OnResize(width, height)
	}
}

// OverlayImage returns a copy of the last rendered overlay.
func (c *Controller) OverlayImage() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := image.NewRGBA(c.overlay.Bounds())
	copy(out.Pix, c.overlay.Pix)
	return out
}

// SetColors replaces the overlay palette from the next frame on.
func (c *Controller) SetColors(colors config.Colors) {
	c.mu.Lock()
	c.renderer.Colors = colors
	c.mu.Unlock()
}

// Input returns a snapshot of the input state.
func (c *Controller) Input() InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	in := c.input
	if in.Down != nil {
		d := *in.Down
		in.Down = &d
	}
	return in
}

func (c *Controller) drawFrame() {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	c.frame = c.opts.Scheduler.RequestFrame(c.drawFrame)

	scene, ok := c.scene()
	if ok {
		c.renderer.Render(c.overlay, scene)
	} else {
		c.renderer.Render(c.overlay, Scene{})
	}
	c.mu.Unlock()

	if c.opts.OnFrame != nil {
		c.opts.OnFrame()
	}
}

// scene collects the frame state. c.mu must be held.
func (c *Controller) scene() (Scene, bool) {
	ch, ok := c.opts.Store.Chart(c.opts.ChartID)
	if !ok {
		return Scene{}, false
	}
	rv, hasRuler := c.opts.Ruler.Get()
	return Scene{
		Layout:        NewLayout(c.width, c.height, ch.Style),
		Window:        ch.View(),
		XType:         ch.XType,
		Input:         c.input,
		ThresholdMode: c.opts.Store.ThresholdMode(),
		Ruler:         rv,
		HasRuler:      hasRuler,
	}, true
}

// frameState returns the chart and its gesture frame. c.mu must be held.
func (c *Controller) frameState() (chart.Chart, Frame, bool) {
	if c.disposed {
		return chart.Chart{}, Frame{}, false
	}
	ch, ok := c.opts.Store.Chart(c.opts.ChartID)
	if !ok {
		return chart.Chart{}, Frame{}, false
	}
	return ch, Frame{Layout: NewLayout(c.width, c.height, ch.Style), Window: ch.View()}, true
}

// PointerDown handles a button press at p.
func (c *Controller) PointerDown(p geometry.Point2D, button Button, mods Modifiers) {
	c.mu.Lock()
	_, f, ok := c.frameState()
	if !ok || f.Layout.Viewport.Empty() {
		c.mu.Unlock()
		return
	}
	region := HitTest(f.Layout, p)
	outcome := c.input.PointerDown(p, region, button, mods, c.opts.Store.ThresholdMode())
	c.mu.Unlock()

	c.logger.Debug("pointer down", "region", region, "outcome", outcome)
	if outcome != DownThreshold {
		return
	}
	if eff, ok := ResolveThreshold(p, f); ok {
		c.apply(eff)
	}
}

// PointerMove handles pointer motion. While idle over the plot area the
// hovered x-value is published to the ruler.
func (c *Controller) PointerMove(p geometry.Point2D, mods Modifiers) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch, f, ok := c.frameState()
	if !ok {
		return
	}
	if !c.input.PointerMove(p, mods) {
		return
	}
	rel, ok := f.Layout.Inner().ToLocal(p, false, true)
	if !ok {
		return
	}
	x, _ := f.Window.Lerp(rel.X, 0)
	c.opts.Ruler.Set(RulerValue{XType: ch.XType, Value: x})
}

// PointerLeave handles the pointer leaving the surface.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.input.PointerLeave()
	c.opts.Ruler.Clear()
}

// PointerUp finishes the active gesture at p. The input state returns to
// idle even when the chart is gone; only the resolution is skipped.
func (c *Controller) PointerUp(p geometry.Point2D, mods Modifiers) {
	c.mu.Lock()
	g, active := c.input.PointerUp(p, mods)
	_, f, ok := c.frameState()
	c.mu.Unlock()
	if !active || !ok {
		return
	}

	eff := Resolve(g, f)
	c.logger.Debug("gesture", "action", g.Action, "down", g.Down, "up", g.Up, "effect", eff)
	c.apply(eff)
}

// DoubleClick resets the chart to the extents of its active traces.
func (c *Controller) DoubleClick() {
	c.mu.Lock()
	disposed := c.disposed
	c.mu.Unlock()
	if !disposed {
		c.apply(FullExtentsEffect{})
	}
}

// KeyDown handles a key press.
func (c *Controller) KeyDown(k Key) {
	c.mu.Lock()
	c.input.KeyDown(k)
	c.mu.Unlock()
}

// KeyUp handles a key release.
func (c *Controller) KeyUp(k Key) {
	c.mu.Lock()
	c.input.KeyUp(k)
	c.mu.Unlock()
}

func (c *Controller) apply(eff Effect) {
	id := c.opts.ChartID
	switch e := eff.(type) {
	case NoEffect:
	case WindowEffect:
		c.gen.Add(1)
		c.setWindow(e.Window)
	case RecommendEffect:
		handles := c.opts.Store.ActiveTraceHandles(id)
		c.recommend(func(ctx context.Context) (chart.Window, error) {
			return c.opts.Recommender.RecommendExtents(ctx, e.XStart, e.XEnd, handles)
		})
	case FullExtentsEffect:
		handles := c.opts.Store.ActiveTraceHandles(id)
		if len(handles) == 0 {
			ch, ok := c.opts.Store.Chart(id)
			if !ok {
				return
			}
			ch.Zoom = nil
			c.gen.Add(1)
			c.setWindow(ch.View())
			return
		}
		c.recommend(func(ctx context.Context) (chart.Window, error) {
			return c.opts.Recommender.RecommendFullExtents(ctx, handles)
		})
	case ContextMenuEffect:
		if c.opts.ContextMenu != nil {
			c.opts.ContextMenu(e.At)
		}
	case ThresholdEffect:
		if err := c.opts.Store.SelectThreshold(id, e.Value); err != nil {
			c.logger.Warn("threshold select failed", "value", e.Value, "err", err)
		}
	}
}

func (c *Controller) setWindow(w chart.Window) {
	if err := c.opts.Store.SetWindow(c.opts.ChartID, w); err != nil {
		c.logger.Warn("window update rejected", "window", w, "err", err)
	}
}

// recommend runs fn asynchronously and applies its window unless another
// window update happened in the meantime.
func (c *Controller) recommend(fn func(ctx context.Context) (chart.Window, error)) {
	gen := c.gen.Add(1)
	ctx := c.ctx
	c.opts.Async(func() {
		w, err := fn(ctx)
		c.opts.Dispatch(func() {
			switch {
			case ctx.Err() != nil:
			case err != nil:
				c.logger.Warn("recommendation failed", "err", err)
			case !c.gen.CompareAndSwap(gen, gen+1):
				c.logger.Debug("dropping stale recommendation", "window", w)
			default:
				c.setWindow(w)
			}
		})
	})
}
