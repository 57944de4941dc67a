// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tracegraph/internal/app"
	"tracegraph/internal/chart"
	"tracegraph/internal/config"
	"tracegraph/internal/trace"
	"tracegraph/internal/version"
	"tracegraph/internal/viewport"
	"tracegraph/ui/canvas"
	"tracegraph/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
)

const topLowCount = 5

// MainWindow is the primary application window: a vertical stack of
// charts sharing one ruler and one frame scheduler.
type MainWindow struct {
	fyne.Window
	app         fyne.App
	state       *app.State
	recommender *trace.Recommender
	ruler       *viewport.Ruler
	scheduler   *canvas.AnimationScheduler
	prefs       *prefs.Prefs
	logger      *log.Logger

	// mu guards colors and charts; the config watcher and state events
	// reach them from other goroutines.
	mu     sync.Mutex
	colors config.Colors
	charts map[chart.ID]*canvas.ChartCanvas

	grid      *fyne.Container
	threshold *widget.Check
	statusBar *widget.Label
}

// New creates the main window for the charts held in state. The window size
// and threshold mode are restored from p.
func New(fyneApp fyne.App, state *app.State, cfg config.Config, p *prefs.Prefs, logger *log.Logger) (*MainWindow, error) {
	colors, err := cfg.Colors()
	if err != nil {
		return nil, fmt.Errorf("main window: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	mw := &MainWindow{
		Window:      fyneApp.NewWindow("Trace Graph"),
		app:         fyneApp,
		state:       state,
		recommender: trace.NewRecommender(state.Traces(), logger),
		ruler:       viewport.NewRuler(),
		scheduler:   canvas.NewAnimationScheduler(),
		colors:      colors,
		prefs:       p,
		logger:      logger.WithPrefix("ui"),
		charts:      make(map[chart.ID]*canvas.ChartCanvas),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.syncCharts()
	mw.state.SetThresholdMode(p.ThresholdMode())

	mw.SetOnClosed(mw.shutdown)
	mw.scheduler.Start()
	return mw, nil
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")
	mw.threshold = widget.NewCheck("Threshold select", func(on bool) {
		mw.state.SetThresholdMode(on)
	})
	mw.grid = container.NewGridWithColumns(1)

	toolbar := container.NewHBox(
		mw.threshold,
		widget.NewButton("Reset all", mw.onResetAll),
	)

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.grid,                           // center
	)
	mw.SetContent(content)

	size := fyne.NewSize(1024, 720)
	if w, h, ok := mw.prefs.WindowSize(); ok {
		size = fyne.NewSize(float32(w), float32(h))
	}
	mw.Resize(size)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset all charts", mw.onResetAll),
		fyne.NewMenuItem("Toggle threshold select", func() {
			mw.state.SetThresholdMode(!mw.state.ThresholdMode())
		}),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers subscribes to state events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventChartsChanged, func(interface{}) {
		mw.syncCharts()
	})
	mw.state.On(app.EventThresholdChanged, func(data interface{}) {
		on, _ := data.(bool)
		mw.threshold.SetChecked(on)
		mw.prefs.SetThresholdMode(on)
		if on {
			mw.updateStatus("Click a chart to select traces by threshold")
		} else {
			mw.updateStatus("Ready")
		}
	})
	mw.state.On(app.EventWindowChanged, func(data interface{}) {
		wc, ok := data.(app.WindowChange)
		if !ok {
			return
		}
		if wc.Window == nil {
			mw.updateStatus(fmt.Sprintf("Chart %d: default view", wc.ID))
			return
		}
		mw.updateStatus(fmt.Sprintf("Chart %d: %v", wc.ID, *wc.Window))
	})
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// syncCharts creates canvases for new charts and disposes the canvases of
// removed ones.
func (mw *MainWindow) syncCharts() {
	charts := mw.state.Charts()
	seen := make(map[chart.ID]bool, len(charts))
	objects := make([]fyne.CanvasObject, 0, len(charts))

	mw.mu.Lock()
	defer mw.mu.Unlock()

	for _, c := range charts {
		seen[c.ID] = true
		cc, ok := mw.charts[c.ID]
		if !ok {
			var err error
			cc, err = canvas.NewChartCanvas(canvas.Options{
				ChartID:       c.ID,
				State:         mw.state,
				Recommender:   mw.recommender,
				Ruler:         mw.ruler,
				Scheduler:     mw.scheduler,
				Colors:        mw.colors,
				Logger:        mw.logger,
				OnContextMenu: mw.showContextMenu,
			})
			if err != nil {
				mw.logger.Error("cannot create chart", "chart", c.ID, "err", err)
				continue
			}
			mw.charts[c.ID] = cc
		}
		objects = append(objects, cc)
	}

	for id, cc := range mw.charts {
		if !seen[id] {
			cc.Dispose()
			delete(mw.charts, id)
		}
	}

	mw.grid.Objects = objects
	mw.grid.Refresh()
}

// ApplyConfig switches the charts to the palette of cfg. It is safe to call
// from any goroutine.
func (mw *MainWindow) ApplyConfig(cfg config.Config) {
	colors, err := cfg.Colors()
	if err != nil {
		mw.logger.Warn("ignoring palette", "err", err)
		return
	}
	mw.mu.Lock()
	mw.colors = colors
	mw.mu.Unlock()

	for _, cc := range mw.canvases() {
		cc.SetColors(colors)
	}
	if th, err := app.NewChartTheme(cfg); err == nil {
		mw.app.Settings().SetTheme(th)
	}
}

// canvases returns a snapshot of the chart canvases.
func (mw *MainWindow) canvases() map[chart.ID]*canvas.ChartCanvas {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	out := make(map[chart.ID]*canvas.ChartCanvas, len(mw.charts))
	for id, cc := range mw.charts {
		out[id] = cc
	}
	return out
}

func (mw *MainWindow) showContextMenu(id chart.ID, at fyne.Position) {
	cc, ok := mw.canvases()[id]
	if !ok {
		return
	}
	widget.ShowPopUpMenuAtRelativePosition(mw.contextMenu(id), mw.Canvas(), at, cc)
}

// contextMenu builds the chart menu: the trace actions followed by the
// commands that need more than the chart itself.
func (mw *MainWindow) contextMenu(id chart.ID) *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, len(app.Actions)+8)
	for _, a := range app.Actions {
		a := a
		items = append(items, fyne.NewMenuItem(a.String(), func() {
			mw.report(mw.state.Apply(id, a))
		}))
	}

	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(fmt.Sprintf("Select top %d", topLowCount), func() {
			mw.report(mw.state.SelectTopLow(id, topLowCount))
		}),
		fyne.NewMenuItem(fmt.Sprintf("Select low %d", topLowCount), func() {
			mw.report(mw.state.SelectTopLow(id, -topLowCount))
		}),
		fyne.NewMenuItem("Sync zoom to other charts", func() {
			go func() {
				mw.report(mw.state.SyncZoom(context.Background(), id, mw.recommender))
			}()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clone chart", func() {
			_, err := mw.state.CloneChart(id, false)
			mw.report(err)
		}),
		fyne.NewMenuItem("Clone active traces", func() {
			_, err := mw.state.CloneChart(id, true)
			mw.report(err)
		}),
		fyne.NewMenuItem("Remove chart", func() {
			mw.report(mw.state.RemoveChart(id))
		}),
	)
	return fyne.NewMenu("", items...)
}

func (mw *MainWindow) report(err error) {
	if err == nil {
		return
	}
	mw.logger.Warn("chart command failed", "err", err)
	dialog.ShowError(err, mw.Window)
}

func (mw *MainWindow) onResetAll() {
	charts := mw.canvases()
	ids := make([]chart.ID, 0, len(charts))
	for id := range charts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		mw.report(mw.state.ResetWindow(id))
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Trace Graph",
		fmt.Sprintf("Trace Graph\nInteractive chart viewer\n\nVersion %s", version.String()),
		mw.Window)
}

func (mw *MainWindow) shutdown() {
	size := mw.Canvas().Size()
	mw.prefs.SetWindowSize(float64(size.Width), float64(size.Height))
	if err := mw.prefs.SaveIfChanged(); err != nil {
		mw.logger.Warn("cannot save session", "err", err)
	}

	mw.scheduler.Stop()
	for _, cc := range mw.canvases() {
		cc.Dispose()
	}
}
