package mainwindow

import (
	"path/filepath"
	"sync"
	"testing"

	"tracegraph/internal/app"
	"tracegraph/internal/config"
	"tracegraph/internal/trace"
	"tracegraph/ui/prefs"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(t *testing.T, charts int) (*MainWindow, *app.State, *prefs.Prefs) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	st := app.NewState(trace.NewStore(), nil)
	for i := 0; i < charts; i++ {
		c, err := st.Traces().AddDemo("demo", trace.DefaultDemoOptions())
		require.NoError(t, err)
		st.AddChart(c)
	}

	p := prefs.Load(filepath.Join(t.TempDir(), "session.yaml"))
	mw, err := New(a, st, config.Default(), p, nil)
	require.NoError(t, err)
	return mw, st, p
}

func TestChartGridFollowsState(t *testing.T) {
	mw, st, _ := newTestWindow(t, 2)
	assert.Len(t, mw.grid.Objects, 2)

	_, err := st.CloneChart(st.Charts()[0].ID, false)
	require.NoError(t, err)
	assert.Len(t, mw.grid.Objects, 3)
	assert.Len(t, mw.charts, 3)

	require.NoError(t, st.RemoveChart(st.Charts()[0].ID))
	assert.Len(t, mw.grid.Objects, 2)
	assert.Len(t, mw.charts, 2)
}

func TestThresholdToggleMirrorsState(t *testing.T) {
	mw, st, p := newTestWindow(t, 1)
	assert.False(t, mw.threshold.Checked)

	st.SetThresholdMode(true)
	assert.True(t, mw.threshold.Checked)
	assert.True(t, p.ThresholdMode())
	assert.True(t, p.Changed())

	test.Tap(mw.threshold)
	assert.False(t, st.ThresholdMode())
}

func TestContextMenuActions(t *testing.T) {
	mw, st, _ := newTestWindow(t, 1)
	id := st.Charts()[0].ID

	menu := mw.contextMenu(id)
	byLabel := make(map[string]func())
	for _, item := range menu.Items {
		if !item.IsSeparator {
			byLabel[item.Label] = item.Action
		}
	}
	for _, a := range app.Actions {
		assert.Contains(t, byLabel, a.String())
	}

	byLabel[app.ActionDeselect.String()]()
	c, _ := st.Chart(id)
	assert.Empty(t, c.ActiveHandles())

	byLabel["Select top 5"]()
	c, _ = st.Chart(id)
	assert.Len(t, c.ActiveHandles(), 4)

	byLabel["Clone chart"]()
	assert.Len(t, st.Charts(), 2)
}

func TestApplyConfigRejectsBadPalette(t *testing.T) {
	mw, _, _ := newTestWindow(t, 1)
	before := mw.colors

	cfg := config.Default()
	cfg.Palette.Stroke = "nope"
	mw.ApplyConfig(cfg)
	assert.Equal(t, before, mw.colors)

	cfg = config.Default()
	cfg.DarkMode = true
	mw.ApplyConfig(cfg)
	assert.NotEqual(t, before.Stroke, mw.colors.Stroke)
}

func TestCloseSavesSession(t *testing.T) {
	mw, _, p := newTestWindow(t, 1)
	mw.Close()

	assert.False(t, p.Changed())
	_, _, ok := p.WindowSize()
	assert.True(t, ok)
}

func TestApplyConfigWhileChartsChange(t *testing.T) {
	mw, st, _ := newTestWindow(t, 1)
	src := st.Charts()[0].ID

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		cfg := config.Default()
		for {
			select {
			case <-done:
				return
			default:
				cfg.DarkMode = !cfg.DarkMode
				mw.ApplyConfig(cfg)
			}
		}
	}()

	for i := 0; i < 50; i++ {
		id, err := st.CloneChart(src, false)
		require.NoError(t, err)
		require.NoError(t, st.RemoveChart(id))
	}
	close(done)
	wg.Wait()

	assert.Len(t, mw.canvases(), 1)
}
