package config

import (
	"os"
	"path/filepath"
	"testing"

	"tracegraph/internal/chart"
	"tracegraph/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
style:
  margin: 8
  y_label_space: 40
palette:
  shift_zoom: "#00ff00"
log:
  level: debug
dark_mode: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, chart.Style{Margin: 8, XLabelSpace: 24, YLabelSpace: 40}, cfg.Style)
	assert.Equal(t, "debug", cfg.Log.Level)

	colors, err := cfg.Colors()
	require.NoError(t, err)
	assert.Equal(t, colorutil.White, colors.Stroke)
	assert.Equal(t, uint8(255), colors.ShiftZoom.G)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"negative.yaml": "style:\n  margin: -1\n",
		"color.yaml":    "palette:\n  ruler: nope\n",
		"level.yaml":    "log:\n  level: loud\n",
		"syntax.yaml":   "style: [",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Style.Margin = 12
	cfg.DarkMode = true

	require.NoError(t, cfg.Save(path))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
