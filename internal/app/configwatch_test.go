package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tracegraph/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.Default().Save(path))

	w := NewConfigWatcher(path, time.Hour, nil)
	var got []config.Config
	w.OnChange(func(c config.Config) { got = append(got, c) })

	assert.False(t, w.Check(), "unchanged file")

	cfg := config.Default()
	cfg.DarkMode = true
	require.NoError(t, cfg.Save(path))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	require.True(t, w.Check())
	require.Len(t, got, 1)
	assert.True(t, got[0].DarkMode)
	assert.False(t, w.Check())
}

func TestConfigWatcherSkipsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	w := NewConfigWatcher(path, time.Hour, nil)

	require.NoError(t, os.WriteFile(path, []byte("style: [not, a, map]\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	called := false
	w.OnChange(func(config.Config) { called = true })
	assert.False(t, w.Check())
	assert.False(t, called)
}
