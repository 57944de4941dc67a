package app

import (
	"os"
	"time"

	"tracegraph/internal/config"

	"github.com/charmbracelet/log"
)

// ConfigWatcher polls the configuration file and reloads it whenever its
// modification time moves forward.
type ConfigWatcher struct {
	path          string
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func(config.Config)
	logger        *log.Logger
}

// NewConfigWatcher creates a watcher for the file at path. A missing file
// is fine; creating it later counts as a change.
func NewConfigWatcher(path string, checkInterval time.Duration, logger *log.Logger) *ConfigWatcher {
	if logger == nil {
		logger = log.Default()
	}
	w := &ConfigWatcher{
		path:          path,
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
		logger:        logger.WithPrefix("config"),
	}
	w.ResetBaseline()
	return w
}

// OnChange sets the callback invoked with every successfully reloaded
// configuration. It runs on the watcher goroutine.
func (w *ConfigWatcher) OnChange(callback func(config.Config)) {
	w.onChange = callback
}

// Start begins watching in a background goroutine.
func (w *ConfigWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.watchLoop()
}

// Stop stops the watcher goroutine.
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
}

func (w *ConfigWatcher) watchLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check reloads the file if it changed since the last check. It reports
// whether a new configuration was delivered.
func (w *ConfigWatcher) Check() bool {
	mod, err := w.modTime()
	if err != nil || !mod.After(w.baseline) {
		return false
	}
	w.baseline = mod

	cfg, err := config.Load(w.path)
	if err != nil {
		w.logger.Warn("ignoring invalid configuration", "path", w.path, "err", err)
		return false
	}
	w.logger.Info("configuration reloaded", "path", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
	return true
}

// ResetBaseline takes the file's current modification time as unchanged.
func (w *ConfigWatcher) ResetBaseline() {
	if mod, err := w.modTime(); err == nil {
		w.baseline = mod
	}
}

// Path returns the watched file.
func (w *ConfigWatcher) Path() string {
	return w.path
}

func (w *ConfigWatcher) modTime() (time.Time, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
