// Package prefs persists the window session between runs.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const prefsFile = "session.yaml"

// Session is the persisted part of the window state.
type Session struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	ThresholdMode bool    `yaml:"threshold_mode"`
}

// Prefs guards a Session and remembers whether it changed since the last
// save.
type Prefs struct {
	mu      sync.RWMutex
	session Session
	path    string
	dirty   bool
}

// DefaultPath returns ~/.config/tracegraph/session.yaml (or the platform
// equivalent).
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "tracegraph", prefsFile)
}

// Load reads the session at path. A missing or unreadable file yields an
// empty session.
func Load(path string) *Prefs {
	p := &Prefs{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = yaml.Unmarshal(data, &p.session)
	return p
}

// Save writes the session to disk and clears the changed flag.
func (p *Prefs) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := yaml.Marshal(p.session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return err
	}
	p.dirty = false
	return nil
}

// SaveIfChanged saves only when a setter changed the session.
func (p *Prefs) SaveIfChanged() error {
	p.mu.RLock()
	dirty := p.dirty
	p.mu.RUnlock()
	if !dirty {
		return nil
	}
	return p.Save()
}

// Changed reports whether the session differs from the saved one.
func (p *Prefs) Changed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dirty
}

// WindowSize returns the saved window size; ok is false when none was saved.
func (p *Prefs) WindowSize() (width, height float64, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.session
	return s.Width, s.Height, s.Width > 0 && s.Height > 0
}

// SetWindowSize records the window size.
func (p *Prefs) SetWindowSize(width, height float64) {
	p.update(func(s *Session) {
		s.Width, s.Height = width, height
	})
}

// ThresholdMode returns the saved threshold picking mode.
func (p *Prefs) ThresholdMode() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session.ThresholdMode
}

// SetThresholdMode records the threshold picking mode.
func (p *Prefs) SetThresholdMode(on bool) {
	p.update(func(s *Session) { s.ThresholdMode = on })
}

func (p *Prefs) update(fn func(*Session)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	before := p.session
	fn(&p.session)
	if p.session != before {
		p.dirty = true
	}
}
