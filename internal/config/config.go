// Package config loads the YAML configuration of the chart viewer.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"

	"tracegraph/internal/chart"
	"tracegraph/pkg/colorutil"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// Palette holds the overlay colors as hex strings.
type Palette struct {
	Stroke     string `yaml:"stroke"`
	StrokeDark string `yaml:"stroke_dark"`
	ShiftZoom  string `yaml:"shift_zoom"`
	Ruler      string `yaml:"ruler"`
	Threshold  string `yaml:"threshold"`
	Background string `yaml:"background"`
}

// Colors is a parsed Palette.
type Colors struct {
	Stroke     color.RGBA
	ShiftZoom  color.RGBA
	Ruler      color.RGBA
	Threshold  color.RGBA
	Background color.RGBA
}

// Log configures the application logger.
type Log struct {
	Level        string `yaml:"level"`
	ReportCaller bool   `yaml:"report_caller"`
}

// Config is the full application configuration.
type Config struct {
	Style    chart.Style `yaml:"style"`
	Palette  Palette     `yaml:"palette"`
	Log      Log         `yaml:"log"`
	DarkMode bool        `yaml:"dark_mode"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Style: chart.DefaultStyle(),
		Palette: Palette{
			Stroke:     "#000000",
			StrokeDark: "#ffffff",
			ShiftZoom:  "#ffa500",
			Ruler:      "#808080",
			Threshold:  "#d62728",
			Background: "#ffffff",
		},
		Log: Log{Level: "info", ReportCaller: true},
	}
}

// DefaultPath returns ~/.config/tracegraph/config.yaml (or the platform
// equivalent).
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "tracegraph", configFile)
}

// Load reads the configuration at path on top of the defaults. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the style insets, the palette and the log level.
func (c Config) Validate() error {
	s := c.Style
	if s.Margin < 0 || s.XLabelSpace < 0 || s.YLabelSpace < 0 {
		return fmt.Errorf("style insets must not be negative: %+v", s)
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Colors parses the palette, picking the stroke that matches the theme.
func (c Config) Colors() (Colors, error) {
	stroke := c.Palette.Stroke
	if c.DarkMode {
		stroke = c.Palette.StrokeDark
	}

	var out Colors
	for _, f := range []struct {
		name string
		src  string
		dst  *color.RGBA
	}{
		{"stroke", stroke, &out.Stroke},
		{"shift_zoom", c.Palette.ShiftZoom, &out.ShiftZoom},
		{"ruler", c.Palette.Ruler, &out.Ruler},
		{"threshold", c.Palette.Threshold, &out.Threshold},
		{"background", c.Palette.Background, &out.Background},
	} {
		col, err := colorutil.ParseHex(f.src)
		if err != nil {
			return Colors{}, fmt.Errorf("palette %s: %w", f.name, err)
		}
		*f.dst = col
	}
	return out, nil
}

// NewLogger builds the application logger from the log section.
func (c Config) NewLogger() *log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportCaller:    c.Log.ReportCaller,
		ReportTimestamp: true,
	})
}
