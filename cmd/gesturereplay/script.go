package main

import (
	"fmt"
	"io"
	"os"

	"tracegraph/internal/app"
	"tracegraph/internal/chart"
	"tracegraph/internal/config"
	"tracegraph/internal/trace"
	"tracegraph/internal/viewport"
	"tracegraph/pkg/geometry"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Script is a recorded input sequence for one chart.
type Script struct {
	Viewport struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"viewport"`
	Style         *chart.Style  `yaml:"style"`
	Window        *chart.Window `yaml:"window"`
	XType         chart.XType   `yaml:"x_type"`
	ThresholdMode bool          `yaml:"threshold_mode"`
	Traces        int           `yaml:"traces"`
	Events        []Event       `yaml:"events"`
}

// Event is one input event of a script.
type Event struct {
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Button string  `yaml:"button"`
	Key    string  `yaml:"key"`
	Shift  bool    `yaml:"shift"`
	Ctrl   bool    `yaml:"ctrl"`
	Alt    bool    `yaml:"alt"`
}

// LoadScript reads a script from a YAML file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML script and fills in defaults.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return Script{}, fmt.Errorf("script viewport must be positive, got %vx%v", s.Viewport.Width, s.Viewport.Height)
	}
	if s.Window != nil {
		if err := s.Window.Validate(); err != nil {
			return Script{}, fmt.Errorf("script window: %w", err)
		}
	}
	if s.XType == "" {
		s.XType = chart.XTypeNumeric
	}
	if s.Traces <= 0 {
		s.Traces = trace.DefaultDemoOptions().Traces
	}
	return s, nil
}

func (e Event) modifiers() viewport.Modifiers {
	return viewport.Modifiers{Ctrl: e.Ctrl, Alt: e.Alt, Shift: e.Shift}
}

func (e Event) point() geometry.Point2D {
	return geometry.NewPoint2D(e.X, e.Y)
}

func parseButton(name string) (viewport.Button, error) {
	switch name {
	case "", "primary", "left":
		return viewport.ButtonPrimary, nil
	case "secondary", "right":
		return viewport.ButtonSecondary, nil
	case "other", "middle":
		return viewport.ButtonOther, nil
	}
	return 0, fmt.Errorf("unknown button %q", name)
}

func parseKey(name string) viewport.Key {
	switch name {
	case "shift":
		return viewport.KeyShift
	case "ctrl", "control":
		return viewport.KeyCtrl
	case "alt":
		return viewport.KeyAlt
	}
	return viewport.KeyOther
}

// Replay drives a headless chart through the script and writes every state
// change to out. It returns the chart as it stands after the last event.
func Replay(s Script, out io.Writer, logger *log.Logger) (chart.Chart, error) {
	demo := trace.DefaultDemoOptions()
	demo.Traces = s.Traces
	demo.XType = s.XType

	store := trace.NewStore()
	c, err := store.AddDemo("replay", demo)
	if err != nil {
		return chart.Chart{}, err
	}
	if s.Style != nil {
		c.Style = *s.Style
	}
	c.Zoom = s.Window

	state := app.NewState(store, logger)
	id := state.AddChart(c)

	step := -1
	printf := func(format string, args ...interface{}) {
		fmt.Fprintf(out, "%3d  ", step)
		fmt.Fprintf(out, format, args...)
		fmt.Fprintln(out)
	}
	state.On(app.EventWindowChanged, func(data interface{}) {
		if wc, ok := data.(app.WindowChange); ok && wc.Window != nil {
			printf("window %v", *wc.Window)
		}
	})
	state.On(app.EventTracesChanged, func(interface{}) {
		ch, _ := state.Chart(id)
		printf("traces active %d/%d", len(ch.ActiveHandles()), len(ch.Traces))
	})
	state.On(app.EventThresholdChanged, func(data interface{}) {
		printf("threshold mode %v", data)
	})
	state.SetThresholdMode(s.ThresholdMode)

	colors, err := config.Default().Colors()
	if err != nil {
		return chart.Chart{}, err
	}
	scheduler := viewport.NewManualScheduler()
	ctrl, err := viewport.New(viewport.Options{
		ChartID:     id,
		Store:       state,
		Recommender: trace.NewRecommender(store, logger),
		Ruler:       viewport.NewRuler(),
		Scheduler:   scheduler,
		ContextMenu: func(at geometry.Point2D) {
			printf("context menu at (%g, %g)", at.X, at.Y)
		},
		Async:  func(fn func()) { fn() },
		Colors: colors,
		Logger: logger,
	})
	if err != nil {
		return chart.Chart{}, err
	}
	ctrl.SetViewport(s.Viewport.Width, s.Viewport.Height)
	ctrl.Mount()
	defer ctrl.Dispose()

	for i, ev := range s.Events {
		step = i
		if err := replayEvent(ctrl, scheduler, ev); err != nil {
			return chart.Chart{}, fmt.Errorf("event %d: %w", i, err)
		}
	}

	final, _ := state.Chart(id)
	return final, nil
}

func replayEvent(ctrl *viewport.Controller, scheduler *viewport.ManualScheduler, ev Event) error {
	switch ev.Kind {
	case "down":
		b, err := parseButton(ev.Button)
		if err != nil {
			return err
		}
		ctrl.PointerDown(ev.point(), b, ev.modifiers())
	case "move":
		ctrl.PointerMove(ev.point(), ev.modifiers())
	case "up":
		ctrl.PointerUp(ev.point(), ev.modifiers())
	case "leave":
		ctrl.PointerLeave()
	case "dblclick":
		ctrl.DoubleClick()
	case "keydown":
		ctrl.KeyDown(parseKey(ev.Key))
	case "keyup":
		ctrl.KeyUp(parseKey(ev.Key))
	case "frame":
		scheduler.Advance()
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}
