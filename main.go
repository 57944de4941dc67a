// Package main provides the entry point for the Trace Graph application.
package main

import (
	"fmt"
	"os"
	"time"

	"tracegraph/internal/app"
	"tracegraph/internal/chart"
	"tracegraph/internal/config"
	"tracegraph/internal/trace"
	"tracegraph/internal/version"
	"tracegraph/ui/mainwindow"
	"tracegraph/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	appID       = "io.tracegraph.viewer"
	appTitle    = "Trace Graph"
	watchPeriod = 2 * time.Second
)

type rootOptions struct {
	configPath string
	logLevel   string
	charts     int
	datetime   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := rootOptions{}
	cmd := &cobra.Command{
		Use:          "tracegraph",
		Short:        "Interactive trace chart viewer",
		Version:      version.String(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath(), "Config file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	cmd.Flags().IntVar(&opts.charts, "charts", 2, "Number of demo charts to open")
	cmd.Flags().BoolVar(&opts.datetime, "datetime", false, "Use a datetime x-axis for the demo charts")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appTitle, version.String())
		},
	}
}

func loadConfig(opts rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func run(opts rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()
	logger.Info("starting", "app", appTitle, "version", version.Version)

	traces := trace.NewStore()
	state := app.NewState(traces, logger)
	if err := addDemoCharts(state, cfg, opts); err != nil {
		return err
	}

	fyneApp := fyneapp.NewWithID(appID)
	th, err := app.NewChartTheme(cfg)
	if err != nil {
		return err
	}
	fyneApp.Settings().SetTheme(th)

	win, err := mainwindow.New(fyneApp, state, cfg, prefs.Load(prefs.DefaultPath()), logger)
	if err != nil {
		return err
	}

	watcher := setupConfigWatch(opts.configPath, win, logger)
	defer watcher.Stop()

	win.ShowAndRun()
	return nil
}

func addDemoCharts(state *app.State, cfg config.Config, opts rootOptions) error {
	demo := trace.DefaultDemoOptions()
	if opts.datetime {
		demo.XType = chart.XTypeDatetime
		demo.XEnd = float64(time.Now().Unix())
		demo.XStart = demo.XEnd - 7*24*3600
	}

	for i := 0; i < opts.charts; i++ {
		demo.Seed = int64(i + 1)
		c, err := state.Traces().AddDemo(fmt.Sprintf("Chart %d", i+1), demo)
		if err != nil {
			return err
		}
		c.Style = cfg.Style
		state.AddChart(c)
	}
	return nil
}

// setupConfigWatch re-applies the palette whenever the config file changes.
func setupConfigWatch(path string, win *mainwindow.MainWindow, logger *log.Logger) *app.ConfigWatcher {
	watcher := app.NewConfigWatcher(path, watchPeriod, logger)
	watcher.OnChange(func(cfg config.Config) {
		logger.Info("config changed", "path", watcher.Path())
		win.ApplyConfig(cfg)
	})
	watcher.Start()
	return watcher
}
