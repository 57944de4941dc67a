package app

import (
	"image/color"

	"tracegraph/internal/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ChartTheme tints the default fyne theme with the configured palette.
type ChartTheme struct {
	Colors config.Colors
	Dark   bool
}

var _ fyne.Theme = (*ChartTheme)(nil)

// NewChartTheme builds the theme for cfg.
func NewChartTheme(cfg config.Config) (*ChartTheme, error) {
	colors, err := cfg.Colors()
	if err != nil {
		return nil, err
	}
	return &ChartTheme{Colors: colors, Dark: cfg.DarkMode}, nil
}

func (t *ChartTheme) variant(v fyne.ThemeVariant) fyne.ThemeVariant {
	if t.Dark {
		return theme.VariantDark
	}
	return v
}

func (t *ChartTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return t.Colors.ShiftZoom
	case theme.ColorNameSelection:
		c := t.Colors.Threshold
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0x80}
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, t.variant(variant))
	}
}

func (t *ChartTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ChartTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ChartTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
