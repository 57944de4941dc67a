// Package colorutil provides shared colors and color parsing for chart overlays.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common overlay colors used throughout the application.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Orange      = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	Gray        = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	LightGray   = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	Transparent = color.RGBA{}
)

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading '#' is optional).
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex formats c as "#rrggbb", appending the alpha byte when it is not opaque.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// series is the trace color cycle.
var series = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 255},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
	{R: 0xd6, G: 0x27, B: 0x28, A: 255},
	{R: 0x94, G: 0x67, B: 0xbd, A: 255},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 255},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 255},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 255},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 255},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 255},
}

// Series returns the color of the i-th trace of a chart.
func Series(i int) color.RGBA {
	if i < 0 {
		i = -i
	}
	return series[i%len(series)]
}
