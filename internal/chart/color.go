package chart

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	intensityEpsilon = 1e-6
	intensitySpread  = 0.7
	fallbackColor    = "#888888"
)

// techColors are the base colors of the technology bars.
var techColors = map[string]string{
	"2G": "#00B5E2",
	"3G": "#FF6F61",
	"4G": "#0066CC",
	"5G": "#0066CC",
}

// palette colors the availability lines and fault series, cycled by position.
var palette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA",
	"#FFA15A", "#19D3F3", "#FF6692", "#B6E880",
	"#FF97FF", "#FECB52", "#8C564B", "#E377C2",
}

// BaseColor returns the bar color of a technology.
func BaseColor(tech string) string {
	if c, ok := techColors[tech]; ok {
		return c
	}
	return fallbackColor
}

// AdjustBrightness scales the HLS lightness of a hex color by factor, clamped
// to [0, 1]. A factor below 1 darkens. The result is "rgb(r, g, b)" with each
// channel truncated.
func AdjustBrightness(hex string, factor float64) (string, error) {
	c, err := colorful.Hex("#" + strings.TrimPrefix(hex, "#"))
	if err != nil {
		return "", fmt.Errorf("parse color %q: %w", hex, err)
	}
	h, s, l := c.Hsl()
	l = clamp(l*factor, 0, 1)
	out := colorful.Hsl(h, s, l)
	return fmt.Sprintf("rgb(%d, %d, %d)", channel(out.R), channel(out.G), channel(out.B)), nil
}

// IntensityColors shades base per value: the highest value gets the darkest
// shade. A constant series maps every value to the unshaded base.
func IntensityColors(values []float64, base string) ([]string, error) {
	if len(values) == 0 {
		return []string{}, nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	colors := make([]string, len(values))
	for i, v := range values {
		norm := (v - lo) / (hi - lo + intensityEpsilon)
		c, err := AdjustBrightness(base, 1.0-intensitySpread*norm)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}

func channel(v float64) int {
	return int(clamp(v, 0, 1) * 255)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// parseColor reads the "#rrggbb" and "rgb(r, g, b)" forms produced by this package.
func parseColor(s string) (drawing.Color, error) {
	if strings.HasPrefix(s, "#") {
		return drawing.ColorFromHex(strings.TrimPrefix(s, "#")), nil
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "rgb(%d, %d, %d)", &r, &g, &b); err != nil {
		return drawing.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return drawing.Color{R: r, G: g, B: b, A: 255}, nil
}
