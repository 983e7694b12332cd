package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

const (
	PanelHeight   = 300
	barSpacing    = 4
	minBarWidth   = 4
	canvasPadding = 140
)

var ErrPanelIndex = errors.New("panel index out of range")

func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unsupported format %q", raw)
}

func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatSVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// RenderPanel writes panel index of fig to w.
func RenderPanel(fig Figure, index int, format Format, w io.Writer) error {
	if index < 0 || index >= len(fig.Panels) {
		return fmt.Errorf("%w: %d", ErrPanelIndex, index)
	}
	panel := fig.Panels[index]

	var err error
	switch {
	case len(panel.Series) == 0:
		err = renderEmpty(fig, panel, format, w)
	case panel.Kind == PanelLine:
		err = renderLine(fig, panel, format, w)
	case panel.Kind == PanelBar && len(panel.Series) == 1:
		err = renderBars(fig, panel, format, w)
	default:
		err = renderStacked(fig, panel, format, w)
	}
	if err != nil {
		return fmt.Errorf("render panel %d: %w", index, err)
	}
	return nil
}

// Render renders every panel of fig in order.
func Render(fig Figure, format Format) ([][]byte, error) {
	out := make([][]byte, 0, len(fig.Panels))
	for i := range fig.Panels {
		var buf bytes.Buffer
		if err := RenderPanel(fig, i, format, &buf); err != nil {
			return nil, err
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}

func background() gochart.Style {
	return gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 16, Bottom: 12}}
}

func xAxis(fig Figure) gochart.XAxis {
	ticks := make([]gochart.Tick, 0, len(fig.Categories))
	for i := range fig.Categories {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: fig.TickText[i]})
	}
	return gochart.XAxis{
		Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(fig.Categories)) - 0.5},
		Ticks: ticks,
	}
}

func renderLine(fig Figure, panel Panel, format Format, w io.Writer) error {
	position := categoryIndex(fig)
	lo, hi := 0.0, 0.0
	first := true

	series := make([]gochart.Series, 0, len(panel.Series))
	for i, s := range panel.Series {
		color, err := parseColor(palette[i%len(palette)])
		if err != nil {
			return err
		}
		xs := make([]float64, 0, len(s.X))
		for _, x := range s.X {
			xs = append(xs, float64(position[x]))
		}
		for _, y := range s.Y {
			if first || y < lo {
				lo = y
			}
			if first || y > hi {
				hi = y
			}
			first = false
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Y,
			Style: gochart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}

	lo, hi = padRange(lo, hi)
	c := gochart.Chart{
		Width:      fig.Width,
		Height:     PanelHeight,
		Background: background(),
		XAxis:      xAxis(fig),
		YAxis: gochart.YAxis{
			Name:  panel.YTitle,
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	c.Elements = []gochart.Renderable{gochart.Legend(&c)}
	return c.Render(format.provider(), w)
}

// renderBars draws a single trace with one color per bar.
func renderBars(fig Figure, panel Panel, format Format, w io.Writer) error {
	s := panel.Series[0]
	at := pointIndex(s)
	hi := 0.0
	bars := make([]gochart.Value, 0, len(fig.Categories))
	for i, category := range fig.Categories {
		value := gochart.Value{Label: fig.TickText[i]}
		if j, ok := at[category]; ok {
			color, err := parseColor(s.Colors[j])
			if err != nil {
				return err
			}
			value.Value = s.Y[j]
			value.Style = gochart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1}
		}
		if value.Value > hi {
			hi = value.Value
		}
		bars = append(bars, value)
	}

	_, hi = padRange(0, hi)
	bc := gochart.BarChart{
		Title:      s.Name,
		Width:      fig.Width,
		Height:     PanelHeight,
		Background: background(),
		BarWidth:   barWidth(fig),
		BarSpacing: barSpacing,
		YAxis: gochart.YAxis{
			Name:  panel.YTitle,
			Range: &gochart.ContinuousRange{Min: 0, Max: hi},
		},
		Bars: bars,
	}
	return bc.Render(format.provider(), w)
}

// renderStacked stacks every trace per category. StackedBarChart fills each
// bar to full height, so a transparent headroom segment scales bars against
// the tallest stack and the percentage axis is hidden.
func renderStacked(fig Figure, panel Panel, format Format, w io.Writer) error {
	indexes := make([]map[string]int, len(panel.Series))
	for i, s := range panel.Series {
		indexes[i] = pointIndex(s)
	}

	totals := make([]float64, len(fig.Categories))
	maxTotal := 0.0
	for c, category := range fig.Categories {
		for i, s := range panel.Series {
			if j, ok := indexes[i][category]; ok {
				totals[c] += s.Y[j]
			}
		}
		if totals[c] > maxTotal {
			maxTotal = totals[c]
		}
	}
	scale := maxTotal
	if scale <= 0 {
		scale = 1
	}

	bars := make([]gochart.StackedBar, 0, len(fig.Categories))
	for c, category := range fig.Categories {
		values := []gochart.Value{{
			Value: scale - totals[c],
			Style: gochart.Style{FillColor: drawing.ColorTransparent, StrokeColor: drawing.ColorTransparent},
		}}
		for i, s := range panel.Series {
			j, ok := indexes[i][category]
			if !ok {
				continue
			}
			hex := s.Color
			if hex == "" && len(s.Colors) > j {
				hex = s.Colors[j]
			}
			color, err := parseColor(hex)
			if err != nil {
				return err
			}
			values = append(values, gochart.Value{
				Value: s.Y[j],
				Style: gochart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
			})
		}
		bars = append(bars, gochart.StackedBar{Name: fig.TickText[c], Width: barWidth(fig), Values: values})
	}

	sbc := gochart.StackedBarChart{
		Title:      panel.YTitle + " (max " + strconv.FormatFloat(maxTotal, 'f', -1, 64) + ")",
		Width:      fig.Width,
		Height:     PanelHeight,
		Background: background(),
		BarSpacing: barSpacing,
		YAxis:      gochart.Style{Hidden: true},
		Bars:       bars,
	}
	return sbc.Render(format.provider(), w)
}

// renderEmpty draws the axes with a hidden placeholder series.
func renderEmpty(fig Figure, panel Panel, format Format, w io.Writer) error {
	c := gochart.Chart{
		Title:      panel.YTitle + " (no data)",
		Width:      fig.Width,
		Height:     PanelHeight,
		Background: background(),
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 1},
			Style: gochart.Style{Hidden: true},
		},
		YAxis: gochart.YAxis{
			Name:  panel.YTitle,
			Range: &gochart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []gochart.Series{gochart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
			Style:   gochart.Style{Hidden: true},
		}},
	}
	return c.Render(format.provider(), w)
}

func barWidth(fig Figure) int {
	n := len(fig.Categories)
	if n == 0 {
		return minBarWidth
	}
	width := (fig.Width-canvasPadding)/n - barSpacing
	if width < minBarWidth {
		return minBarWidth
	}
	return width
}

func categoryIndex(fig Figure) map[string]int {
	index := make(map[string]int, len(fig.Categories))
	for i, c := range fig.Categories {
		index[c] = i
	}
	return index
}

func pointIndex(s Series) map[string]int {
	index := make(map[string]int, len(s.X))
	for i, x := range s.X {
		index[x] = i
	}
	return index
}

// padRange widens [lo, hi] so go-chart never sees a zero-height range.
func padRange(lo, hi float64) (float64, float64) {
	if hi <= lo {
		return lo - 1, hi + 1
	}
	margin := (hi - lo) * 0.1
	if lo >= 0 && lo-margin < 0 {
		return 0, hi + margin
	}
	return lo - margin, hi + margin
}
