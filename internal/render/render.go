// Package render draws built sections as SVG charts.
package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/huangsam/benchgrid/core/algo"
	"github.com/huangsam/benchgrid/schema"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Layout constants, in points.
const (
	DefaultWidth  = 800
	titleHeight   = 24
	axisHeight    = 30
	emptyHeight   = 40
	tickCount     = 5
	paletteLength = 9
)

// Chart holds the layout settings for one SVG document.
type Chart struct {
	View  schema.ChartView
	Width int
}

// NewChart validates the view and returns a chart that can render sections.
// Width falls back to DefaultWidth when not positive.
func NewChart(view schema.ChartView, width int) (*Chart, error) {
	if view != schema.RequestsByLatency && view != schema.LatencyByRequests {
		return nil, fmt.Errorf("unsupported chart view '%s'", view)
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return &Chart{View: view, Width: width}, nil
}

// Render stacks one plot per section vertically and writes the SVG to w.
func (ch *Chart) Render(w io.Writer, sections []schema.Section) error {
	colors, err := ch.palette()
	if err != nil {
		return err
	}

	width := vg.Points(float64(ch.Width))
	height := vg.Length(0)
	for _, s := range sections {
		height += SectionHeight(s)
	}
	if len(sections) == 0 {
		height = emptyHeight
	}

	canvas := vgsvg.New(width, height)
	dc := draw.New(canvas)

	if len(sections) == 0 {
		sty := text.Style{
			Font:    font.From(plotter.DefaultFont, plotter.DefaultFontSize),
			Handler: plot.DefaultTextHandler,
			Color:   color.Gray{Y: 96},
		}
		dc.FillText(sty, vg.Point{X: width / 2, Y: height / 2}, "no reports")
	}

	top := dc.Max.Y
	for _, s := range sections {
		h := SectionHeight(s)
		p := ch.sectionPlot(s, colors)
		sub := draw.Canvas{
			Canvas: dc.Canvas,
			Rectangle: vg.Rectangle{
				Min: vg.Point{X: dc.Min.X, Y: top - h},
				Max: vg.Point{X: dc.Max.X, Y: top},
			},
		}
		p.Draw(sub)
		top -= h
	}

	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}

// SectionHeight returns the vertical space a section takes in the chart.
func SectionHeight(s schema.Section) vg.Length {
	rowHeight := s.Scale.RowHeight
	if rowHeight <= 0 {
		rowHeight = schema.DefaultRowHeight
	}
	h := vg.Points(float64(len(s.Rows)*rowHeight + titleHeight))
	if s.ShowAxis {
		h += axisHeight
	}
	return h
}

func (ch *Chart) palette() ([]color.Color, error) {
	name := "Blues"
	if ch.View == schema.LatencyByRequests {
		name = "YlOrRd"
	}
	p, err := brewer.GetPalette(brewer.TypeSequential, name, paletteLength)
	if err != nil {
		return nil, fmt.Errorf("failed to load palette %s: %w", name, err)
	}
	return p.Colors(), nil
}

// sectionPlot builds the plot for one section. Rows are drawn top to bottom in
// the section's order.
func (ch *Chart) sectionPlot(s schema.Section, colors []color.Color) *plot.Plot {
	p := plot.New()
	p.Title.Text = s.Title
	p.BackgroundColor = color.Transparent

	n := len(s.Rows)
	rowTicks := make([]plot.Tick, n)
	for i, row := range s.Rows {
		rowTicks[i] = plot.Tick{Value: rowCenter(i, n), Label: row.Name}
	}
	p.Y.Min = 0
	p.Y.Max = float64(n)
	p.Y.Tick.Marker = plot.ConstantTicks(rowTicks)
	p.Y.Tick.Length = 0
	p.Y.LineStyle.Width = 0

	p.X.Min = 0
	switch ch.View {
	case schema.LatencyByRequests:
		p.X.Max = float64(s.Scale.MaxRequests)
		p.X.Tick.Marker = RequestTicks(s.Scale.MaxRequests)
		p.Add(&stackedBars{section: s, colors: colors})
	default:
		p.X.Max = s.Scale.MaxLatency * 1000
		p.X.Tick.Marker = LatencyTicks(s.Scale.MaxLatency)
		p.Add(&heatmap{section: s, colors: colors})
	}
	if p.X.Max <= 0 {
		p.X.Max = 1
	}
	if !s.ShowAxis {
		p.HideX()
	}
	return p
}

// rowCenter maps row i of n onto the y axis so that row 0 is at the top.
func rowCenter(i, n int) float64 {
	return float64(n-1-i) + 0.5
}

// LatencyTicks labels the latency axis in milliseconds. maxLatency is in seconds.
func LatencyTicks(maxLatency float64) plot.ConstantTicks {
	var ticks []plot.Tick
	for _, v := range algo.Ticks(maxLatency*1000, tickCount) {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', 4, 64) + "ms"})
	}
	return plot.ConstantTicks(ticks)
}

// RequestTicks labels the request axis in thousands of requests.
func RequestTicks(maxRequests int64) plot.ConstantTicks {
	var ticks []plot.Tick
	for _, v := range algo.Ticks(float64(maxRequests), tickCount) {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v/1000, 'g', 4, 64) + "K"})
	}
	return plot.ConstantTicks(ticks)
}

// paletteIndex maps a shade in [0, 1] onto a palette of size n.
func paletteIndex(shade float64, n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(shade*float64(n-1) + 0.5)
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}
