package render

import (
	"image/color"
	"math"

	"github.com/huangsam/benchgrid/core/algo"
	"github.com/huangsam/benchgrid/schema"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// rowFill is the share of a row band covered by its bars.
const rowFill = 0.8

// markerStyle draws the percentile markers on top of the heatmap.
var markerStyle = draw.LineStyle{
	Color:  color.RGBA{R: 214, G: 39, B: 40, A: 255},
	Width:  vg.Points(1),
	Dashes: []vg.Length{vg.Points(2), vg.Points(1)},
}

// heatmap draws requests-by-latency: one band per row, the x axis in
// milliseconds and each bucket shaded by its relative count.
type heatmap struct {
	section schema.Section
	colors  []color.Color
}

// Plot implements the plot.Plotter interface.
func (h *heatmap) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	n := len(h.section.Rows)

	for i, row := range h.section.Rows {
		y0, y1 := rowBand(i, n, trY)
		hist := row.Report.Histogram
		buckets := algo.FillGaps(hist.Data)
		maxCount := algo.MaxBucketCount(buckets)

		for _, b := range buckets {
			if b.Count <= 0 {
				continue
			}
			shade := algo.Shade(b.Count, maxCount)
			fillRect(c, h.colors[paletteIndex(shade, len(h.colors))],
				trX(b.Start*1000), trX(b.End*1000), y0, y1)
		}

		for _, p := range schema.MarkerPercentiles {
			v, ok := hist.PercentileValue(p)
			if !ok {
				continue
			}
			x := trX(v * 1000)
			if !c.ContainsX(x) {
				continue
			}
			c.StrokeLine2(markerStyle, x, y0, x, y1)
		}
	}
}

// DataRange implements the plot.DataRanger interface.
func (h *heatmap) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0, h.section.Scale.MaxLatency * 1000, 0, float64(len(h.section.Rows))
}

// stackedBars draws latency-by-requests: each bucket spans the requests
// faster than it plus its own count and is coloured by its upper latency.
type stackedBars struct {
	section schema.Section
	colors  []color.Color
}

// Plot implements the plot.Plotter interface.
func (s *stackedBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	n := len(s.section.Rows)
	maxRoot := math.Sqrt(s.section.Scale.MaxLatency)

	for i, row := range s.section.Rows {
		y0, y1 := rowBand(i, n, trY)
		for _, off := range algo.ToOffsets(row.Report.Histogram) {
			if off.Bucket.Count <= 0 {
				continue
			}
			shade := 0.0
			if maxRoot > 0 {
				shade = math.Min(math.Sqrt(off.Bucket.End)/maxRoot, 1)
			}
			start := float64(off.PriorCount)
			fillRect(c, s.colors[paletteIndex(shade, len(s.colors))],
				trX(start), trX(start+float64(off.Bucket.Count)), y0, y1)
		}
	}
}

// DataRange implements the plot.DataRanger interface.
func (s *stackedBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0, float64(s.section.Scale.MaxRequests), 0, float64(len(s.section.Rows))
}

// rowBand returns the vertical extent of row i of n in canvas coordinates.
func rowBand(i, n int, trY func(float64) vg.Length) (vg.Length, vg.Length) {
	center := rowCenter(i, n)
	return trY(center - rowFill/2), trY(center + rowFill/2)
}

func fillRect(c draw.Canvas, col color.Color, x0, x1, y0, y1 vg.Length) {
	if x1-x0 < vg.Points(0.5) {
		x1 = x0 + vg.Points(0.5)
	}
	pts := []vg.Point{
		{X: x0, Y: y0},
		{X: x0, Y: y1},
		{X: x1, Y: y1},
		{X: x1, Y: y0},
	}
	c.FillPolygon(col, c.ClipPolygonXY(pts))
}
