package outwriter

import (
	"math"
	"strings"

	"github.com/huangsam/benchgrid/core/algo"
	"github.com/huangsam/benchgrid/schema"
)

// shadeRunes are ordered from empty to dense.
var shadeRunes = []rune(" ░▒▓█")

// HeatStrip renders a histogram as a row of shaded cells spanning [0, maxLatency].
// Each cell takes the densest bucket that overlaps it.
func HeatStrip(h schema.Histogram, maxLatency float64, width int) string {
	if width <= 0 {
		return ""
	}
	cells := make([]float64, width)
	buckets := algo.FillGaps(h.Data)
	maxCount := algo.MaxBucketCount(buckets)
	scale := algo.LinearScale{Max: maxLatency, RangeStart: 0, RangeEnd: float64(width)}

	if maxLatency > 0 {
		for _, b := range buckets {
			if b.Count <= 0 {
				continue
			}
			start := clampCell(int(scale.Map(b.Start)), width-1)
			end := clampCell(int(scale.Map(b.End)), width)
			if end <= start {
				end = start + 1
			}
			shade := algo.Shade(b.Count, maxCount)
			for i := start; i < end; i++ {
				cells[i] = math.Max(cells[i], shade)
			}
		}
	}

	var sb strings.Builder
	top := len(shadeRunes) - 1
	for _, shade := range cells {
		level := int(math.Ceil(shade * float64(top)))
		if level > top {
			level = top
		}
		sb.WriteRune(shadeRunes[level])
	}
	return sb.String()
}

func clampCell(i, hi int) int {
	if i < 0 {
		return 0
	}
	if i > hi {
		return hi
	}
	return i
}

// AxisLine renders the latency axis that sits above a section's heat strips.
// maxLatency is in seconds and labels are printed in milliseconds.
func AxisLine(maxLatency float64, width int, fmtFloat func(float64) string) string {
	left := "0ms"
	right := fmtFloat(maxLatency*1000) + "ms"
	fill := width - len(left) - len(right)
	if fill < 1 {
		fill = 1
	}
	return left + strings.Repeat("─", fill) + right
}
