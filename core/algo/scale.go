package algo

import "math"

// ChartInset is the horizontal padding reserved on both sides of a chart.
const ChartInset = 15

// LinearScale maps the domain [0, Max] onto [RangeStart, RangeEnd].
type LinearScale struct {
	Max        float64
	RangeStart float64
	RangeEnd   float64
}

// NewLinearScale builds a scale over [0, max] drawn across a chart of the
// given width, leaving ChartInset on both sides.
func NewLinearScale(max float64, width int) LinearScale {
	end := float64(width - ChartInset)
	if end < ChartInset {
		end = ChartInset
	}
	return LinearScale{Max: max, RangeStart: ChartInset, RangeEnd: end}
}

// Map converts v into range coordinates, rounded to the nearest integer.
// A zero or negative domain maps everything to RangeStart.
func (s LinearScale) Map(v float64) float64 {
	if s.Max <= 0 {
		return s.RangeStart
	}
	return math.Round(s.RangeStart + (v/s.Max)*(s.RangeEnd-s.RangeStart))
}

// Ticks returns roughly count evenly spaced round values in [0, max].
func Ticks(max float64, count int) []float64 {
	if max <= 0 || count <= 0 || math.IsInf(max, 0) || math.IsNaN(max) {
		return nil
	}
	step := tickStep(max / float64(count))
	n := int(math.Floor(max/step + 1e-9))
	ticks := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		ticks = append(ticks, float64(i)*step)
	}
	return ticks
}

// tickStep rounds raw up to 1, 2, 5 or 10 times a power of ten.
func tickStep(raw float64) float64 {
	power := math.Pow(10, math.Floor(math.Log10(raw)))
	ratio := raw / power
	switch {
	case ratio >= math.Sqrt(50):
		return 10 * power
	case ratio >= math.Sqrt(10):
		return 5 * power
	case ratio >= math.Sqrt(2):
		return 2 * power
	default:
		return power
	}
}

// Shade maps count relative to maxCount onto [0, 1] with a fourth-root curve
// so that sparse buckets stay visible next to dense ones.
func Shade(count, maxCount int64) float64 {
	if maxCount <= 0 || count <= 0 {
		return 0
	}
	return math.Pow(float64(count)/float64(maxCount), 0.25)
}
