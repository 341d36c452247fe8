package outwriter

import (
	"testing"
	"unicode/utf8"

	"github.com/huangsam/benchgrid/schema"
	"github.com/stretchr/testify/assert"
)

func TestHeatStrip(t *testing.T) {
	tests := []struct {
		name       string
		buckets    []schema.HistogramBucket
		maxLatency float64
		width      int
		expected   string
	}{
		{
			name:       "single bucket fills the strip",
			buckets:    []schema.HistogramBucket{{Start: 0, End: 0.01, Count: 10}},
			maxLatency: 0.01,
			width:      10,
			expected:   "██████████",
		},
		{
			name: "gap stays empty and sparse bucket is lighter",
			buckets: []schema.HistogramBucket{
				{Start: 0, End: 0.002, Count: 81},
				{Start: 0.008, End: 0.01, Count: 1},
			},
			maxLatency: 0.01,
			width:      10,
			expected:   "██      ▒▒",
		},
		{
			name:       "narrow bucket gets one cell",
			buckets:    []schema.HistogramBucket{{Start: 0.0041, End: 0.0042, Count: 5}},
			maxLatency: 0.01,
			width:      10,
			expected:   "    █     ",
		},
		{
			name:       "zero domain renders blank",
			buckets:    []schema.HistogramBucket{{Start: 0, End: 0.01, Count: 10}},
			maxLatency: 0,
			width:      4,
			expected:   "    ",
		},
		{
			name:     "no buckets",
			width:    3,
			expected: "   ",
		},
		{
			name:       "zero width",
			buckets:    []schema.HistogramBucket{{Start: 0, End: 0.01, Count: 10}},
			maxLatency: 0.01,
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeatStrip(schema.Histogram{Data: tt.buckets}, tt.maxLatency, tt.width)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.width, utf8.RuneCountInString(got))
		})
	}
}

func TestHeatStripDoesNotModifyInput(t *testing.T) {
	h := schema.Histogram{Data: []schema.HistogramBucket{
		{Start: 0, End: 0.001, Count: 3},
		{Start: 0.005, End: 0.006, Count: 1},
	}}
	_ = HeatStrip(h, 0.006, 12)
	assert.Len(t, h.Data, 2)
}

func TestAxisLine(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	assert.Equal(t, "0ms──────────12.50ms", AxisLine(0.0125, 20, fmtFloat))
	assert.Equal(t, "0ms─12.50ms", AxisLine(0.0125, 5, fmtFloat), "narrow axis keeps one separator")
}
