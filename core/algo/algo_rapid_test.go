package algo

import (
	"testing"

	"github.com/huangsam/benchgrid/schema"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// drawBuckets generates an ascending, non-overlapping bucket sequence with
// random interior gaps.
func drawBuckets(t *rapid.T) []schema.HistogramBucket {
	n := rapid.IntRange(0, 30).Draw(t, "n")
	buckets := make([]schema.HistogramBucket, 0, n)
	cursor := float64(rapid.IntRange(0, 5).Draw(t, "lead"))
	for i := range n {
		gap := rapid.IntRange(0, 3).Draw(t, "gap")
		width := rapid.IntRange(1, 4).Draw(t, "width")
		count := rapid.Int64Range(0, 1000).Draw(t, "count")
		start := cursor + float64(gap)
		if i == 0 {
			start = cursor
		}
		buckets = append(buckets, schema.HistogramBucket{Start: start, End: start + float64(width), Count: count})
		cursor = start + float64(width)
	}
	return buckets
}

func TestFillGapsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := drawBuckets(t)
		out := FillGaps(input)

		require.GreaterOrEqual(t, len(out), len(input))
		require.Equal(t, out, FillGaps(out))

		// Contiguous after the first bucket, and original order preserved.
		j := 0
		for i, b := range out {
			if i > 0 {
				require.Equal(t, out[i-1].End, b.Start)
			}
			if j < len(input) && b == input[j] {
				j++
			} else {
				require.Zero(t, b.Count)
			}
		}
		require.Equal(t, len(input), j)
		if len(input) > 0 {
			require.Equal(t, input[0], out[0])
		}
	})
}

func TestToOffsetsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buckets := drawBuckets(t)
		var total int64
		for _, b := range buckets {
			total += b.Count
		}
		h := schema.Histogram{Count: total, Data: buckets}
		offsets := ToOffsets(h)

		require.Len(t, offsets, len(buckets))
		require.True(t, OffsetsConsistent(h, offsets))
		var running int64
		for i, o := range offsets {
			require.Equal(t, running, o.PriorCount)
			require.Equal(t, buckets[i], o.Bucket)
			running += o.Bucket.Count
		}
	})
}
