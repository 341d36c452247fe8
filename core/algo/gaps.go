package algo

import "github.com/huangsam/benchgrid/schema"

// FillGaps returns a copy of buckets where every interior gap between two
// consecutive buckets is covered by a zero-count bucket. A gap before the
// first bucket is left unfilled. The input slice is never modified.
func FillGaps(buckets []schema.HistogramBucket) []schema.HistogramBucket {
	if len(buckets) == 0 {
		return []schema.HistogramBucket{}
	}
	out := make([]schema.HistogramBucket, 0, len(buckets))
	out = append(out, buckets[0])
	for i := 1; i < len(buckets); i++ {
		prior, next := buckets[i-1], buckets[i]
		if prior.End < next.Start {
			out = append(out, schema.HistogramBucket{Start: prior.End, End: next.Start})
		}
		out = append(out, next)
	}
	return out
}

// MaxBucketCount returns the largest Count across buckets, or 0 when empty.
func MaxBucketCount(buckets []schema.HistogramBucket) int64 {
	var maxCount int64
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	return maxCount
}
