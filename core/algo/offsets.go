package algo

import "github.com/huangsam/benchgrid/schema"

// ToOffsets pairs each bucket of h with the number of requests observed in
// all buckets before it. Gap fillers are not involved since they carry no
// requests.
func ToOffsets(h schema.Histogram) []schema.OffsetBucket {
	out := make([]schema.OffsetBucket, 0, len(h.Data))
	var prior int64
	for _, b := range h.Data {
		out = append(out, schema.OffsetBucket{PriorCount: prior, Bucket: b})
		prior += b.Count
	}
	return out
}

// OffsetsConsistent reports whether the offsets account for every request
// in the histogram. A histogram with no buckets is consistent only when its
// Count is zero.
func OffsetsConsistent(h schema.Histogram, offsets []schema.OffsetBucket) bool {
	if len(offsets) == 0 {
		return h.Count == 0
	}
	last := offsets[len(offsets)-1]
	return last.PriorCount+last.Bucket.Count == h.Count
}
