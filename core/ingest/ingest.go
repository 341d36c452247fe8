// Package ingest decodes Fortio report collections into normalized reports.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/benchgrid/schema"
	"github.com/spf13/cast"
)

var (
	// ErrNotArray is returned when the top-level document is not a JSON array.
	ErrNotArray = errors.New("report collection must be a JSON array")

	// ErrMalformedLabels is wrapped when a labels payload is not a JSON object.
	ErrMalformedLabels = errors.New("malformed labels")

	// ErrEmptyLabels is wrapped when a labels payload decodes to no keys.
	ErrEmptyLabels = errors.New("empty labels")
)

// LabelsError reports which record carried an unusable labels payload.
type LabelsError struct {
	Index int
	Raw   string
	Err   error
}

func (e *LabelsError) Error() string {
	return fmt.Sprintf("report %d: %v: %q", e.Index, e.Err, e.Raw)
}

func (e *LabelsError) Unwrap() error { return e.Err }

// Decode parses a Fortio report collection. A bare JSON null is treated as an
// empty collection. The first record with bad labels aborts the decode.
func Decode(data []byte) ([]schema.Report, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNotArray
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return []schema.Report{}, nil
	}
	if trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var raws []schema.RawReport
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode report collection: %w", err)
	}

	reports := make([]schema.Report, 0, len(raws))
	for i, raw := range raws {
		labels, err := ParseLabels(raw.Labels)
		if err != nil {
			return nil, &LabelsError{Index: i, Raw: raw.Labels, Err: err}
		}
		reports = append(reports, schema.Report{
			Labels:         labels,
			ActualQPS:      raw.ActualQPS,
			ActualDuration: raw.ActualDuration,
			Histogram:      raw.DurationHistogram,
		})
	}
	return reports, nil
}

// DecodeReader reads r fully and decodes it.
func DecodeReader(r io.Reader) ([]schema.Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report collection: %w", err)
	}
	return Decode(data)
}

// ParseLabels decodes a JSON labels payload. Non-string values are
// stringified; nested values keep their JSON encoding.
func ParseLabels(raw string) (schema.Labels, error) {
	if strings.TrimSpace(raw) == "" {
		return schema.Labels{}, ErrEmptyLabels
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return schema.Labels{}, fmt.Errorf("%w: %v", ErrMalformedLabels, err)
	}
	if fields == nil {
		return schema.Labels{}, fmt.Errorf("%w: not an object", ErrMalformedLabels)
	}
	if len(fields) == 0 {
		return schema.Labels{}, ErrEmptyLabels
	}

	all := make(map[string]string, len(fields))
	for k, v := range fields {
		all[k] = stringify(v)
	}

	name := all["name"]
	if name == "" {
		name = all["profile"]
	}
	return schema.Labels{
		Run:       all["run"],
		Kind:      schema.Kind(all["kind"]),
		Name:      name,
		Protocol:  all["protocol"],
		Direction: all["direction"],
		Rate:      all["rate"],
		Build:     all["build"],
		All:       all,
	}, nil
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
