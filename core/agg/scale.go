package agg

import (
	"fmt"

	"github.com/huangsam/benchgrid/schema"
)

// ResolveScale computes the scale domain covering reports. An empty set
// yields zero maxima with the axis suppressed.
func ResolveScale(reports []schema.Report, rowHeight int) schema.ScaleDomain {
	if rowHeight <= 0 {
		rowHeight = schema.DefaultRowHeight
	}
	domain := schema.ScaleDomain{RowHeight: rowHeight}
	if len(reports) == 0 {
		return domain
	}
	domain.ShowAxis = true
	for _, r := range reports {
		if r.Histogram.Max > domain.MaxLatency {
			domain.MaxLatency = r.Histogram.Max
		}
		if r.Histogram.Count > domain.MaxRequests {
			domain.MaxRequests = r.Histogram.Count
		}
	}
	return domain
}

// Scale is the resolved domain and axis visibility for one group.
type Scale struct {
	Domain   schema.ScaleDomain
	ShowAxis bool
}

// Scaler resolves one Scale per group, in group order.
type Scaler interface {
	Mode() schema.ScalingMode
	Resolve(groups []Group) []Scale
}

// Absolute shares one domain across every group.
type Absolute struct {
	RowHeight int
	Axis      schema.AxisPolicy
}

// Relative computes an independent domain for each group.
type Relative struct {
	RowHeight int
}

var (
	_ Scaler = Absolute{}
	_ Scaler = Relative{}
)

// NewScaler builds the scaler for mode.
func NewScaler(mode schema.ScalingMode, rowHeight int, axis schema.AxisPolicy) (Scaler, error) {
	switch mode {
	case schema.AbsoluteScale:
		if axis == "" {
			axis = schema.EveryAxis
		}
		if _, ok := schema.ValidAxisPolicies[axis]; !ok {
			return nil, fmt.Errorf("unknown axis policy '%s'", axis)
		}
		return Absolute{RowHeight: rowHeight, Axis: axis}, nil
	case schema.RelativeScale:
		return Relative{RowHeight: rowHeight}, nil
	default:
		return nil, fmt.Errorf("unknown scaling mode '%s'", mode)
	}
}

// Mode returns schema.AbsoluteScale.
func (a Absolute) Mode() schema.ScalingMode { return schema.AbsoluteScale }

// Resolve computes the domain once over all rows and reuses it.
func (a Absolute) Resolve(groups []Group) []Scale {
	var all []schema.Report
	for _, g := range groups {
		for _, row := range g.Rows {
			all = append(all, row.Report)
		}
	}
	domain := ResolveScale(all, a.RowHeight)

	scales := make([]Scale, len(groups))
	for i := range groups {
		show := domain.ShowAxis && (a.Axis != schema.FirstAxis || i == 0)
		scales[i] = Scale{Domain: domain, ShowAxis: show}
	}
	return scales
}

// Mode returns schema.RelativeScale.
func (r Relative) Mode() schema.ScalingMode { return schema.RelativeScale }

// Resolve computes each group's domain from its own rows.
func (r Relative) Resolve(groups []Group) []Scale {
	scales := make([]Scale, len(groups))
	for i, g := range groups {
		reports := make([]schema.Report, 0, len(g.Rows))
		for _, row := range g.Rows {
			reports = append(reports, row.Report)
		}
		domain := ResolveScale(reports, r.RowHeight)
		scales[i] = Scale{Domain: domain, ShowAxis: domain.ShowAxis}
	}
	return scales
}
