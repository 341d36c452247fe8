package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// GroupingMode represents the label used to partition reports into sections.
	GroupingMode string

	// ScalingMode represents how scale domains are shared across sections.
	ScalingMode string

	// RowOrder represents the comparator used for rows within a section.
	RowOrder string

	// AxisPolicy represents which sections show their axis under absolute scaling.
	AxisPolicy string

	// Kind discriminates control measurements from measurements taken through a proxy.
	Kind string

	// ChartView represents one of the SVG chart layouts.
	ChartView string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis" // cache only
	NoneBackend       DatabaseBackend = "none"
)

// All grouping modes supported.
const (
	ByRun      GroupingMode = "run" // default
	ByProfile  GroupingMode = "profile"
	ByProtocol GroupingMode = "protocol"
	ByBuild    GroupingMode = "build"
)

// All scaling modes supported.
const (
	AbsoluteScale ScalingMode = "absolute" // default
	RelativeScale ScalingMode = "relative"
)

// All row orders supported.
const (
	KindThenName RowOrder = "kind-name" // default
	NameOnly     RowOrder = "name"
)

// All axis policies supported.
const (
	EveryAxis AxisPolicy = "every" // default
	FirstAxis AxisPolicy = "first"
)

// Known report kinds.
const (
	BaselineKind Kind = "baseline"
	ProxyKind    Kind = "proxy"
)

// All chart views supported.
const (
	RequestsByLatency ChartView = "requests-by-latency"
	LatencyByRequests ChartView = "latency-by-requests"
	BothViews         ChartView = "both" // default
)

// BaselineName is the sentinel title or row name that always sorts first.
const BaselineName = "baseline"

// DefaultRowHeight is the row height used when none is configured.
const DefaultRowHeight = 20

// MarkerPercentiles are the percentiles highlighted on latency charts.
var MarkerPercentiles = []float64{50, 75, 90, 99, 99.9}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid backends for the snapshot cache.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidHistoryBackends lists all valid backends for render history.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidGroupingModes lists all valid grouping modes.
var ValidGroupingModes = map[GroupingMode]struct{}{
	ByRun:      {},
	ByProfile:  {},
	ByProtocol: {},
	ByBuild:    {},
}

// ValidScalingModes lists all valid scaling modes.
var ValidScalingModes = map[ScalingMode]struct{}{
	AbsoluteScale: {},
	RelativeScale: {},
}

// ValidRowOrders lists all valid row orders.
var ValidRowOrders = map[RowOrder]struct{}{
	KindThenName: {},
	NameOnly:     {},
}

// ValidAxisPolicies lists all valid axis policies.
var ValidAxisPolicies = map[AxisPolicy]struct{}{
	EveryAxis: {},
	FirstAxis: {},
}

// ValidChartViews lists all valid chart views.
var ValidChartViews = map[ChartView]struct{}{
	RequestsByLatency: {},
	LatencyByRequests: {},
	BothViews:         {},
}

// Views expands a chart view selection into the concrete views to draw.
func (v ChartView) Views() []ChartView {
	if v == BothViews || v == "" {
		return []ChartView{RequestsByLatency, LatencyByRequests}
	}
	return []ChartView{v}
}
