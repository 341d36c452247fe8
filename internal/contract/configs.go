package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/huangsam/benchgrid/schema"
)

// Default values for configuration.
const (
	DefaultSource    = "./reports.json"
	DefaultPrecision = 2
	MaxPrecision     = 6
	MaxRowHeight     = 200
	DefaultTimeout   = 30 * time.Second
	DefaultCacheTTL  = 24 * time.Hour
	DefaultInterval  = 30 * time.Second
	DefaultAddr      = ":8080"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a section build.
// This struct remains the "final, validated" config.
type Config struct {
	Source string

	Grouping  schema.GroupingMode
	Scaling   schema.ScalingMode
	RowOrder  schema.RowOrder
	Axis      schema.AxisPolicy
	RowHeight int

	Width      int // Strip width override (0 = auto-detect)
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Detail     bool
	UseColors  bool // Enable colored kind labels in table output

	Timeout time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	View      schema.ChartView
	OutputDir string

	Addr     string
	Interval time.Duration
	LogLevel hclog.Level
	LogJSON  bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// Positional args override the config file value
	SourceStr string `mapstructure:"source"`

	// --- Fields from rootCmd.PersistentFlags() ---
	GroupBy          string `mapstructure:"group-by"`
	Scale            string `mapstructure:"scale"`
	RowOrder         string `mapstructure:"row-order"`
	Axis             string `mapstructure:"axis"`
	RowHeight        int    `mapstructure:"row-height"`
	Width            int    `mapstructure:"width"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Detail           bool   `mapstructure:"detail"`
	Color            string `mapstructure:"color"`
	Timeout          string `mapstructure:"timeout"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	CacheTTL         string `mapstructure:"cache-ttl"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from renderCmd.Flags() ---
	View      string `mapstructure:"view"`
	OutputDir string `mapstructure:"output-dir"`

	// --- Fields from serveCmd.Flags() ---
	Addr     string `mapstructure:"addr"`
	Interval string `mapstructure:"interval"`
	LogLevel string `mapstructure:"log-level"`
	LogJSON  bool   `mapstructure:"log-json"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// IsRemoteSource reports whether the source is an HTTP(S) URL.
func (c *Config) IsRemoteSource() bool {
	return IsRemoteLocation(c.Source)
}

// IsRemoteLocation reports whether location is an HTTP(S) URL.
func IsRemoteLocation(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := validateStrategyInputs(cfg, input); err != nil {
		return err
	}
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return validateServeInputs(cfg, input)
}

// processSource resolves the report collection location.
func processSource(cfg *Config, input *ConfigRawInput) error {
	source := strings.TrimSpace(input.SourceStr)
	if source == "" {
		source = DefaultSource
	}
	if IsRemoteLocation(source) {
		u, err := url.Parse(source)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid source URL '%s'", source)
		}
	}
	cfg.Source = source
	return nil
}

// validateStrategyInputs validates the grouping and scaling choices.
func validateStrategyInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Grouping = schema.GroupingMode(strings.ToLower(orDefault(input.GroupBy, string(schema.ByRun))))
	if _, ok := schema.ValidGroupingModes[cfg.Grouping]; !ok {
		return fmt.Errorf("invalid group-by '%s'. must be run, profile, protocol, build", input.GroupBy)
	}

	cfg.Scaling = schema.ScalingMode(strings.ToLower(orDefault(input.Scale, string(schema.AbsoluteScale))))
	if _, ok := schema.ValidScalingModes[cfg.Scaling]; !ok {
		return fmt.Errorf("invalid scale '%s'. must be absolute, relative", input.Scale)
	}

	cfg.RowOrder = schema.RowOrder(strings.ToLower(orDefault(input.RowOrder, string(schema.KindThenName))))
	if _, ok := schema.ValidRowOrders[cfg.RowOrder]; !ok {
		return fmt.Errorf("invalid row-order '%s'. must be kind-name, name", input.RowOrder)
	}

	cfg.Axis = schema.AxisPolicy(strings.ToLower(orDefault(input.Axis, string(schema.EveryAxis))))
	if _, ok := schema.ValidAxisPolicies[cfg.Axis]; !ok {
		return fmt.Errorf("invalid axis '%s'. must be every, first", input.Axis)
	}

	if input.RowHeight < 1 || input.RowHeight > MaxRowHeight {
		return fmt.Errorf("row-height must be between 1 and %d (received %d)", MaxRowHeight, input.RowHeight)
	}
	cfg.RowHeight = input.RowHeight
	return nil
}

// validateOutputInputs validates formatting and output destinations.
func validateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.OutputDir = orDefault(input.OutputDir, ".")

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	colors, err := ParseBoolString(orDefault(input.Color, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(orDefault(input.Output, string(schema.TextOut))))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.View = schema.ChartView(strings.ToLower(orDefault(input.View, string(schema.BothViews))))
	if _, ok := schema.ValidChartViews[cfg.View]; !ok {
		return fmt.Errorf("invalid view '%s'. must be requests-by-latency, latency-by-requests, both", input.View)
	}
	return nil
}

// processDurations parses every duration flag.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	var err error
	if cfg.Timeout, err = parsePositiveDuration("timeout", input.Timeout, DefaultTimeout); err != nil {
		return err
	}
	if cfg.CacheTTL, err = parsePositiveDuration("cache-ttl", input.CacheTTL, DefaultCacheTTL); err != nil {
		return err
	}
	if cfg.Interval, err = parsePositiveDuration("interval", input.Interval, DefaultInterval); err != nil {
		return err
	}
	return nil
}

// validateServeInputs validates the long-running server settings.
func validateServeInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Addr = orDefault(input.Addr, DefaultAddr)
	cfg.LogJSON = input.LogJSON

	level := hclog.LevelFromString(orDefault(input.LogLevel, "info"))
	if level == hclog.NoLevel {
		return fmt.Errorf("invalid log-level '%s'. must be trace, debug, info, warn, error", input.LogLevel)
	}
	cfg.LogLevel = level
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL, PostgreSQL and Redis backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
			return fmt.Errorf("Redis connection string must start with 'redis://' or 'rediss://'")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(orDefault(input.CacheBackend, string(schema.SQLiteBackend))))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// Validate that cache and history use different databases
	if cfg.CacheBackend == cfg.HistoryBackend && cfg.CacheBackend != schema.NoneBackend {
		cachePath, historyPath := cfg.CacheDBConnect, cfg.HistoryDBConnect
		// For SQLite, resolve to actual file paths to catch default path conflicts
		if cfg.CacheBackend == schema.SQLiteBackend {
			cachePath = orDefault(cachePath, GetCacheDBFilePath())
			historyPath = orDefault(historyPath, GetHistoryDBFilePath())
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different databases. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// parsePositiveDuration parses s as a Go duration, using fallback when empty.
func parsePositiveDuration(name, s string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", name, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive (received %s)", name, s)
	}
	return d, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
