package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/internal/iocache"
	"github.com/huangsam/benchgrid/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration and the open CPU profile, if any.
var profile = &profileState{}

type profileState struct {
	contract.ProfileConfig
	cpuFile *os.File
}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// startProfiling starts CPU profiling if enabled. Notices go to stderr so
// that json, csv and MCP output on stdout stay parseable.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuPath := profile.Prefix + ".cpu.prof"
	cpuFile, err := os.Create(cpuPath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		_ = cpuFile.Close()
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}
	profile.cpuFile = cpuFile

	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s, Memory profile: %s.mem.prof\n", cpuPath, profile.Prefix)
	return err
}

// stopProfiling stops CPU profiling and writes a heap profile.
func stopProfiling() error {
	if !profile.Enabled || profile.cpuFile == nil {
		return nil
	}

	pprof.StopCPUProfile()
	if err := profile.cpuFile.Close(); err != nil {
		return fmt.Errorf("could not close CPU profile: %w", err)
	}
	profile.cpuFile = nil

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "benchgrid",
	Short:              "Aggregate and scale Fortio benchmark reports into comparable charts.",
	Long:               `Benchgrid groups Fortio latency reports into sections that share one scale, so proxies can be compared against their baselines.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSearch()

	// Set environment variable prefix
	viper.SetEnvPrefix("BENCHGRID")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("group-by", schema.ByRun)
	viper.SetDefault("scale", schema.AbsoluteScale)
	viper.SetDefault("row-order", schema.KindThenName)
	viper.SetDefault("axis", schema.EveryAxis)
	viper.SetDefault("row-height", schema.DefaultRowHeight)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("timeout", contract.DefaultTimeout.String())
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("cache-ttl", contract.DefaultCacheTTL.String())
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// Handle profiling flag
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(&profile.ProfileConfig, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.SourceStr = args[0]
	} else if input.SourceStr == "" {
		input.SourceStr = contract.DefaultSource
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// setConfigSearch points viper at --config, or at .benchgrid.yaml in the
// working directory and then $HOME.
func setConfigSearch() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".benchgrid")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// loadConfigFile reads the config file if one exists. A missing file is not an error.
func loadConfigFile() error {
	setConfigSearch()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
