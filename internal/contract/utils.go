package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/benchgrid/schema"
)

// Color variables for console output.
var (
	BaselineColor = color.New(color.FgGreen, color.Bold) // BaselineColor marks control measurements.
	ProxyColor    = color.New(color.FgCyan)              // ProxyColor marks measurements taken through a proxy.
	OtherColor    = color.New(color.FgYellow)            // OtherColor marks any other kind.
)

// GetPlainKind returns a plain text label for a report kind. Unset kinds
// render as "-". This is the core logic used for CSV, JSON, and table printing.
func GetPlainKind(kind schema.Kind) string {
	if kind == "" {
		return "-"
	}
	return string(kind)
}

// GetColorKind returns a colored kind label for console output (table).
func GetColorKind(kind schema.Kind) string {
	text := GetPlainKind(kind)

	switch kind {
	case schema.BaselineKind:
		return BaselineColor.Sprint(text)
	case schema.ProxyKind:
		return ProxyColor.Sprint(text)
	default:
		return OtherColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for snapshot cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".benchgrid_cache.db"
	}
	return filepath.Join(homeDir, ".benchgrid_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for render history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".benchgrid_history.db"
	}
	return filepath.Join(homeDir, ".benchgrid_history.db")
}

// TruncateName truncates a row or section name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
