// Package outwriter has output and writer logic for built sections.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
	"golang.org/x/term"
)

// Strip width bounds for the heat strip column.
const (
	minStripWidth = 10
	maxStripWidth = 60
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSections prints built sections using the configured output format.
func (ow *OutWriter) WriteSections(sections []schema.Section, cfg *contract.Config, duration time.Duration) error {
	return WriteSections(sections, cfg, duration)
}

// GetStripWidth calculates the number of terminal cells available to the heat strip
// based on terminal width and the fixed table columns.
func GetStripWidth(cfg *contract.Config) int {
	termWidth := cfg.Width

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Name + Kind + the seven numeric columns, with borders and padding
	baseWidth := 20 + 10 + 7*(cfg.Precision+8)

	available := termWidth - baseWidth
	if available < minStripWidth {
		return minStripWidth
	}
	if available > maxStripWidth {
		return maxStripWidth
	}
	return available
}
