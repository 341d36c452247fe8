package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/internal/parquet"
)

// ExecuteHistoryExport writes the render history to two Parquet files
// named after outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not configured. Set --history-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no render history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total render runs: %d\n", status.TotalRuns)
	fmt.Printf("Total section records: %d\n", status.TableSizes[renderSectionsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve render runs: %w", err)
	}
	sections, err := store.GetAllSections()
	if err != nil {
		return fmt.Errorf("failed to retrieve render sections: %w", err)
	}

	runsFile := outputFile + ".render_runs.parquet"
	parquetRuns := parquet.ConvertRenderRunRecords(runs)
	if err := parquet.WriteRenderRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write render runs: %w", err)
	}
	fmt.Printf("Exported %d render runs to: %s\n", len(parquetRuns), runsFile)

	sectionsFile := outputFile + ".render_sections.parquet"
	parquetSections := parquet.ConvertSectionRecords(sections)
	if err := parquet.WriteRenderSectionsParquet(parquetSections, sectionsFile); err != nil {
		return fmt.Errorf("failed to write render sections: %w", err)
	}
	fmt.Printf("Exported %d section records to: %s\n", len(parquetSections), sectionsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
