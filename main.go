// Package main is the entry point for the benchgrid CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/benchgrid/cmd"
	"github.com/huangsam/benchgrid/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn profiling: %v\n", stopErr)
	}
	iocache.CloseCaching()

	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
