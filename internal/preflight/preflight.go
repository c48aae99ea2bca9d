package preflight

import (
	"context"
	"fmt"

	"mediasort/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional results do not block a run when they fail.
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for i, dir := range cfg.Paths.InputDirs {
		name := "Input directory"
		if len(cfg.Paths.InputDirs) > 1 {
			name = fmt.Sprintf("Input directory %d", i+1)
		}
		// A run proceeds while at least one input is readable, so a
		// single unreadable input does not block.
		result := CheckReadableDirectory(name, dir)
		result.Optional = true
		results = append(results, result)
	}
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckOutputDirectory("Output directory", cfg.Paths.OutputDir))
	}
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckFFprobe(ctx, cfg.FFprobeBinary()))
	return results
}

// Blocking returns the failed results that should stop a run.
func Blocking(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}
