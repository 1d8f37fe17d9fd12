package preflight

import (
	"context"

	"papercast/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data directory (always checked; holds the database)
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	// Output directory (only written when local copies are kept)
	if cfg.Workflow.SaveLocalCopies {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}

	results = append(results, CheckDiskSpace(cfg.Paths.DataDir))
	results = append(results, CheckDatabase(cfg))
	results = append(results, CheckAudioStorage(ctx, cfg))
	results = append(results, CheckGemini(ctx, cfg))
	results = append(results, CheckArxiv(ctx, cfg))
	results = append(results, CheckNtfy(cfg))

	return results
}

// Healthy reports whether every result passed.
func Healthy(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
