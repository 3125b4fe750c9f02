package preflight

import (
	"context"

	"trackmux/internal/config"
	"trackmux/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The workspace directory is only checked for the local storage backend.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	results = append(results, CheckDirectoryAccess("Composer output", cfg.Composer.OutputDir))
	if cfg.Storage.Backend == config.StorageLocal {
		results = append(results, CheckDirectoryAccess("Workspace directory", cfg.Paths.WorkspaceDir))
	}

	results = append(results, CheckStorage(ctx, cfg.Storage))
	results = append(results, FromStatus(deps.CheckFFmpeg(cfg.Composer.FFmpegBinary)))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// FromStatus converts a dependency status into a check result.
func FromStatus(status deps.Status) Result {
	detail := status.Detail
	if status.Available {
		detail = status.Command
		if status.FromPath {
			detail += " (from PATH)"
		}
	}
	return Result{Name: status.Name, Passed: status.Available, Detail: detail}
}
