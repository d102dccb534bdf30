// Package toolchain verifies that the external tools a project declares are
// present on PATH and, where the project names a minimum version, that the
// installed version satisfies it.
package toolchain

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/stride-build/stride/internal/manifest"
)

// Status is the check result for a single declared tool. A missing tool or
// an unsatisfied minimum is reported through the fields, not as an error;
// Err is set only when the tool was found but its version could not be
// determined or parsed.
type Status struct {
	Requirement manifest.ToolRequirement
	Path        string
	Version     string
	Found       bool
	Satisfied   bool
	Err         error
}

// Check resolves every requirement against the current PATH.
func Check(ctx context.Context, reqs []manifest.ToolRequirement) []Status {
	statuses := make([]Status, 0, len(reqs))
	for _, req := range reqs {
		statuses = append(statuses, checkOne(ctx, req))
	}
	return statuses
}

// AllSatisfied reports whether every status is found and satisfied.
func AllSatisfied(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Found || !s.Satisfied {
			return false
		}
	}
	return true
}

func checkOne(ctx context.Context, req manifest.ToolRequirement) Status {
	status := Status{Requirement: req}

	path, err := exec.LookPath(req.Name)
	if err != nil {
		return status
	}
	status.Found = true
	status.Path = path

	if req.MinVersion == "" {
		status.Satisfied = true
		return status
	}

	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		status.Err = fmt.Errorf("running %s --version: %w", req.Name, err)
		return status
	}

	version := ExtractVersion(string(out))
	if version == "" {
		status.Err = fmt.Errorf("no version number in %s --version output", req.Name)
		return status
	}
	status.Version = version

	ok, err := MeetsMinimum(version, req.MinVersion)
	if err != nil {
		status.Err = err
		return status
	}
	status.Satisfied = ok
	return status
}
