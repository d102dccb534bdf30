// Package driver runs the build loop: enumerate applications, and for each
// one patch the shared linker script to its assigned address, invoke the
// build tool, and restore the script. Strictly sequential: every iteration
// works on the same template file, so there is nothing to parallelize.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/stride-build/stride/internal/apps"
	"github.com/stride-build/stride/internal/builder"
	"github.com/stride-build/stride/internal/layout"
	"github.com/stride-build/stride/internal/ldscript"
	"github.com/stride-build/stride/internal/manifest"
)

// Options tune one Run invocation.
type Options struct {
	// KeepGoing continues past failed builds instead of stopping after the
	// first failure. Failures are reported either way.
	KeepGoing bool
	// Only restricts which applications are built. Addresses are always
	// computed from the full sorted list, so filtering never shifts them.
	Only []string
	// Out receives the per-application progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// AppResult is the outcome for one application.
type AppResult struct {
	Name     string
	Address  uint64
	ExitCode int
	Duration time.Duration
}

// Failed reports whether the build tool exited non-zero.
func (r AppResult) Failed() bool {
	return r.ExitCode != 0
}

// Report aggregates the results of one Run.
type Report struct {
	Results []AppResult
}

// Failed returns the results whose builds exited non-zero.
func (r *Report) Failed() []AppResult {
	var failed []AppResult
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Run executes the build loop for every application of the project rooted at
// root. Build tool failures are collected in the Report and summarized in the
// returned error; template I/O failures and tool invocation failures abort
// the loop. In every case the linker script on disk is back to its original
// bytes when Run returns.
func Run(ctx context.Context, p *manifest.Project, root string, b builder.Builder, opts Options) (*Report, error) {
	list, err := apps.Discover(p.AppsDir(root))
	if err != nil {
		return nil, err
	}

	l := layout.Layout{
		Base: uint64(p.Layout.BaseAddress),
		Step: uint64(p.Layout.Step),
	}
	assignments, err := l.Assign(list)
	if err != nil {
		return nil, err
	}

	selected, err := selectApps(list, opts.Only)
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	baseHex := p.Layout.BaseAddress.Hex()
	scriptPath := p.LinkerScript(root)
	report := &Report{}

	for _, a := range assignments {
		if selected != nil && !selected[a.App.Name] {
			continue
		}

		// Re-read the template each iteration so edits between builds are
		// picked up, matching the per-application read of the loop.
		script, err := ldscript.Load(scriptPath)
		if err != nil {
			return report, err
		}

		var res *builder.Result
		err = script.WithPatched(baseHex, a.Hex(), func() error {
			r, buildErr := b.Build(ctx, a.App.Name)
			if buildErr != nil {
				return buildErr
			}
			res = r
			fmt.Fprintf(out, "application %s start with address %s\n", a.App.Name, a.Hex())
			return nil
		})
		if err != nil {
			return report, fmt.Errorf("building %s: %w", a.App.Name, err)
		}

		report.Results = append(report.Results, AppResult{
			Name:     a.App.Name,
			Address:  a.Address,
			ExitCode: res.ExitCode,
			Duration: res.Duration,
		})

		if res.ExitCode != 0 && !opts.KeepGoing {
			break
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = fmt.Sprintf("%s (exit %d)", f.Name, f.ExitCode)
		}
		return report, fmt.Errorf("build failed for %s", strings.Join(names, ", "))
	}

	return report, nil
}

// selectApps resolves the --app filter against the discovered list. Returns
// nil when no filter is set.
func selectApps(list []apps.App, only []string) (map[string]bool, error) {
	if len(only) == 0 {
		return nil, nil
	}

	selected := make(map[string]bool, len(only))
	for _, name := range only {
		if _, ok := apps.Find(list, name); !ok {
			return nil, fmt.Errorf("unknown application %q: known applications are %s", name, strings.Join(apps.Names(list), ", "))
		}
		selected[name] = true
	}
	return selected, nil
}
