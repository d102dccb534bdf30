package builder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/stride-build/stride/internal/manifest"
)

// Builder builds a single application by name.
type Builder interface {
	// Build runs the external tool for the named application. The call
	// blocks until the tool exits; the passed context is the only
	// cancellation path.
	Build(ctx context.Context, app string) (*Result, error)
}

// Result captures one tool invocation.
type Result struct {
	App      string
	ExitCode int
	Duration time.Duration
	Stdout   string
	Stderr   string
}

// Options configure construction of a Builder from a manifest.
type Options struct {
	Root   string // project root; the tool's working directory
	Cargo  string // cargo binary override (config key cargo_path)
	Stdout io.Writer
	Stderr io.Writer
}

// New returns the Builder implementation for the manifest's build section.
// Returns an error-producing builder for unknown tool values.
func New(build manifest.BuildSection, opts Options) Builder {
	switch build.Tool {
	case manifest.ToolCargo:
		return &CargoBuilder{
			Dir:     opts.Root,
			Cargo:   opts.Cargo,
			Profile: build.Profile,
			Target:  build.Target,
			Stdout:  opts.Stdout,
			Stderr:  opts.Stderr,
		}
	case manifest.ToolCommand:
		return &CommandBuilder{
			Argv:    build.Args,
			Profile: build.Profile,
			Dir:     opts.Root,
			Stdout:  opts.Stdout,
			Stderr:  opts.Stderr,
		}
	default:
		return &unknownBuilder{tool: build.Tool}
	}
}

// unknownBuilder is returned when the tool identifier is not recognized.
type unknownBuilder struct {
	tool string
}

func (u *unknownBuilder) Build(_ context.Context, _ string) (*Result, error) {
	return nil, fmt.Errorf("unknown build tool %q: supported tools are %q and %q", u.tool, manifest.ToolCargo, manifest.ToolCommand)
}

// run executes the tool and captures its output while streaming to the
// configured writers. A non-zero exit lands in the Result with a nil error.
func run(ctx context.Context, bin string, args []string, dir, app string, stdout, stderr io.Writer) (*Result, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		App:      app,
		Duration: time.Since(start),
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("executing %s: %w", bin, err)
	}

	result.ExitCode = 0
	return result, nil
}
