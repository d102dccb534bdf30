package builder

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CommandBuilder runs an arbitrary argv per application. Occurrences of
// {app} and {profile} in any argv element are substituted before execution.
type CommandBuilder struct {
	Argv    []string
	Profile string
	Dir     string
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Build expands the argv placeholders and executes the command.
func (c *CommandBuilder) Build(ctx context.Context, app string) (*Result, error) {
	if len(c.Argv) == 0 {
		return nil, fmt.Errorf("command builder requires a non-empty argv")
	}

	argv := expandArgs(c.Argv, app, c.Profile)

	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("command builder requires %s: %w", argv[0], err)
	}

	return run(ctx, bin, argv[1:], c.Dir, app, c.Stdout, c.Stderr)
}

// expandArgs substitutes {app} and {profile} in each argv element.
func expandArgs(argv []string, app, profile string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		a = strings.ReplaceAll(a, "{app}", app)
		a = strings.ReplaceAll(a, "{profile}", profile)
		out[i] = a
	}
	return out
}
