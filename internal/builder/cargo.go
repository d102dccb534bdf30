package builder

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// CargoBuilder builds one binary target per application with cargo.
type CargoBuilder struct {
	Dir     string // working directory for cargo
	Cargo   string // cargo binary; defaults to "cargo" from PATH
	Profile string // "release" or a custom profile name
	Target  string // optional target triple
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Build invokes `cargo build --bin <app> --release` (or --profile for
// non-release profiles, plus --target when configured).
func (c *CargoBuilder) Build(ctx context.Context, app string) (*Result, error) {
	bin := c.Cargo
	if bin == "" {
		bin = "cargo"
	}

	cargoBin, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("cargo builder requires cargo: %w", err)
	}

	return run(ctx, cargoBin, cargoArgs(c.Profile, c.Target, app), c.Dir, app, c.Stdout, c.Stderr)
}

// cargoArgs assembles the cargo argv for one application.
func cargoArgs(profile, target, app string) []string {
	args := []string{"build", "--bin", app}
	switch profile {
	case "", "release":
		args = append(args, "--release")
	default:
		args = append(args, "--profile", profile)
	}
	if target != "" {
		args = append(args, "--target", target)
	}
	return args
}
