package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stride-build/stride/internal/branding"
	"github.com/stride-build/stride/internal/builder"
	"github.com/stride-build/stride/internal/config"
	"github.com/stride-build/stride/internal/manifest"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// manifestPath is the persistent --manifest flag shared by every command
// that operates on a project.
var manifestPath string

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` builds each application of a bare-metal project at its own load
address: it patches the base address in the shared linker script, runs the
build tool, and restores the script, stepping the address per application.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "f", "", "Path to the project manifest (default: ./"+manifest.DefaultFileName+")")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// locateManifest resolves the manifest path for the current invocation:
// the --manifest flag wins, then the user-level default_manifest setting,
// then stride.yaml in the working directory.
func locateManifest() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	explicit := manifestPath
	if explicit == "" {
		config.Load()
		explicit = config.Get(config.KeyDefaultManifest)
	}

	return manifest.Locate(cwd, explicit)
}

// loadProject resolves and loads the manifest for the current invocation.
// The returned root is the directory containing the manifest; every relative
// path in the manifest is resolved against it.
func loadProject() (*manifest.Project, string, error) {
	path, err := locateManifest()
	if err != nil {
		return nil, "", err
	}

	p, err := manifest.Load(path)
	if err != nil {
		return nil, "", err
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, "", fmt.Errorf("resolving project root: %w", err)
	}
	return p, root, nil
}

// newBuilder constructs the build tool runner for a loaded project, honoring
// the user-level cargo override.
func newBuilder(p *manifest.Project, root string) builder.Builder {
	config.Load()
	return builder.New(p.Build, builder.Options{
		Root:   root,
		Cargo:  config.Get(config.KeyCargoPath),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
}
