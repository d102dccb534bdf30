package cli

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stride-build/stride/internal/branding"
	"github.com/stride-build/stride/internal/layout"
	"github.com/stride-build/stride/internal/manifest"
	"github.com/stride-build/stride/internal/scaffold"
)

var projectNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

var (
	initName         string
	initAppsDir      string
	initLinkerScript string
	initBaseAddress  string
	initStep         string
	initTarget       string
)

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Project name (default: directory name)")
	initCmd.Flags().StringVar(&initAppsDir, "apps-dir", "src/bin", "Directory for application sources")
	initCmd.Flags().StringVar(&initLinkerScript, "linker-script", "src/linker.ld", "Path of the shared linker script")
	initCmd.Flags().StringVar(&initBaseAddress, "base-address", "0x80400000", "Load address of the first application")
	initCmd.Flags().StringVar(&initStep, "step", "0x20000", "Address-space allowance per application")
	initCmd.Flags().StringVar(&initTarget, "target", "", "Cargo target triple recorded in the manifest")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a new project",
	Long: `Create a new project: a ` + manifest.DefaultFileName + ` manifest, a linker script
carrying the base address, and an empty applications directory.

Without an argument the project is created in the current directory, which
must be empty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolving directory: %w", err)
		}

		name := initName
		if name == "" {
			name = filepath.Base(absDir)
		}
		if !projectNamePattern.MatchString(name) {
			return fmt.Errorf("invalid project name %q: must match pattern [a-z0-9][a-z0-9-]* (set one with --name)", name)
		}

		base, err := parseAddress(initBaseAddress)
		if err != nil {
			return fmt.Errorf("invalid --base-address: %w", err)
		}
		step, err := parseAddress(initStep)
		if err != nil {
			return fmt.Errorf("invalid --step: %w", err)
		}
		if step == 0 {
			return fmt.Errorf("--step must be greater than zero")
		}

		data := scaffold.NewProjectData(name)
		data.AppsDir = filepath.ToSlash(initAppsDir)
		data.LinkerScript = filepath.ToSlash(initLinkerScript)
		data.BaseAddress = layout.Hex(base)
		data.Step = layout.Hex(step)
		data.Target = initTarget

		result, err := scaffold.GenerateProject(data, absDir)
		if err != nil {
			return err
		}

		printScaffoldResult(cmd, "project "+name, result)

		fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
		fmt.Fprintf(cmd.OutOrStdout(), "  1. Add an application with '%s create app <name>'\n", branding.CLIName())
		fmt.Fprintf(cmd.OutOrStdout(), "  2. Run '%s build'\n", branding.CLIName())
		return nil
	},
}

// parseAddress accepts the address spellings the manifest accepts: hex with
// an 0x prefix, plain decimal, and the rarer octal and binary prefixes.
func parseAddress(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing address %q: %w", s, err)
	}
	return v, nil
}

func printScaffoldResult(cmd *cobra.Command, what string, result *scaffold.Result) {
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s at %s\n", what, result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", w)
		}
	}
}
