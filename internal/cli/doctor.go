package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stride-build/stride/internal/apps"
	"github.com/stride-build/stride/internal/branding"
	"github.com/stride-build/stride/internal/layout"
	"github.com/stride-build/stride/internal/ldscript"
	"github.com/stride-build/stride/internal/manifest"
	"github.com/stride-build/stride/internal/platform"
	"github.com/stride-build/stride/internal/toolchain"
)

var (
	checkManifest  bool
	checkApps      bool
	checkScript    bool
	checkToolchain bool
	doctorFix      bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkManifest, "check-manifest", false, "Validate the manifest against the schema")
	doctorCmd.Flags().BoolVar(&checkApps, "check-apps", false, "Enumerate applications and their addresses")
	doctorCmd.Flags().BoolVar(&checkScript, "check-script", false, "Verify the linker script is present and patchable")
	doctorCmd.Flags().BoolVar(&checkToolchain, "check-toolchain", false, "Verify declared tools are installed")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Repair problems that have a safe automatic fix")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the project",
	Long:  `Run diagnostic checks on the project: manifest, applications, linker script, and toolchain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		anyFlag := checkManifest || checkApps || checkScript || checkToolchain

		// If no specific flag, run all checks.
		all := !anyFlag

		if all || checkManifest {
			runManifestCheck()
		}
		if all || checkApps {
			runAppsCheck()
		}
		if all || checkScript {
			runScriptCheck(doctorFix)
		}
		if all || checkToolchain {
			runToolchainCheck(cmd.Context())
		}
		return nil
	},
}

func runManifestCheck() {
	fmt.Println("Manifest check:")

	path, err := locateManifest()
	if err != nil {
		fmt.Printf("  [MISS] %v\n", err)
		return
	}

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Printf("  [FAIL] Could not validate %s: %v\n", path, err)
		return
	}
	if !result.Valid {
		for _, issue := range result.Issues {
			fmt.Printf("  [FAIL] %s\n", issue)
		}
		return
	}

	if _, err := manifest.Load(path); err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return
	}

	fmt.Printf("  [ OK ] %s is valid\n", path)
}

func runAppsCheck() {
	fmt.Println("Apps check:")

	p, root, err := loadProject()
	if err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return
	}

	list, err := apps.Discover(p.AppsDir(root))
	if err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return
	}
	if len(list) == 0 {
		fmt.Printf("  [WARN] No applications in %s\n", p.AppsDir(root))
		return
	}

	l := layout.Layout{Base: uint64(p.Layout.BaseAddress), Step: uint64(p.Layout.Step)}
	assignments, err := l.Assign(list)
	if err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return
	}

	first := assignments[0]
	last := assignments[len(assignments)-1]
	fmt.Printf("  [ OK ] %d application(s) from %s to %s\n", len(list), first.Hex(), last.Hex())
}

func runScriptCheck(fix bool) {
	fmt.Println("Linker script check:")

	p, root, err := loadProject()
	if err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return
	}

	path := p.LinkerScript(root)
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("  [MISS] %s not found\n", path)
		return
	}

	script, err := ldscript.Load(path)
	if err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return
	}

	base := p.Layout.BaseAddress.Hex()
	switch n := script.Occurrences(base); n {
	case 0:
		fmt.Printf("  [FAIL] base address %s does not appear in %s\n", base, path)
	case 1:
		fmt.Printf("  [ OK ] base address %s found\n", base)
	default:
		fmt.Printf("  [WARN] base address %s appears %d times; every occurrence is patched\n", base, n)
	}

	if platform.Writable(path) {
		fmt.Printf("  [ OK ] %s is writable\n", path)
		return
	}
	if !fix {
		fmt.Printf("  [WARN] %s is not writable (run '%s doctor --fix')\n", path, branding.CLIName())
		return
	}
	if err := platform.MakeWritable(path); err != nil {
		fmt.Printf("  [FAIL] Could not make %s writable: %v\n", path, err)
	} else {
		fmt.Printf("  [FIX ] Made %s writable\n", path)
	}
}

func runToolchainCheck(ctx context.Context) {
	fmt.Println("Toolchain check:")

	p, _, err := loadProject()
	if err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return
	}

	// The build tool itself is an implicit requirement.
	reqs := p.Toolchain
	switch p.Build.Tool {
	case manifest.ToolCargo:
		if !declaresTool(reqs, "cargo") {
			reqs = append([]manifest.ToolRequirement{{Name: "cargo"}}, reqs...)
		}
	case manifest.ToolCommand:
		if len(p.Build.Args) > 0 {
			argv0 := p.Build.Args[0]
			if !strings.Contains(argv0, "{") && !declaresTool(reqs, argv0) {
				reqs = append([]manifest.ToolRequirement{{Name: argv0}}, reqs...)
			}
		}
	}

	if len(reqs) == 0 {
		fmt.Println("  [INFO] No tools declared")
		return
	}

	for _, s := range toolchain.Check(ctx, reqs) {
		name := s.Requirement.Name
		switch {
		case !s.Found:
			fmt.Printf("  [MISS] %s not found\n", name)
		case s.Err != nil:
			fmt.Printf("  [FAIL] %s: %v\n", name, s.Err)
		case !s.Satisfied:
			fmt.Printf("  [WARN] %s %s is below minimum %s\n", name, s.Version, s.Requirement.MinVersion)
		case s.Version != "":
			fmt.Printf("  [ OK ] %s %s found at %s\n", name, s.Version, s.Path)
		default:
			fmt.Printf("  [ OK ] %s found at %s\n", name, s.Path)
		}
	}
}

func declaresTool(reqs []manifest.ToolRequirement, name string) bool {
	for _, r := range reqs {
		if r.Name == name {
			return true
		}
	}
	return false
}
