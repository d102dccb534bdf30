// Package branding provides compile-time identity values for the CLI.
//
// Forks edit branding.yaml in this package and rebuild; Go's //go:embed
// bakes the values into the binary. Every user-visible surface (command
// name, config directory, env prefix) reads from here, so a rename never
// touches the rest of the tree.
package branding

import (
	_ "embed"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "stride",
			DisplayName: "Stride",
			Description: "Build bare-metal applications at staggered load addresses",
			HomeDir:     ".stride",
			EnvPrefix:   "STRIDE",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "stride").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Stride").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".stride").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "STRIDE").
func EnvPrefix() string { load(); return defaults.EnvPrefix }
