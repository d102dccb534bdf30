package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/stride-build/stride/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys the CLI reads. Other keys are stored but never consulted.
const (
	// KeyCargoPath overrides the cargo binary used by builds
	// (STRIDE_CARGO_PATH).
	KeyCargoPath = "cargo_path"
	// KeyDefaultManifest is the manifest path used when the working
	// directory has none (STRIDE_DEFAULT_MANIFEST).
	KeyDefaultManifest = "default_manifest"
)

// Known returns the keys the CLI reads, each with a short description.
func Known() map[string]string {
	return map[string]string{
		KeyCargoPath:       "path to the cargo binary used for builds",
		KeyDefaultManifest: "manifest used when the working directory has none",
	}
}

// IsKnown reports whether the CLI reads the given key.
func IsKnown(key string) bool {
	_, ok := Known()[key]
	return ok
}

// Dir returns the path to the Stride config directory (~/.stride/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.stride/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Environment variables use the STRIDE_ prefix and take precedence over
// values in the file.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// A missing config file just means nothing has been set yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	if err := viper.WriteConfigAs(FilePath()); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// All returns every configured key with its effective value. Known keys set
// only through the environment are included; AutomaticEnv does not register
// them with Viper, so they are probed explicitly.
func All() map[string]string {
	out := make(map[string]string)
	for _, key := range viper.AllKeys() {
		out[key] = viper.GetString(key)
	}
	for key := range Known() {
		if _, present := out[key]; present {
			continue
		}
		if v := viper.GetString(key); v != "" {
			out[key] = v
		}
	}
	return out
}
