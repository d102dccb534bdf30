package toolchain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// versionPattern matches the first version number in a tool's --version
// output, e.g. "1.75.0" in "cargo 1.75.0 (1d8b05cdd 2023-11-20)".
var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.-]+)?`)

// ExtractVersion returns the first version number found in output, or ""
// when there is none.
func ExtractVersion(output string) string {
	return versionPattern.FindString(output)
}

// CompareVersions compares two version strings using semver.
// Returns -1 if installed < required, 0 if equal, 1 if installed > required.
// Handles "v" prefix tolerance (strips leading "v" before parsing).
func CompareVersions(installed, required string) (int, error) {
	iv, err := parseSemver(installed)
	if err != nil {
		return 0, fmt.Errorf("parsing installed version %q: %w", installed, err)
	}
	rv, err := parseSemver(required)
	if err != nil {
		return 0, fmt.Errorf("parsing required version %q: %w", required, err)
	}
	return iv.Compare(rv), nil
}

// MeetsMinimum returns true if installed is at least min.
func MeetsMinimum(installed, min string) (bool, error) {
	cmp, err := CompareVersions(installed, min)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
