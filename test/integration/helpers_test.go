//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stride-build/stride/internal/manifest"
	"github.com/stride-build/stride/internal/scaffold"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	ProjectDir string // the project under test
	BinDir     string // prepended to PATH; fake build tools live here
	SnapDir    string // per-application linker script snapshots taken by the fake tools
	LogFile    string // one line per fake tool invocation
}

// setupTestEnv creates isolated temp directories and wires the environment so
// fake build tools on PATH can record what they were called with and what the
// linker script looked like at the time. The env vars are restored after the
// test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake build tools are shell scripts")
	}

	env := &testEnv{
		ProjectDir: t.TempDir(),
		BinDir:     t.TempDir(),
		SnapDir:    t.TempDir(),
	}
	env.LogFile = filepath.Join(env.SnapDir, "invocations.log")

	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("STRIDE_TEST_LOG", env.LogFile)
	t.Setenv("STRIDE_TEST_SNAPSHOTS", env.SnapDir)
	t.Setenv("STRIDE_TEST_SCRIPT", "")
	t.Setenv("STRIDE_TEST_FAIL_APP", "")
	t.Setenv("STRIDE_TEST_FAIL_CODE", "")

	return env
}

// installFakeCargo places a cargo stand-in in env.BinDir. The script records
// each invocation in env.LogFile, snapshots STRIDE_TEST_SCRIPT into
// env.SnapDir under the name of the --bin argument, and exits with
// STRIDE_TEST_FAIL_CODE when the --bin argument equals STRIDE_TEST_FAIL_APP.
func installFakeCargo(t *testing.T, env *testEnv) {
	t.Helper()

	script := `#!/bin/sh
app=""
prev=""
for arg in "$@"; do
    if [ "$prev" = "--bin" ]; then
        app="$arg"
    fi
    prev="$arg"
done
printf '%s\n' "$*" >> "$STRIDE_TEST_LOG"
if [ -n "$STRIDE_TEST_SCRIPT" ] && [ -n "$app" ]; then
    cp "$STRIDE_TEST_SCRIPT" "$STRIDE_TEST_SNAPSHOTS/$app.ld"
fi
if [ -n "$STRIDE_TEST_FAIL_APP" ] && [ "$app" = "$STRIDE_TEST_FAIL_APP" ]; then
    exit "${STRIDE_TEST_FAIL_CODE:-1}"
fi
exit 0
`
	writeExecutable(t, filepath.Join(env.BinDir, "cargo"), script)
}

// installFakeTool places a generic build tool stand-in in env.BinDir that
// treats its first argument as the application name. Used for manifests with
// tool: command.
func installFakeTool(t *testing.T, env *testEnv, name string) {
	t.Helper()

	script := `#!/bin/sh
app="$1"
printf '%s\n' "$*" >> "$STRIDE_TEST_LOG"
if [ -n "$STRIDE_TEST_SCRIPT" ] && [ -n "$app" ]; then
    cp "$STRIDE_TEST_SCRIPT" "$STRIDE_TEST_SNAPSHOTS/$app.ld"
fi
exit 0
`
	writeExecutable(t, filepath.Join(env.BinDir, name), script)
}

// scaffoldDemoProject generates a project with the default layout in
// env.ProjectDir and loads its manifest. Returns the project and its root.
func scaffoldDemoProject(t *testing.T, env *testEnv) (*manifest.Project, string) {
	t.Helper()

	data := scaffold.NewProjectData("demo")
	if _, err := scaffold.GenerateProject(data, env.ProjectDir); err != nil {
		t.Fatalf("GenerateProject: %v", err)
	}

	path, err := manifest.Locate(env.ProjectDir, "")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	p, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p, filepath.Dir(path)
}

// addApp scaffolds one application source into the project's apps directory.
func addApp(t *testing.T, p *manifest.Project, root, name string) {
	t.Helper()
	if _, err := scaffold.GenerateApp(&scaffold.Data{Name: name}, p.AppsDir(root)); err != nil {
		t.Fatalf("GenerateApp(%s): %v", name, err)
	}
}

// invocationLines returns the fake tool invocation log, one entry per line.
// Returns nil when no tool ran.
func invocationLines(t *testing.T, env *testEnv) []string {
	t.Helper()
	data, err := os.ReadFile(env.LogFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading %s: %v", env.LogFile, err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// writeExecutable creates an executable script at the given path.
func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// readFile returns the file content as a string.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertFileNotContains fails if the file doesn't exist or contains substr.
func assertFileNotContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if strings.Contains(string(data), substr) {
		t.Errorf("file %s contains %q but should not.\nContents:\n%s", path, substr, string(data))
	}
}
