package ldscript

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const templateText = `OUTPUT_ARCH(riscv)
ENTRY(_start)

BASE_ADDRESS = 0x80400000;

SECTIONS
{
    . = BASE_ADDRESS;
    .text : { *(.text.entry) *(.text .text.*) }
}
`

// writeTemplate writes a linker script into a temp dir and returns its path.
func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linker.ld")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestPatch_ReplacesAllOccurrences(t *testing.T) {
	// The literal appears twice; substitution hits both.
	content := "BASE = 0x80400000;\n/* default 0x80400000 */\n"
	path := writeTemplate(t, content)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := s.Patch("0x80400000", "0x80420000"); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}

	got := readBack(t, path)
	if strings.Contains(got, "0x80400000") {
		t.Errorf("old literal still present:\n%s", got)
	}
	if strings.Count(got, "0x80420000") != 2 {
		t.Errorf("expected 2 occurrences of new literal, got %d:\n%s", strings.Count(got, "0x80420000"), got)
	}
}

func TestRestore_BringsBackOriginal(t *testing.T) {
	path := writeTemplate(t, templateText)

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Patch("0x80400000", "0x80440000"); err != nil {
		t.Fatal(err)
	}
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if got := readBack(t, path); got != templateText {
		t.Errorf("restored content differs from original:\n%s", got)
	}
}

func TestWithPatched_RestoresOnSuccess(t *testing.T) {
	path := writeTemplate(t, templateText)

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	var seen string
	err = s.WithPatched("0x80400000", "0x80420000", func() error {
		seen = readBack(t, path)
		return nil
	})
	if err != nil {
		t.Fatalf("WithPatched failed: %v", err)
	}

	if !strings.Contains(seen, "0x80420000") {
		t.Errorf("fn should observe patched template, saw:\n%s", seen)
	}
	if got := readBack(t, path); got != templateText {
		t.Errorf("template not restored after success:\n%s", got)
	}
}

func TestWithPatched_RestoresOnError(t *testing.T) {
	path := writeTemplate(t, templateText)

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	sentinel := errors.New("build exploded")
	err = s.WithPatched("0x80400000", "0x80420000", func() error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected fn error back, got %v", err)
	}

	if got := readBack(t, path); got != templateText {
		t.Errorf("template not restored after fn error:\n%s", got)
	}
}

func TestWithPatched_RestoresOnPanic(t *testing.T) {
	path := writeTemplate(t, templateText)

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	panicked := func() (p bool) {
		defer func() {
			if recover() != nil {
				p = true
			}
		}()
		_ = s.WithPatched("0x80400000", "0x80420000", func() error {
			panic("mid-build crash")
		})
		return false
	}()

	if !panicked {
		t.Fatal("expected the panic to propagate")
	}
	if got := readBack(t, path); got != templateText {
		t.Errorf("template not restored after panic:\n%s", got)
	}
}

func TestWithPatched_NestedIterationsRoundTrip(t *testing.T) {
	// Two sequential iterations over the same template, as the build loop
	// does: each one must leave the file byte-identical.
	path := writeTemplate(t, templateText)

	for _, addr := range []string{"0x80400000", "0x80420000"} {
		s, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.WithPatched("0x80400000", addr, func() error { return nil }); err != nil {
			t.Fatalf("iteration %s: %v", addr, err)
		}
		if got := readBack(t, path); got != templateText {
			t.Fatalf("template differs after iteration %s:\n%s", addr, got)
		}
	}
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"exactly once", templateText, 1},
		{"twice", "A = 0x80400000;\nB = 0x80400000;\n", 2},
		{"absent", "A = 0x80000000;\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(writeTemplate(t, tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if got := s.Occurrences("0x80400000"); got != tt.want {
				t.Errorf("Occurrences = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.ld"))
	if err == nil {
		t.Fatal("expected error for missing template, got nil")
	}
}

func TestWithPatched_RecreatesDeletedTemplate(t *testing.T) {
	// Restore rewrites from the retained bytes, so it survives fn deleting
	// the file out from under it.
	path := writeTemplate(t, templateText)

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	err = s.WithPatched("0x80400000", "0x80420000", func() error {
		return os.Remove(path)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readBack(t, path); got != templateText {
		t.Errorf("template not recreated after deletion:\n%s", got)
	}
}
