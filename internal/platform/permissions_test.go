package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWritable(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "linker.ld")
	if err := os.WriteFile(path, []byte("SECTIONS { }"), 0644); err != nil {
		t.Fatal(err)
	}

	if !Writable(path) {
		t.Error("Writable = false for a 0644 file")
	}

	if runtime.GOOS != "windows" && os.Getuid() != 0 {
		if err := os.Chmod(path, 0444); err != nil {
			t.Fatal(err)
		}
		if Writable(path) {
			t.Error("Writable = true for a 0444 file")
		}
	}

	if Writable(filepath.Join(tmp, "missing.ld")) {
		t.Error("Writable = true for a missing file")
	}
}

func TestMakeWritable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}

	tmp := t.TempDir()
	path := filepath.Join(tmp, "linker.ld")
	if err := os.WriteFile(path, []byte("SECTIONS { }"), 0o444); err != nil {
		t.Fatal(err)
	}
	// WriteFile honors umask; force the read-only state.
	if err := os.Chmod(path, 0o444); err != nil {
		t.Fatal(err)
	}

	if err := MakeWritable(path); err != nil {
		t.Fatalf("MakeWritable failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("permissions = %o, want %o", perm, 0o644)
	}
	if !Writable(path) && os.Getuid() != 0 {
		t.Error("file still not writable after MakeWritable")
	}
}

func TestMakeWritableKeepsOtherBits(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}

	tmp := t.TempDir()
	path := filepath.Join(tmp, "build.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0o555); err != nil {
		t.Fatal(err)
	}

	if err := MakeWritable(path); err != nil {
		t.Fatalf("MakeWritable failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o755 {
		t.Errorf("permissions = %o, want %o", perm, 0o755)
	}
}

func TestMakeWritableMissingFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}

	if err := MakeWritable(filepath.Join(t.TempDir(), "missing.ld")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
