// Package ldscript owns the shared linker script template. The template is
// the only file stride mutates in place: one application's build sees a
// patched copy on disk, and the original bytes must be back before anything
// else runs. WithPatched is the only way callers patch, so the restore is
// structural rather than a convention.
package ldscript

import (
	"bytes"
	"fmt"
	"os"
)

// Script is a loaded linker script template. The original bytes are retained
// from Load time; Patch and Restore both derive from them, never from
// whatever is currently on disk.
type Script struct {
	path     string
	original []byte
}

// Load reads the template and retains a pristine copy.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading linker script %s: %w", path, err)
	}
	return &Script{path: path, original: data}, nil
}

// Path returns the template's path.
func (s *Script) Path() string {
	return s.path
}

// Occurrences counts how many times the literal appears in the template.
// Substitution replaces every occurrence, so anything other than exactly one
// is worth surfacing in diagnostics.
func (s *Script) Occurrences(literal string) int {
	return bytes.Count(s.original, []byte(literal))
}

// Patch overwrites the template on disk with every occurrence of old
// replaced by new. Plain text substitution; the script is not parsed.
func (s *Script) Patch(old, new string) error {
	patched := bytes.ReplaceAll(s.original, []byte(old), []byte(new))
	if err := os.WriteFile(s.path, patched, 0644); err != nil {
		return fmt.Errorf("patching linker script %s: %w", s.path, err)
	}
	return nil
}

// Restore overwrites the template on disk with the retained original bytes.
func (s *Script) Restore() error {
	if err := os.WriteFile(s.path, s.original, 0644); err != nil {
		return fmt.Errorf("restoring linker script %s: %w", s.path, err)
	}
	return nil
}

// WithPatched patches the template, runs fn, and restores the original on
// every exit path: normal return, fn error, and panic unwind. A restore
// failure is reported loudly, preserving fn's error when both occur.
func (s *Script) WithPatched(old, new string, fn func() error) (err error) {
	if patchErr := s.Patch(old, new); patchErr != nil {
		// A partial write may have landed; put the original back.
		if restoreErr := s.Restore(); restoreErr != nil {
			return fmt.Errorf("%w (restore also failed: %v)", patchErr, restoreErr)
		}
		return patchErr
	}

	defer func() {
		restoreErr := s.Restore()
		if restoreErr == nil {
			return
		}
		if err != nil {
			err = fmt.Errorf("%w (%v)", err, restoreErr)
			return
		}
		err = restoreErr
	}()

	return fn()
}
