package platform

import (
	"os"
	"runtime"
)

// Writable reports whether the current user can open path for writing.
// Builds patch the linker script in place, so a read-only script is a
// problem worth surfacing before the first patch attempt fails.
func Writable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// MakeWritable adds the owner write bit to the file's current permissions,
// leaving the other bits alone. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func MakeWritable(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode().Perm()|0o200)
}
