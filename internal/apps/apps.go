// Package apps enumerates the application sources of a project. Each regular
// file in the apps directory is one independently buildable application; its
// name is the filename up to the first dot. The sorted name order is
// load-bearing: it decides which application receives which address, so two
// runs over an unchanged directory must produce the same list.
package apps

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// namePattern restricts derived application names to what build tools and
// linker symbols can safely carry.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)

// App is one discovered application.
type App struct {
	Name     string // derived name, e.g. "hello_world"
	FileName string // source filename, e.g. "hello_world.rs"
	Path     string // full path to the source file
}

// Discover enumerates dir and returns applications sorted ascending by
// derived name. Subdirectories and dot-prefixed entries are skipped.
// Malformed or duplicate derived names are configuration errors.
func Discover(dir string) ([]App, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading apps directory %s: %w", dir, err)
	}

	var list []App
	byName := make(map[string]string) // name -> first filename claiming it

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileName := entry.Name()
		if strings.HasPrefix(fileName, ".") {
			continue
		}

		name := DeriveName(fileName)
		if !namePattern.MatchString(name) {
			return nil, fmt.Errorf("invalid application name %q derived from %s: must match %s", name, fileName, namePattern.String())
		}
		if prev, dup := byName[name]; dup {
			return nil, fmt.Errorf("duplicate application name %q: %s and %s", name, prev, fileName)
		}
		byName[name] = fileName

		list = append(list, App{
			Name:     name,
			FileName: fileName,
			Path:     filepath.Join(dir, fileName),
		})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return list, nil
}

// ValidName reports whether name is acceptable as an application name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// DeriveName returns the application name for a source filename: everything
// up to the first dot, or the whole filename when there is no dot.
func DeriveName(fileName string) string {
	if i := strings.IndexByte(fileName, '.'); i >= 0 {
		return fileName[:i]
	}
	return fileName
}

// Names returns just the derived names, in list order.
func Names(list []App) []string {
	names := make([]string, len(list))
	for i, a := range list {
		names[i] = a.Name
	}
	return names
}

// Find returns the app with the given derived name, or false.
func Find(list []App, name string) (App, bool) {
	for _, a := range list {
		if a.Name == name {
			return a, true
		}
	}
	return App{}, false
}
