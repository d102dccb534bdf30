// Package layout assigns load addresses to applications. The i-th
// application of the sorted list is placed at base + step*i, giving every
// application a disjoint window of step bytes.
package layout

import (
	"fmt"
	"math"

	"github.com/stride-build/stride/internal/apps"
)

// Layout is the address policy from the manifest.
type Layout struct {
	Base uint64
	Step uint64
}

// Assignment binds one application to its load address.
type Assignment struct {
	App     apps.App
	Index   int
	Address uint64
}

// Hex returns the assignment's address as a lowercase hex literal.
func (a Assignment) Hex() string {
	return Hex(a.Address)
}

// Hex renders an address as the lowercase unpadded literal used in linker
// scripts, e.g. 0x80400000.
func Hex(v uint64) string {
	return fmt.Sprintf("%#x", v)
}

// Assign computes the address for each application in list order. The input
// must already be sorted; Assign does not reorder it.
func (l Layout) Assign(list []apps.App) ([]Assignment, error) {
	if l.Step == 0 {
		return nil, fmt.Errorf("step must be greater than zero: all applications would collide at %s", Hex(l.Base))
	}
	if len(list) > 0 {
		last := uint64(len(list) - 1)
		if last > 0 && l.Step > (math.MaxUint64-l.Base)/last {
			return nil, fmt.Errorf("layout overflows the address space: base %s with step %s cannot hold %d applications", Hex(l.Base), Hex(l.Step), len(list))
		}
	}

	assignments := make([]Assignment, len(list))
	for i, app := range list {
		assignments[i] = Assignment{
			App:     app,
			Index:   i,
			Address: l.Base + l.Step*uint64(i),
		}
	}
	return assignments, nil
}
