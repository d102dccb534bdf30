// Package image converts built ELF applications into flat binary images:
// the allocatable PROGBITS sections concatenated in file order, with gaps
// between them zero-filled. This is the strip-to-raw-bytes step a loading
// kernel needs before it can copy an application to its run address.
package image

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"
	"sort"
)

type section struct {
	name   string
	addr   uint64
	offset int64
	data   []byte
}

// Extract returns the flat image of the ELF at elfPath. An ELF without any
// allocatable PROGBITS section yields an error: an empty image is always a
// build mistake here.
func Extract(elfPath string) ([]byte, error) {
	f, err := elf.Open(elfPath)
	if err != nil {
		return nil, fmt.Errorf("opening ELF %s: %w", elfPath, err)
	}
	defer f.Close()

	var sections []*section
	for _, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("reading section %s of %s: %w", s.Name, elfPath, err)
		}
		sections = append(sections, &section{
			name:   s.Name,
			addr:   s.Addr,
			offset: int64(s.Offset),
			data:   data,
		})
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("%s has no loadable sections", elfPath)
	}

	sort.Slice(sections, func(i, j int) bool {
		return sections[i].offset < sections[j].offset
	})

	startOffset := sections[0].offset
	for _, s := range sections {
		s.offset -= startOffset
	}

	var buf bytes.Buffer
	for i, s := range sections {
		buf.Write(s.data)
		if i+1 == len(sections) {
			break
		}
		pad := int(sections[i+1].offset-s.offset) - len(s.data)
		if pad < 0 {
			return nil, fmt.Errorf("overlapping sections %s and %s in %s", s.name, sections[i+1].name, elfPath)
		}
		buf.Write(make([]byte, pad))
	}

	return buf.Bytes(), nil
}

// Write extracts the flat image of elfPath and writes it to outPath.
func Write(elfPath, outPath string) error {
	data, err := Extract(elfPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("writing image %s: %w", outPath, err)
	}
	return nil
}
