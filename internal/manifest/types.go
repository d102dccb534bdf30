package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Project is the root of a parsed stride.yaml manifest.
type Project struct {
	Name        string            `yaml:"name" json:"name"`
	Version     string            `yaml:"version,omitempty" json:"version,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Apps        AppsSection       `yaml:"apps" json:"apps"`
	Linker      LinkerSection     `yaml:"linker" json:"linker"`
	Layout      LayoutSection     `yaml:"layout" json:"layout"`
	Build       BuildSection      `yaml:"build" json:"build"`
	Toolchain   []ToolRequirement `yaml:"toolchain,omitempty" json:"toolchain,omitempty"`
	Image       *ImageSection     `yaml:"image,omitempty" json:"image,omitempty"`
	Embed       *EmbedSection     `yaml:"embed,omitempty" json:"embed,omitempty"`
}

// AppsSection points at the directory of application sources.
type AppsSection struct {
	Dir string `yaml:"dir" json:"dir"`
}

// LinkerSection points at the shared linker script template.
type LinkerSection struct {
	Script string `yaml:"script" json:"script"`
}

// LayoutSection declares the address layout applied across applications.
// The i-th application (in sorted name order) is linked at
// base_address + step*i.
type LayoutSection struct {
	BaseAddress HexAddr `yaml:"base_address" json:"base_address"`
	Step        HexAddr `yaml:"step" json:"step"`
}

// BuildSection declares the external tool that builds one application.
type BuildSection struct {
	Tool    string   `yaml:"tool" json:"tool"`
	Profile string   `yaml:"profile,omitempty" json:"profile,omitempty"`
	Target  string   `yaml:"target,omitempty" json:"target,omitempty"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
}

// ToolRequirement declares an external CLI tool the build depends on.
type ToolRequirement struct {
	Name       string `yaml:"name" json:"name"`
	MinVersion string `yaml:"min_version,omitempty" json:"min_version,omitempty"`
}

// ImageSection configures ELF-to-flat-image conversion of built applications.
type ImageSection struct {
	Dir    string `yaml:"dir" json:"dir"`
	Suffix string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
}

// EmbedSection configures generation of the embedding assembly file that
// exposes the application table to a loading kernel.
type EmbedSection struct {
	Output string `yaml:"output" json:"output"`
	Images bool   `yaml:"images,omitempty" json:"images,omitempty"`
}

// Build tool constants for the tool discriminator field.
const (
	ToolCargo   = "cargo"
	ToolCommand = "command"
)

// ValidTools contains all valid build tool values.
var ValidTools = []string{
	ToolCargo,
	ToolCommand,
}

// HexAddr is a memory address or size parsed from YAML. It accepts
// "0x"-prefixed hex literals (quoted or bare) and plain decimal integers,
// and renders back as the lowercase unpadded hex literal form used for
// linker script substitution.
type HexAddr uint64

// Hex returns the canonical lowercase literal, e.g. 0x80400000.
func (a HexAddr) Hex() string {
	return fmt.Sprintf("%#x", uint64(a))
}

func (a HexAddr) String() string {
	return a.Hex()
}

// UnmarshalYAML parses scalar values in hex (0x...), decimal, octal (0o...),
// or binary (0b...) notation.
func (a *HexAddr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("address must be a scalar, got %s", kindName(node.Kind))
	}
	s := strings.TrimSpace(node.Value)
	if s == "" {
		return fmt.Errorf("address must not be empty")
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return fmt.Errorf("parsing address %q: %w", node.Value, err)
	}
	*a = HexAddr(v)
	return nil
}

// MarshalYAML renders the address as a quoted hex literal so round-tripped
// manifests keep the notation humans wrote.
func (a HexAddr) MarshalYAML() (interface{}, error) {
	return a.Hex(), nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
