package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// DefaultFileName is the manifest file stride looks for in a project root.
const DefaultFileName = "stride.yaml"

// Defaults applied by Load when the manifest leaves fields empty.
const (
	DefaultProfile     = "release"
	DefaultImageSuffix = ".bin"
)

// Load reads a manifest file, parses it, applies defaults, and runs the
// semantic checks that the JSON Schema cannot express.
func Load(path string) (*Project, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	p.applyDefaults()

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	return &p, nil
}

// Locate resolves the manifest path for a command invocation. An explicit
// path wins; otherwise stride.yaml in dir is used. The returned path is
// guaranteed to exist.
func Locate(dir, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("manifest %s: %w", explicit, err)
		}
		return explicit, nil
	}

	path := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no %s found in %s (run 'stride init' to create one)", DefaultFileName, dir)
	}
	return path, nil
}

// Save writes the manifest to the given path.
func Save(path string, p *Project) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}

	return nil
}

// applyDefaults fills fields that carry documented defaults.
func (p *Project) applyDefaults() {
	if p.Build.Tool == "" {
		p.Build.Tool = ToolCargo
	}
	if p.Build.Profile == "" {
		p.Build.Profile = DefaultProfile
	}
	if p.Image != nil && p.Image.Suffix == "" {
		p.Image.Suffix = DefaultImageSuffix
	}
}

// Validate runs semantic checks that hold for every loaded manifest. It
// assumes defaults have already been applied.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if p.Apps.Dir == "" {
		return fmt.Errorf("apps.dir must not be empty")
	}
	if p.Linker.Script == "" {
		return fmt.Errorf("linker.script must not be empty")
	}
	if p.Layout.Step == 0 {
		return fmt.Errorf("layout.step must be greater than zero")
	}

	switch p.Build.Tool {
	case ToolCargo:
		if len(p.Build.Args) > 0 {
			return fmt.Errorf("build.args is only valid with build.tool %q", ToolCommand)
		}
	case ToolCommand:
		if len(p.Build.Args) == 0 {
			return fmt.Errorf("build.tool %q requires build.args", ToolCommand)
		}
	default:
		return fmt.Errorf("unknown build.tool %q: supported tools are %q and %q", p.Build.Tool, ToolCargo, ToolCommand)
	}

	for _, req := range p.Toolchain {
		if req.Name == "" {
			return fmt.Errorf("toolchain entries require a name")
		}
	}

	if p.Embed != nil && p.Embed.Output == "" {
		return fmt.Errorf("embed.output must not be empty")
	}
	if p.Embed != nil && p.Embed.Images && p.Image == nil {
		return fmt.Errorf("embed.images requires an image section")
	}
	if p.Image != nil && p.Image.Dir == "" {
		return fmt.Errorf("image.dir must not be empty")
	}

	return nil
}

// AppsDir returns the application source directory resolved against the
// project root.
func (p *Project) AppsDir(root string) string {
	return resolve(root, p.Apps.Dir)
}

// LinkerScript returns the linker script path resolved against the project root.
func (p *Project) LinkerScript(root string) string {
	return resolve(root, p.Linker.Script)
}

// ImageDir returns the built-artifact directory resolved against the project
// root. Only valid when the manifest has an image section.
func (p *Project) ImageDir(root string) string {
	return resolve(root, p.Image.Dir)
}

// EmbedOutput returns the embedding assembly output path resolved against the
// project root. Only valid when the manifest has an embed section.
func (p *Project) EmbedOutput(root string) string {
	return resolve(root, p.Embed.Output)
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
