package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/stride-build/stride/internal/manifest"
)

// Data holds all template variables available to scaffold templates.
type Data struct {
	Name         string // project or application name
	AppsDir      string // e.g. "src/bin"
	LinkerScript string // e.g. "src/linker.ld"
	BaseAddress  string // hex literal, e.g. "0x80400000"
	Step         string // hex literal, e.g. "0x20000"
	Target       string // cargo target triple, may be empty
	Version      string // semver, e.g. "0.1.0"
	Year         int    // current year
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewProjectData creates a Data for a new project with the conventional
// layout filled in: apps under src/bin, the shared linker script at
// src/linker.ld, and the address plan starting at 0x80400000 in 0x20000
// slots.
func NewProjectData(name string) *Data {
	return &Data{
		Name:         name,
		AppsDir:      "src/bin",
		LinkerScript: "src/linker.ld",
		BaseAddress:  "0x80400000",
		Step:         "0x20000",
		Version:      "0.1.0",
		Year:         time.Now().Year(),
	}
}

// GenerateProject creates a new project in outputDir from the embedded
// project template set: the manifest at the directory root, the linker
// script at data.LinkerScript, and an empty apps directory at data.AppsDir.
func GenerateProject(data *Data, outputDir string) (*Result, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check for existing files to prevent accidental overwrites.
	existing, err := os.ReadDir(outputDir)
	if err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{OutputDir: outputDir}

	manifestOut := filepath.Join(outputDir, manifest.DefaultFileName)
	if err := renderTo("scaffolds/project/stride.yaml.tmpl", data, manifestOut); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, manifest.DefaultFileName)

	scriptOut := filepath.Join(outputDir, filepath.FromSlash(data.LinkerScript))
	if err := os.MkdirAll(filepath.Dir(scriptOut), 0755); err != nil {
		return nil, fmt.Errorf("creating linker script directory: %w", err)
	}
	if err := renderTo("scaffolds/project/linker.ld.tmpl", data, scriptOut); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, data.LinkerScript)

	appsOut := filepath.Join(outputDir, filepath.FromSlash(data.AppsDir))
	if err := os.MkdirAll(appsOut, 0755); err != nil {
		return nil, fmt.Errorf("creating apps directory: %w", err)
	}

	// Validate the generated manifest against JSON Schema.
	valResult, valErr := manifest.ValidateFile(manifestOut)
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not validate manifest: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			result.Warnings = append(result.Warnings, issue.String())
		}
	}

	return result, nil
}

// GenerateApp renders a new application source file into appsDir. The file
// is named <name>.rs; an existing file with that name is never overwritten.
func GenerateApp(data *Data, appsDir string) (*Result, error) {
	if err := os.MkdirAll(appsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating apps directory: %w", err)
	}

	outName := data.Name + ".rs"
	outPath := filepath.Join(appsDir, outName)
	if _, err := os.Stat(outPath); err == nil {
		return nil, fmt.Errorf("application %s already exists at %s", data.Name, outPath)
	}

	if err := renderTo("scaffolds/app/app.rs.tmpl", data, outPath); err != nil {
		return nil, err
	}

	return &Result{OutputDir: appsDir, Files: []string{outName}}, nil
}

// render parses and executes one embedded template.
func render(tmplPath string, data *Data) ([]byte, error) {
	tmplBytes, err := scaffoldFS.ReadFile(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
	}

	tmpl, err := template.New(tmplPath).Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", tmplPath, err)
	}
	return buf.Bytes(), nil
}

func renderTo(tmplPath string, data *Data, outPath string) error {
	content, err := render(tmplPath, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
