// Package embedgen generates the assembly stub that embeds built application
// images into a kernel data section. The stub exports _num_app followed by a
// quadword table: the application count, each application's start symbol, and
// the final application's end symbol. One .incbin stanza per image supplies
// the payload bytes.
package embedgen

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// AppImage is one application payload to embed, in load order. Index must
// match the entry's position in the slice.
type AppImage struct {
	Index int
	Name  string
	Path  string
}

const stubTemplate = `    .align 3
    .section .data
    .global _num_app
_num_app:
    .quad {{len .Apps}}
{{- range .Apps}}
    .quad app_{{.Index}}_start
{{- end}}
{{- with .Last}}
    .quad app_{{.Index}}_end
{{- end}}
{{range .Apps}}
    .section .data
    .global app_{{.Index}}_start
    .global app_{{.Index}}_end
app_{{.Index}}_start:
    .incbin "{{.Path}}"
app_{{.Index}}_end:
{{end -}}
`

var tmpl = template.Must(template.New("embed-stub").Parse(stubTemplate))

type stubData struct {
	Apps []AppImage
}

func (d stubData) Last() *AppImage {
	if len(d.Apps) == 0 {
		return nil
	}
	return &d.Apps[len(d.Apps)-1]
}

// Render produces the assembly stub for the given images.
func Render(apps []AppImage) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, stubData{Apps: apps}); err != nil {
		return nil, fmt.Errorf("rendering embed stub: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the stub for the given images and writes it to path.
func WriteFile(path string, apps []AppImage) error {
	data, err := Render(apps)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing embed stub %s: %w", path, err)
	}
	return nil
}
