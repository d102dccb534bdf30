package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/stride.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult is the outcome of checking a manifest against the schema.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one schema violation.
type ValidationIssue struct {
	Path    string // instance location, e.g. "/layout/step" or "/toolchain/0/name"
	Message string
	Keyword string // schema keyword that failed, e.g. "required" or "pattern"
}

// String renders the issue as "<path>: <message>", omitting the path for
// document-level issues.
func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Validate checks raw manifest YAML against the embedded JSON schema. The
// error return covers YAML parse and schema compilation failures only;
// violations of the schema come back as Issues.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// The validator wants a JSON value tree, so round-trip the YAML
	// document through encoding/json.
	jsonData, err := json.Marshal(yamlToJSONValue(doc))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{Issues: flattenIssues(ve)}, nil
}

// ValidateFile reads a manifest file and validates it against the schema.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

// compileSchema compiles the embedded schema once per process.
func compileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("stride.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("stride.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// flattenIssues turns the validation error tree into a deduplicated list of
// leaf issues. Container keywords (oneOf, $ref) carry no detail of their
// own, so only their causes are reported; when nothing informative remains
// the top-level error text is used.
func flattenIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]bool)

	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}

		issue := leafIssue(e)
		switch issue.Keyword {
		case "", "oneOf", "allOf", "$ref":
			return
		}
		key := issue.String() + "|" + issue.Keyword
		if !seen[key] {
			seen[key] = true
			issues = append(issues, issue)
		}
	}
	walk(ve)

	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return issues
}

// leafIssue extracts path, keyword, and localized message from one leaf of
// the error tree.
func leafIssue(e *jsonschema.ValidationError) ValidationIssue {
	issue := ValidationIssue{}
	if len(e.InstanceLocation) > 0 {
		issue.Path = "/" + strings.Join(e.InstanceLocation, "/")
	}
	if e.ErrorKind != nil {
		issue.Message = e.ErrorKind.LocalizedString(printer)
		if kw := e.ErrorKind.KeywordPath(); len(kw) > 0 {
			issue.Keyword = kw[len(kw)-1]
		}
	}
	return issue
}

// yamlToJSONValue rebuilds a YAML-decoded value with plain maps and slices
// so it marshals cleanly to JSON. Scalars pass through unchanged.
func yamlToJSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, child := range val {
			m[k] = yamlToJSONValue(child)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, child := range val {
			a[i] = yamlToJSONValue(child)
		}
		return a
	default:
		return val
	}
}
