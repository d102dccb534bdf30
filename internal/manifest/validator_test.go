package manifest

import (
	"testing"
)

func TestValidateFile_ValidManifests(t *testing.T) {
	validFiles := []string{
		"valid-cargo.yaml",
		"valid-command.yaml",
		"valid-bare-int.yaml",
	}

	for _, file := range validFiles {
		t.Run(file, func(t *testing.T) {
			result, err := ValidateFile(testPath(file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) error: %v", file, err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got invalid with %d issues:", len(result.Issues))
				for _, issue := range result.Issues {
					t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
			}
		})
	}
}

func TestValidateFile_InvalidManifests(t *testing.T) {
	invalidFiles := []struct {
		file string
		desc string
	}{
		{"invalid-missing-name.yaml", "missing required name field"},
		{"invalid-bad-name-pattern.yaml", "name violates pattern"},
		{"invalid-bad-tool.yaml", "tool not in enum"},
		{"invalid-bad-address.yaml", "malformed address literal"},
		{"invalid-negative-step.yaml", "negative step"},
		{"invalid-missing-layout.yaml", "missing layout section"},
	}

	for _, tt := range invalidFiles {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateFile(testPath(tt.file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Errorf("expected invalid for %s (%s), but got valid", tt.file, tt.desc)
			}
			if len(result.Issues) == 0 {
				t.Errorf("expected at least one issue for %s (%s)", tt.file, tt.desc)
			}
		})
	}
}

func TestValidateFile_InvalidYAML(t *testing.T) {
	_, err := ValidateFile(testPath("invalid-not-yaml.yaml"))
	if err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}

func TestValidateFile_NotFound(t *testing.T) {
	_, err := ValidateFile(testPath("nonexistent.yaml"))
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestValidate_IssueFields(t *testing.T) {
	result, err := ValidateFile(testPath("invalid-bad-address.yaml"))
	if err != nil {
		t.Fatalf("ValidateFile error: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}

	// At least one issue should have a non-empty message.
	hasMessage := false
	for _, issue := range result.Issues {
		if issue.Message != "" {
			hasMessage = true
			break
		}
	}
	if !hasMessage {
		t.Error("expected at least one issue with a non-empty message")
	}
}

func TestValidate_SchemaCompiles(t *testing.T) {
	// Verify the embedded schema can be compiled.
	schema, err := compileSchema()
	if err != nil {
		t.Fatalf("compileSchema() error: %v", err)
	}
	if schema == nil {
		t.Fatal("compileSchema() returned nil schema")
	}
}

func TestValidationIssue_String(t *testing.T) {
	tests := []struct {
		name  string
		issue ValidationIssue
		want  string
	}{
		{"with path", ValidationIssue{Path: "/layout/step", Message: "got string, want integer"}, "/layout/step: got string, want integer"},
		{"document level", ValidationIssue{Message: "missing property 'name'"}, "missing property 'name'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate_SchemaAgreesWithLoad(t *testing.T) {
	// Anything the schema accepts must also load without semantic errors.
	validFiles := []string{
		"valid-cargo.yaml",
		"valid-command.yaml",
		"valid-bare-int.yaml",
	}

	for _, file := range validFiles {
		t.Run(file, func(t *testing.T) {
			result, err := ValidateFile(testPath(file))
			if err != nil {
				t.Fatalf("ValidateFile error: %v", err)
			}
			if !result.Valid {
				t.Fatal("fixture should pass schema validation")
			}
			if _, err := Load(testPath(file)); err != nil {
				t.Errorf("schema-valid manifest failed to load: %v", err)
			}
		})
	}
}
