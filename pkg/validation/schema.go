package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formfields/pkg/editor"
	"github.com/goliatone/go-formfields/pkg/model"
)

// SchemaIssue is one problem found in an authored schema.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult is the outcome of ValidateSchema, suitable for an
// editor preview.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// Errors groups issues by field id for display next to editor rows.
func (r SchemaValidationResult) Errors() model.FieldErrors {
	if r.Valid {
		return nil
	}
	out := make(model.FieldErrors)
	for _, issue := range r.Issues {
		out.Add(issue.Field, issue.Message)
	}
	return out
}

// ValidateSchema lints a schema before publication: ids and names must be
// unique, names must be sanitized, and select/radio fields need at least one
// non-blank option. Blank or repeated options on any choice field are flagged.
func ValidateSchema(fields []model.FieldDefinition) SchemaValidationResult {
	var issues []SchemaIssue
	add := func(idx int, field model.FieldDefinition, attr, format string, args ...any) {
		issues = append(issues, SchemaIssue{
			Path:    fmt.Sprintf("/%d/%s", idx, attr),
			Field:   field.ID,
			Message: fmt.Sprintf(format, args...),
		})
	}

	ids := make(map[string]struct{}, len(fields))
	names := make(map[string]struct{}, len(fields))
	for idx, field := range fields {
		if strings.TrimSpace(field.ID) == "" {
			add(idx, field, "id", "id is required")
		} else if _, dup := ids[field.ID]; dup {
			add(idx, field, "id", "id %q is used more than once", field.ID)
		}
		ids[field.ID] = struct{}{}

		if !editor.ValidName(field.Name) {
			add(idx, field, "field_name", "name %q must start with a letter and contain only a-z, 0-9 and _", field.Name)
		} else if _, dup := names[field.Name]; dup {
			add(idx, field, "field_name", "name %q is used more than once", field.Name)
		}
		names[field.Name] = struct{}{}

		if !field.Type.Valid() {
			add(idx, field, "field_type", "unknown type %q", field.Type)
			continue
		}
		if !field.Type.IsChoice() {
			continue
		}
		if field.Type != model.FieldTypeCheckbox && !hasNonBlank(field.Options) {
			add(idx, field, "options", "%s fields need at least one option", field.Type)
		}
		seen := make(map[string]struct{}, len(field.Options))
		for i, option := range field.Options {
			attr := fmt.Sprintf("options/%d", i)
			if strings.TrimSpace(option) == "" {
				add(idx, field, attr, "option %d is blank", i+1)
				continue
			}
			if _, dup := seen[option]; dup {
				add(idx, field, attr, "option %q is repeated", option)
			}
			seen[option] = struct{}{}
		}
	}

	return SchemaValidationResult{Valid: len(issues) == 0, Issues: issues}
}

func hasNonBlank(options []string) bool {
	for _, option := range options {
		if strings.TrimSpace(option) != "" {
			return true
		}
	}
	return false
}
