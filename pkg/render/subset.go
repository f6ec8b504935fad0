package render

import (
	"strings"

	"github.com/goliatone/go-formfields/pkg/model"
)

// FieldSubset selects the fields a renderer should emit. A field matches when
// it matches any non-empty criterion; an empty subset selects everything.
type FieldSubset struct {
	IDs          []string
	Names        []string
	Types        []model.FieldType
	RequiredOnly bool
}

// Empty reports whether the subset has no criteria.
func (s FieldSubset) Empty() bool {
	return len(s.IDs) == 0 && len(s.Names) == 0 && len(s.Types) == 0 && !s.RequiredOnly
}

// ApplySubset filters fields, preserving order. The input is not modified.
func ApplySubset(fields []model.FieldDefinition, subset FieldSubset) []model.FieldDefinition {
	if subset.Empty() {
		return fields
	}

	ids := tokenSet(subset.IDs, false)
	names := tokenSet(subset.Names, true)
	types := make(map[model.FieldType]struct{}, len(subset.Types))
	for _, t := range subset.Types {
		types[model.FieldType(strings.ToLower(string(t)))] = struct{}{}
	}
	listed := len(ids) > 0 || len(names) > 0 || len(types) > 0

	out := make([]model.FieldDefinition, 0, len(fields))
	for _, field := range fields {
		if subset.RequiredOnly && !field.Required {
			continue
		}
		if listed && !matchesAny(field, ids, names, types) {
			continue
		}
		out = append(out, field)
	}
	return out
}

func matchesAny(field model.FieldDefinition, ids, names map[string]struct{}, types map[model.FieldType]struct{}) bool {
	if _, ok := ids[field.ID]; ok {
		return true
	}
	if _, ok := names[strings.ToLower(field.Name)]; ok {
		return true
	}
	_, ok := types[field.Type]
	return ok
}

// ParseTokenList splits a comma or whitespace separated list, dropping blanks.
func ParseTokenList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := parts[:0]
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func tokenSet(values []string, lower bool) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		token := strings.TrimSpace(value)
		if lower {
			token = strings.ToLower(token)
		}
		if token != "" {
			out[token] = struct{}{}
		}
	}
	return out
}
