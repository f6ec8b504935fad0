package render

import (
	"strings"

	"github.com/goliatone/go-formfields/pkg/model"
)

// ErrorMapping splits an owner error payload into field-scoped messages keyed
// by field id and form-level messages that matched no field.
type ErrorMapping struct {
	Fields model.FieldErrors
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload resolves the keys of an owner error payload onto field ids.
// A key may be a field id, a field name, or a path wrapping either
// ("/body/values/email", "custom_fields[3]", "$.data.fld_x"). Keys that match
// no field are kept as form-level messages so nothing is lost.
func MapErrorPayload(fields []model.FieldDefinition, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	index := newFieldIndex(fields)
	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		id, ok := index.resolve(rawPath)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(model.FieldErrors)
		}
		for _, message := range normalized {
			mapping.Fields.Add(id, message)
		}
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

type fieldIndex struct {
	ids   map[string]struct{}
	names map[string]string
}

func newFieldIndex(fields []model.FieldDefinition) fieldIndex {
	idx := fieldIndex{
		ids:   make(map[string]struct{}, len(fields)),
		names: make(map[string]string, len(fields)),
	}
	for _, field := range fields {
		if field.ID == "" {
			continue
		}
		idx.ids[field.ID] = struct{}{}
		if name := strings.TrimSpace(field.Name); name != "" {
			if _, taken := idx.names[name]; !taken {
				idx.names[name] = field.ID
			}
		}
	}
	return idx
}

func (idx fieldIndex) resolve(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if id, ok := idx.match(trimmed); ok {
		return id, true
	}

	segments := dropWrapperSegments(parsePathSegments(trimmed))
	if len(segments) == 0 {
		return "", false
	}
	// Leading segment first ("email.format"), then trailing ("fields.3.email").
	for _, candidate := range []string{segments[0], segments[len(segments)-1]} {
		if id, ok := idx.match(candidate); ok {
			return id, true
		}
	}
	return "", false
}

func (idx fieldIndex) match(key string) (string, bool) {
	if _, ok := idx.ids[key]; ok {
		return key, true
	}
	if id, ok := idx.names[key]; ok {
		return id, true
	}
	return "", false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	clean = strings.NewReplacer("[", ".", "]", "", "//", "/").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.Trim(strings.TrimSpace(part), `"'`)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":          {},
	"request":       {},
	"payload":       {},
	"data":          {},
	"attributes":    {},
	"values":        {},
	"fields":        {},
	"custom_fields": {},
	"errors":        {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
