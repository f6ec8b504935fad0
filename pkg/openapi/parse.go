package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-formfields/pkg/model"
)

// Parse loads an OpenAPI document from JSON or YAML and validates it.
// External references are not followed.
func Parse(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// Fields reads the field schema back from the components schema called name,
// DefaultSchemaName when empty.
func Fields(doc *openapi3.T, name string) ([]model.FieldDefinition, []model.SchemaError, error) {
	if doc == nil {
		return nil, nil, errors.New("openapi: document is nil")
	}
	if name = strings.TrimSpace(name); name == "" {
		name = DefaultSchemaName
	}
	if doc.Components == nil {
		return nil, nil, fmt.Errorf("openapi: schema %q not found", name)
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, nil, fmt.Errorf("openapi: schema %q not found", name)
	}
	fields, issues := FieldsFromSchema(ref.Value)
	return fields, issues, nil
}

// FieldsFromSchema rebuilds field definitions from a submission schema.
// Properties are ordered by x-order, then by id, and renumbered densely.
// Properties without a supported x-field-type are reported and skipped.
func FieldsFromSchema(schema *openapi3.Schema) ([]model.FieldDefinition, []model.SchemaError) {
	if schema == nil {
		return nil, nil
	}

	type entry struct {
		id    string
		order int64
		value *openapi3.Schema
	}
	entries := make([]entry, 0, len(schema.Properties))
	for id, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		order, ok := toInt(ref.Value.Extensions[ExtOrder])
		if !ok {
			order = math.MaxInt64
		}
		entries = append(entries, entry{id: id, order: order, value: ref.Value})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].id < entries[j].id
	})

	required := make(map[string]bool, len(schema.Required))
	for _, id := range schema.Required {
		required[id] = true
	}

	var (
		fields []model.FieldDefinition
		issues []model.SchemaError
	)
	for idx, item := range entries {
		raw, _ := item.value.Extensions[ExtFieldType].(string)
		fieldType := model.FieldType(strings.ToLower(strings.TrimSpace(raw)))
		if !fieldType.Valid() {
			err := model.ErrUnknownType
			if raw == "" {
				err = model.ErrMissingAttribute
			}
			issues = append(issues, model.SchemaError{Index: idx, ID: item.id, Attribute: ExtFieldType, Err: err})
			continue
		}

		name, _ := item.value.Extensions[ExtFieldName].(string)
		field := model.FieldDefinition{
			ID:       item.id,
			Name:     name,
			Label:    item.value.Title,
			Type:     fieldType,
			Required: required[item.id],
			Options:  optionsOf(item.value),
			Order:    len(fields),
			HelpText: item.value.Description,
			File:     constraintsOf(item.value),
		}
		if field.Name == "" {
			field.Name = item.id
		}
		fields = append(fields, field)
	}
	return fields, issues
}

func optionsOf(schema *openapi3.Schema) []string {
	enum := schema.Enum
	if schema.Items != nil && schema.Items.Value != nil {
		enum = schema.Items.Value.Enum
	}
	out := make([]string, 0, len(enum))
	for _, value := range enum {
		if s, ok := value.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func constraintsOf(schema *openapi3.Schema) *model.FileConstraints {
	maxSize, hasSize := toInt(schema.Extensions[ExtMaxSize])
	extensions := toStrings(schema.Extensions[ExtExtensions])
	if !hasSize && len(extensions) == 0 {
		return nil
	}
	return &model.FileConstraints{MaxSize: maxSize, Extensions: extensions}
}

func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

func toStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
