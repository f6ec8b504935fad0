package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfields/pkg/model"
)

// Transformer rewrites a schema after loading and before rendering.
// Implementations return the fields to render and must not mutate the input.
type Transformer interface {
	Transform(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error) {
	if fn == nil {
		return fields, nil
	}
	return fn(ctx, fields)
}

// PresetTransformer applies declarative overrides loaded from a JSON or YAML
// document. Fields are matched by id first, then by name:
//
//	{
//	  "fields": {
//	    "4": {"label": "Niveau d'études", "help_text": "Plus haut diplôme obtenu"},
//	    "phone": {"hidden": true}
//	  },
//	  "order": ["2", "1"]
//	}
//
// Ids listed in order move to the front in that sequence; the rest keep
// their relative order.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Fields map[string]fieldPatch `json:"fields" yaml:"fields"`
	Order  []string              `json:"order" yaml:"order"`
}

type fieldPatch struct {
	Label    string   `json:"label" yaml:"label"`
	HelpText string   `json:"help_text" yaml:"help_text"`
	Required *bool    `json:"required" yaml:"required"`
	Options  []string `json:"options" yaml:"options"`
	FileURL  string   `json:"file_url" yaml:"file_url"`
	Hidden   bool     `json:"hidden" yaml:"hidden"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		document = presetDocument{}
		if yerr := yaml.Unmarshal(data, &document); yerr != nil {
			return nil, fmt.Errorf("preset transformer: parse document: %w", err)
		}
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches and ordering to a copy of fields.
func (t *PresetTransformer) Transform(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := model.CloneFields(fields)
	hidden := make(map[string]bool)
	for key, patch := range t.document.Fields {
		idx := findField(out, key)
		if idx < 0 {
			return nil, fmt.Errorf("preset transformer: field %q not found", key)
		}
		applyFieldPatch(&out[idx], patch)
		if patch.Hidden {
			hidden[out[idx].ID] = true
		}
	}

	if len(hidden) > 0 {
		out = slices.DeleteFunc(out, func(field model.FieldDefinition) bool {
			return hidden[field.ID]
		})
	}
	if len(t.document.Order) > 0 {
		out = reorder(out, t.document.Order)
	}
	return out, nil
}

func applyFieldPatch(field *model.FieldDefinition, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.HelpText != "" {
		field.HelpText = patch.HelpText
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Options != nil {
		field.Options = slices.Clone(patch.Options)
	}
	if patch.FileURL != "" {
		field.Locator = patch.FileURL
	}
}

func findField(fields []model.FieldDefinition, key string) int {
	key = strings.TrimSpace(key)
	if key == "" {
		return -1
	}
	if idx := slices.IndexFunc(fields, func(f model.FieldDefinition) bool { return f.ID == key }); idx >= 0 {
		return idx
	}
	return slices.IndexFunc(fields, func(f model.FieldDefinition) bool { return f.Name == key })
}

func reorder(fields []model.FieldDefinition, order []string) []model.FieldDefinition {
	out := make([]model.FieldDefinition, 0, len(fields))
	taken := make(map[string]bool, len(order))
	for _, key := range order {
		idx := findField(fields, key)
		if idx < 0 || taken[fields[idx].ID] {
			continue
		}
		taken[fields[idx].ID] = true
		out = append(out, fields[idx])
	}
	for _, field := range fields {
		if !taken[field.ID] {
			out = append(out, field)
		}
	}
	for idx := range out {
		out[idx].Order = idx
	}
	return out
}
