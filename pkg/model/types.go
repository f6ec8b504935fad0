package model

import "slices"

// FieldType enumerates the closed set of field kinds an author can pick.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeFile     FieldType = "file"
)

// FieldTypes lists every supported type in authoring order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeNumber,
		FieldTypeEmail,
		FieldTypeTel,
		FieldTypeDate,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeFile,
	}
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	return slices.Contains(FieldTypes(), t)
}

// IsChoice reports whether the type carries an options list.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio:
		return true
	default:
		return false
	}
}

// FileConstraints restricts what a file field accepts. A zero MaxSize means
// no size limit; an empty Extensions list accepts every extension.
type FileConstraints struct {
	MaxSize    int64    `json:"max_size,omitempty" yaml:"max_size,omitempty"`
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// ResumeConstraints mirrors the limits historically applied to resume uploads:
// 5 MiB, PDF or Word documents only.
func ResumeConstraints() *FileConstraints {
	return &FileConstraints{
		MaxSize:    5 << 20,
		Extensions: []string{".pdf", ".doc", ".docx"},
	}
}

// Clone returns a deep copy of the constraints.
func (c *FileConstraints) Clone() *FileConstraints {
	if c == nil {
		return nil
	}
	return &FileConstraints{
		MaxSize:    c.MaxSize,
		Extensions: slices.Clone(c.Extensions),
	}
}

// FieldDefinition describes one configurable form field.
type FieldDefinition struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Label    string           `json:"label"`
	Type     FieldType        `json:"type"`
	Required bool             `json:"required"`
	Options  []string         `json:"options"`
	Order    int              `json:"order"`
	HelpText string           `json:"helpText,omitempty"`
	File     *FileConstraints `json:"file,omitempty"`
	// Locator is the owner-managed retrieval URL for file fields. It is only
	// populated in fill-time/read-only schemas.
	Locator string `json:"locator,omitempty"`
}

// HasOptions reports whether the field is a choice type with at least one
// option. A checkbox without options is a boolean toggle.
func (f FieldDefinition) HasOptions() bool {
	return f.Type.IsChoice() && len(f.Options) > 0
}

// HasOption reports whether value is one of the field's options.
func (f FieldDefinition) HasOption(value string) bool {
	return slices.Contains(f.Options, value)
}

// Clone returns a deep copy of the definition.
func (f FieldDefinition) Clone() FieldDefinition {
	out := f
	if f.Options != nil {
		out.Options = slices.Clone(f.Options)
	} else {
		out.Options = []string{}
	}
	out.File = f.File.Clone()
	return out
}

// CloneFields deep-copies a schema.
func CloneFields(fields []FieldDefinition) []FieldDefinition {
	out := make([]FieldDefinition, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}

// FindField returns the field with the given id.
func FindField(fields []FieldDefinition, id string) (FieldDefinition, bool) {
	for _, field := range fields {
		if field.ID == id {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// FileRef is the opaque handle stored for a file field. Handle identifies the
// blob in the owner's storage; URL is the owner-managed retrieval locator.
type FileRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	Handle      string `json:"handle,omitempty"`
	URL         string `json:"url,omitempty"`
}

// IsZero reports whether the reference points at nothing.
func (r FileRef) IsZero() bool {
	return r.Name == "" && r.Handle == "" && r.URL == ""
}

// Values maps field ids to captured values. Value shapes depend on the field
// type: string for scalar and single-choice fields, []string for checkbox
// fields with options, bool for checkbox fields without options and FileRef
// for file fields.
type Values map[string]any

// Clone returns a copy of the map; slices are copied, other values shared.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		if list, ok := value.([]string); ok {
			out[key] = slices.Clone(list)
			continue
		}
		out[key] = value
	}
	return out
}
