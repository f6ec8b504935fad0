package model

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// WireID is a field id as it crosses the JSON boundary. Owners may send ids
// as numbers or strings; decimal ids without leading zeros are written back as
// numbers so the outbound shape matches what the owner sent.
type WireID string

// UnmarshalJSON accepts JSON strings and numbers.
func (id *WireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = WireID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("model: id must be a string or number: %w", err)
	}
	*id = WireID(n.String())
	return nil
}

// MarshalJSON writes numeric-looking ids as numbers.
func (id WireID) MarshalJSON() ([]byte, error) {
	if isCanonicalInteger(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func isCanonicalInteger(s string) bool {
	if s == "" || len(s) > 15 {
		return false
	}
	if s != "0" && s[0] == '0' {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// WireField is the boundary shape exchanged with the owning application.
type WireField struct {
	ID       WireID           `json:"id"`
	Name     string           `json:"field_name"`
	Label    string           `json:"field_label"`
	Type     FieldType        `json:"field_type"`
	Required bool             `json:"is_required"`
	Options  []string         `json:"options"`
	Order    int              `json:"order"`
	HelpText string           `json:"help_text,omitempty"`
	File     *FileConstraints `json:"file_constraints,omitempty"`
	Locator  string           `json:"file_url,omitempty"`
}

// wireEntry mirrors WireField with pointers so missing attributes can be told
// apart from zero values.
type wireEntry struct {
	ID       *WireID          `json:"id"`
	Name     *string          `json:"field_name"`
	Label    *string          `json:"field_label"`
	Type     *string          `json:"field_type"`
	Required *bool            `json:"is_required"`
	Options  []string         `json:"options"`
	Order    *int             `json:"order"`
	HelpText string           `json:"help_text"`
	File     *FileConstraints `json:"file_constraints"`
	Locator  string           `json:"file_url"`
}

// DecodeSchema parses an inbound schema array. Entries missing id,
// field_name or field_type, carrying an unknown type or reusing an id are
// skipped and reported; the returned error is only set when the payload is not
// a JSON array at all.
func DecodeSchema(data []byte) ([]FieldDefinition, []SchemaError, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("model: decode schema: %w", err)
	}

	fields := make([]FieldDefinition, 0, len(raw))
	var issues []SchemaError
	seen := make(map[string]struct{}, len(raw))

	for idx, item := range raw {
		var entry wireEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			issues = append(issues, SchemaError{Index: idx, Err: err})
			continue
		}
		field, issue, ok := entry.definition(idx)
		if !ok {
			issues = append(issues, issue)
			continue
		}
		if _, dup := seen[field.ID]; dup {
			issues = append(issues, SchemaError{Index: idx, ID: field.ID, Attribute: "id", Err: ErrDuplicateID})
			continue
		}
		seen[field.ID] = struct{}{}
		fields = append(fields, field)
	}
	return fields, issues, nil
}

func (e wireEntry) definition(idx int) (FieldDefinition, SchemaError, bool) {
	id := ""
	if e.ID != nil {
		id = string(*e.ID)
	}
	if id == "" {
		return FieldDefinition{}, SchemaError{Index: idx, Attribute: "id", Err: ErrMissingAttribute}, false
	}
	if e.Name == nil || strings.TrimSpace(*e.Name) == "" {
		return FieldDefinition{}, SchemaError{Index: idx, ID: id, Attribute: "field_name", Err: ErrMissingAttribute}, false
	}
	if e.Type == nil || strings.TrimSpace(*e.Type) == "" {
		return FieldDefinition{}, SchemaError{Index: idx, ID: id, Attribute: "field_type", Err: ErrMissingAttribute}, false
	}
	fieldType := FieldType(strings.ToLower(strings.TrimSpace(*e.Type)))
	if !fieldType.Valid() {
		return FieldDefinition{}, SchemaError{Index: idx, ID: id, Attribute: "field_type", Err: fmt.Errorf("%w %q", ErrUnknownType, *e.Type)}, false
	}

	field := FieldDefinition{
		ID:       id,
		Name:     strings.TrimSpace(*e.Name),
		Type:     fieldType,
		Options:  []string{},
		Order:    idx,
		HelpText: e.HelpText,
		Locator:  strings.TrimSpace(e.Locator),
	}
	if e.Label != nil {
		field.Label = *e.Label
	}
	if e.Required != nil {
		field.Required = *e.Required
	}
	if e.Order != nil {
		field.Order = *e.Order
	}
	if fieldType.IsChoice() && len(e.Options) > 0 {
		field.Options = append(field.Options, e.Options...)
	}
	if fieldType == FieldTypeFile {
		field.File = e.File.Clone()
	}
	return field, SchemaError{}, true
}

// ToWire converts a definition into its boundary shape.
func ToWire(field FieldDefinition) WireField {
	options := field.Options
	if options == nil {
		options = []string{}
	}
	return WireField{
		ID:       WireID(field.ID),
		Name:     field.Name,
		Label:    field.Label,
		Type:     field.Type,
		Required: field.Required,
		Options:  append([]string{}, options...),
		Order:    field.Order,
		HelpText: field.HelpText,
		File:     field.File.Clone(),
		Locator:  field.Locator,
	}
}

// ToWireSchema converts a whole schema, preserving list order.
func ToWireSchema(fields []FieldDefinition) []WireField {
	out := make([]WireField, len(fields))
	for i, field := range fields {
		out[i] = ToWire(field)
	}
	return out
}

// EncodeSchema serialises a schema into the outbound JSON array.
func EncodeSchema(fields []FieldDefinition) ([]byte, error) {
	payload, err := json.Marshal(ToWireSchema(fields))
	if err != nil {
		return nil, fmt.Errorf("model: encode schema: %w", err)
	}
	return payload, nil
}
