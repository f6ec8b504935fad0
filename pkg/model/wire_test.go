package model_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfields/pkg/model"
)

func TestDecodeSchemaSkipsMalformedEntries(t *testing.T) {
	payload := []byte(`[
		{"id": 1, "field_name": "niveau", "field_label": "Niveau d'études", "field_type": "select", "is_required": true, "options": ["Bac", "Licence"], "order": 0},
		{"id": 2, "field_label": "No name", "field_type": "text"},
		{"field_name": "orphan", "field_type": "text"},
		{"id": "3", "field_name": "bio", "field_type": "hologram"},
		{"id": "abc", "field_name": "notes", "field_type": "TEXTAREA", "options": ["ignored"]},
		{"id": 1, "field_name": "dup", "field_type": "text"}
	]`)

	fields, issues, err := model.DecodeSchema(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []model.FieldDefinition{
		{ID: "1", Name: "niveau", Label: "Niveau d'études", Type: model.FieldTypeSelect, Required: true, Options: []string{"Bac", "Licence"}, Order: 0},
		{ID: "abc", Name: "notes", Type: model.FieldTypeTextarea, Options: []string{}, Order: 4},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if len(issues) != 4 {
		t.Fatalf("expected 4 schema issues, got %d: %v", len(issues), issues)
	}
	if issues[0].Attribute != "field_name" || !errors.Is(issues[0], model.ErrMissingAttribute) {
		t.Fatalf("unexpected first issue: %+v", issues[0])
	}
	if issues[1].Attribute != "id" {
		t.Fatalf("expected missing id issue, got %+v", issues[1])
	}
	if !errors.Is(issues[2], model.ErrUnknownType) {
		t.Fatalf("expected unknown type issue, got %+v", issues[2])
	}
	if !errors.Is(issues[3], model.ErrDuplicateID) {
		t.Fatalf("expected duplicate id issue, got %+v", issues[3])
	}
}

func TestDecodeSchemaRejectsNonArray(t *testing.T) {
	if _, _, err := model.DecodeSchema([]byte(`{"id": 1}`)); err == nil {
		t.Fatalf("expected error for object payload")
	}
}

func TestEncodeSchemaPreservesNumericIDs(t *testing.T) {
	fields := []model.FieldDefinition{
		{ID: "7", Name: "age", Label: "Age", Type: model.FieldTypeNumber, Order: 0},
		{ID: "fld_x", Name: "city", Label: "City", Type: model.FieldTypeText, Order: 1},
	}
	payload, err := model.EncodeSchema(fields)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := string(payload)
	if !strings.Contains(got, `"id":7`) {
		t.Fatalf("expected numeric id, got %s", got)
	}
	if !strings.Contains(got, `"id":"fld_x"`) {
		t.Fatalf("expected string id, got %s", got)
	}
	if !strings.Contains(got, `"options":[]`) {
		t.Fatalf("expected empty options array, got %s", got)
	}

	decoded, issues, err := model.DecodeSchema(payload)
	if err != nil || len(issues) != 0 {
		t.Fatalf("round trip decode: %v %v", err, issues)
	}
	if diff := cmp.Diff(model.CloneFields(fields), decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSchemaAcceptsYAML(t *testing.T) {
	doc := []byte(`
- id: 10
  field_name: resume
  field_label: Resume
  field_type: file
  is_required: true
  order: 0
  file_constraints:
    max_size: 5242880
    extensions: [".pdf", ".docx"]
- id: 11
  field_name: consent
  field_type: checkbox
  order: 1
`)
	fields, issues, err := model.ParseSchema(doc, "schema.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].File == nil || fields[0].File.MaxSize != 5<<20 {
		t.Fatalf("expected file constraints, got %+v", fields[0].File)
	}
	if fields[1].Label != "" {
		t.Fatalf("missing label should stay blank, got %q", fields[1].Label)
	}
	if fields[1].HasOptions() {
		t.Fatalf("checkbox without options must be boolean")
	}
}

func TestNewFieldIDIsPrefixedAndUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id, err := model.NewFieldID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if !strings.HasPrefix(id, "fld_") {
			t.Fatalf("unexpected id %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestFieldErrorsDeduplicates(t *testing.T) {
	errs := model.FieldErrors{}
	errs.Add("1", " required ")
	errs.Add("1", "required")
	errs.Add("2", "")
	errs.Merge(model.FieldErrors{"3": {"taken"}})

	want := model.FieldErrors{"1": {"required"}, "3": {"taken"}}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if got := errs.IDs(); !cmp.Equal(got, []string{"1", "3"}) {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestDecodeSchemaKeepsBlankLabel(t *testing.T) {
	fields := []model.FieldDefinition{
		{ID: "fld_a", Name: "niveau", Label: "", Type: model.FieldTypeText, Options: []string{}, Order: 0},
		{ID: "fld_b", Name: "notes", Label: "  ", Type: model.FieldTypeTextarea, Options: []string{}, Order: 1},
	}
	payload, err := model.EncodeSchema(fields)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, issues, err := model.DecodeSchema(payload)
	if err != nil || len(issues) != 0 {
		t.Fatalf("decode: %v %v", err, issues)
	}
	if diff := cmp.Diff(fields, decoded); diff != "" {
		t.Fatalf("labels changed on round trip (-want +got):\n%s", diff)
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"date_de_naissance": "Date De Naissance",
		"yearsOfExperience": "Years Of Experience",
		"école_date":        "École Date",
		"niveauÉtudes":      "Niveau Études",
		"address2":          "Address 2",
		"__":                "",
	}
	for name, want := range cases {
		got := model.DefaultLabeler(name)
		if got != want {
			t.Errorf("DefaultLabeler(%q) = %q, want %q", name, got, want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("DefaultLabeler(%q) produced invalid UTF-8 %q", name, got)
		}
	}
}
