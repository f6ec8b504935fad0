package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/validation"
)

func TestValidateSchema_Valid(t *testing.T) {
	fields := []model.FieldDefinition{
		{ID: "1", Name: "level", Type: model.FieldTypeSelect, Options: []string{"Bac", "Licence"}},
		{ID: "2", Name: "consent", Type: model.FieldTypeCheckbox},
		{ID: "3", Name: "bio", Type: model.FieldTypeTextarea},
	}
	result := validation.ValidateSchema(fields)
	if !result.Valid {
		t.Fatalf("expected schema to be valid: %#v", result.Issues)
	}
	if result.Errors() != nil {
		t.Fatalf("expected no grouped errors")
	}
}

func TestValidateSchema_Issues(t *testing.T) {
	fields := []model.FieldDefinition{
		{ID: "1", Name: "level", Type: model.FieldTypeSelect, Options: []string{""}},
		{ID: "2", Name: "level", Type: model.FieldTypeRadio, Options: []string{"A", "A"}},
		{ID: "2", Name: "Bad Name", Type: model.FieldTypeText},
		{ID: "4", Name: "other", Type: "slider"},
	}

	result := validation.ValidateSchema(fields)
	if result.Valid {
		t.Fatalf("expected schema to be invalid")
	}

	paths := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		paths = append(paths, issue.Path)
	}
	want := []string{
		"/0/options",
		"/0/options/0",
		"/1/field_name",
		"/1/options/1",
		"/2/id",
		"/2/field_name",
		"/3/field_type",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("issue paths mismatch (-want +got):\n%s", diff)
	}

	grouped := result.Errors()
	if got := len(grouped.For("2")); got != 4 {
		t.Fatalf("expected 4 messages on id 2, got %d: %v", got, grouped.For("2"))
	}
}
