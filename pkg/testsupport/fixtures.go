package testsupport

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfields/pkg/model"
)

//go:embed testdata
var fixtures embed.FS

// Fixture returns the raw bytes of an embedded fixture under testdata/.
func Fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read fixture %q: %v", name, err)
	}
	return data
}

// MustLoadSchema parses an embedded schema fixture (JSON or YAML) and fails the
// test if any entry is malformed.
func MustLoadSchema(t *testing.T, name string) []model.FieldDefinition {
	t.Helper()
	fields, issues, err := model.LoadSchemaFS(fixtures, "testdata/"+name)
	if err != nil {
		t.Fatalf("load schema %q: %v", name, err)
	}
	if len(issues) > 0 {
		t.Fatalf("schema %q has %d malformed entries: %v", name, len(issues), issues[0])
	}
	return fields
}

// MustLoadValues decodes an embedded value map fixture.
func MustLoadValues(t *testing.T, name string) model.Values {
	t.Helper()
	values := model.Values{}
	if err := json.Unmarshal(Fixture(t, name), &values); err != nil {
		t.Fatalf("decode values %q: %v", name, err)
	}
	return values
}

// ApplicationSchema is the recruitment custom-field schema used across
// package tests, built in code so tests can tweak it freely.
func ApplicationSchema() []model.FieldDefinition {
	return []model.FieldDefinition{
		{ID: "1", Name: "motivation", Label: "Motivation", Type: model.FieldTypeTextarea, Required: true, Options: []string{}, Order: 0},
		{ID: "2", Name: "email", Label: "Email", Type: model.FieldTypeEmail, Required: true, Options: []string{}, Order: 1},
		{ID: "3", Name: "phone", Label: "Phone", Type: model.FieldTypeTel, Options: []string{}, Order: 2},
		{ID: "4", Name: "niveau", Label: "Niveau d'études", Type: model.FieldTypeSelect, Required: true, Options: []string{"Bac", "Licence", "Master"}, Order: 3},
		{ID: "5", Name: "languages", Label: "Languages", Type: model.FieldTypeCheckbox, Options: []string{"French", "English", "Spanish"}, Order: 4},
		{ID: "6", Name: "contract", Label: "Contract", Type: model.FieldTypeRadio, Options: []string{"CDI", "CDD"}, Order: 5},
		{ID: "7", Name: "consent", Label: "I agree to be contacted", Type: model.FieldTypeCheckbox, Required: true, Options: []string{}, Order: 6},
		{ID: "8", Name: "experience", Label: "Years of experience", Type: model.FieldTypeNumber, Options: []string{}, Order: 7},
		{ID: "9", Name: "available_from", Label: "Available from", Type: model.FieldTypeDate, Options: []string{}, Order: 8},
		{ID: "10", Name: "resume", Label: "Resume", Type: model.FieldTypeFile, Required: true, Options: []string{}, Order: 9, File: model.ResumeConstraints()},
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file relative to the calling package.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs a render function that also writes to an
// io.Writer and returns both the result and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// Describe renders values compactly for failure messages.
func Describe(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(data)
}
