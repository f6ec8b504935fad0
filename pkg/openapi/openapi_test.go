package openapi_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/openapi"
	"github.com/goliatone/go-formfields/pkg/render"
	"github.com/goliatone/go-formfields/pkg/testsupport"
)

func TestSubmissionSchema_ApplicationSchema(t *testing.T) {
	schema := openapi.SubmissionSchema(testsupport.ApplicationSchema())

	if got := len(schema.Properties); got != 10 {
		t.Fatalf("expected 10 properties, got %d", got)
	}
	if diff := cmp.Diff([]string{"1", "2", "4", "7", "10"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	niveau := schema.Properties["4"].Value
	if diff := cmp.Diff([]any{"Bac", "Licence", "Master"}, niveau.Enum); diff != "" {
		t.Fatalf("select enum mismatch (-want +got):\n%s", diff)
	}
	if niveau.Nullable || niveau.Title != "Niveau d'études" {
		t.Fatalf("unexpected select schema: nullable=%v title=%q", niveau.Nullable, niveau.Title)
	}
	if niveau.Extensions[openapi.ExtFieldType] != "select" || niveau.Extensions[openapi.ExtFieldName] != "niveau" {
		t.Fatalf("unexpected extensions %v", niveau.Extensions)
	}

	contract := schema.Properties["6"].Value
	if diff := cmp.Diff([]any{"", "CDI", "CDD"}, contract.Enum); diff != "" {
		t.Fatalf("optional radio enum mismatch (-want +got):\n%s", diff)
	}
	if !contract.Nullable {
		t.Fatalf("optional field should be nullable")
	}

	languages := schema.Properties["5"].Value
	if !languages.Type.Is(openapi3.TypeArray) || !languages.UniqueItems {
		t.Fatalf("checkbox group should be a unique array")
	}
	if diff := cmp.Diff([]any{"French", "English", "Spanish"}, languages.Items.Value.Enum); diff != "" {
		t.Fatalf("items enum mismatch (-want +got):\n%s", diff)
	}

	consent := schema.Properties["7"].Value
	if !consent.Type.Is(openapi3.TypeBoolean) || !cmp.Equal([]any{true}, consent.Enum) {
		t.Fatalf("required toggle should only accept true")
	}

	resume := schema.Properties["10"].Value
	if !resume.Type.Is(openapi3.TypeObject) || resume.MinProps != 1 {
		t.Fatalf("required file should be a non-empty object")
	}
	if resume.Extensions[openapi.ExtMaxSize] != int64(5<<20) {
		t.Fatalf("unexpected max size extension %v", resume.Extensions[openapi.ExtMaxSize])
	}
	if resume.Extensions[openapi.ExtOrder] != 9 {
		t.Fatalf("unexpected order extension %v", resume.Extensions[openapi.ExtOrder])
	}
}

func TestVerify_AcceptsSubmittedValues(t *testing.T) {
	fields := testsupport.ApplicationSchema()
	schema := openapi.SubmissionSchema(fields)

	payload, err := render.EncodeSubmission(fields, testsupport.MustLoadValues(t, "application_values.json"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := openapi.Verify(schema, payload); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerify_AcceptsNullOptionalValuesAndWrappedPayload(t *testing.T) {
	fields := testsupport.ApplicationSchema()
	schema := openapi.SubmissionSchema(fields)

	payload := `{"1":"Because.","2":"ada@example.test","3":null,"4":"Bac","5":[],"6":"","7":true,"8":"","9":null,` +
		`"10":{"name":"cv.pdf","size":10,"handle":"blob-10"}}`
	if err := openapi.Verify(schema, []byte(payload)); err != nil {
		t.Fatalf("verify plain: %v", err)
	}

	wrapped := `"` + strings.ReplaceAll(payload, `"`, `\"`) + `"`
	if err := openapi.Verify(schema, []byte(wrapped)); err != nil {
		t.Fatalf("verify wrapped: %v", err)
	}
}

func TestVerify_ReportsViolationsByField(t *testing.T) {
	schema := openapi.SubmissionSchema(testsupport.ApplicationSchema())
	payload := `{"1":"  ","2":"not-an-email","4":"Doctorat","5":["German"],"7":false,"99":"x"}`

	err := openapi.Verify(schema, []byte(payload))
	var payloadErr *openapi.PayloadError
	if !errors.As(err, &payloadErr) {
		t.Fatalf("expected PayloadError, got %v", err)
	}

	want := []string{"1", "10", "2", "4", "5", "7"}
	if diff := cmp.Diff(want, payloadErr.Fields.IDs()); diff != "" {
		t.Fatalf("field ids mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(strings.Join(payloadErr.Fields["10"], " "), "missing") {
		t.Fatalf("expected missing message for 10, got %v", payloadErr.Fields["10"])
	}
	if len(payloadErr.Form) != 1 || !strings.Contains(payloadErr.Form[0], `"99"`) {
		t.Fatalf("expected unsupported property at form level, got %v", payloadErr.Form)
	}
	if !strings.HasPrefix(err.Error(), "openapi: payload does not match schema: 1: ") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestVerify_MalformedPayload(t *testing.T) {
	schema := openapi.SubmissionSchema(testsupport.ApplicationSchema())

	if err := openapi.Verify(schema, []byte(`[1,2]`)); !errors.Is(err, openapi.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if err := openapi.Verify(nil, []byte(`{}`)); err == nil {
		t.Fatalf("expected error for nil schema")
	}
}

func TestDocument_ValidatesAndCarriesMultipartBody(t *testing.T) {
	doc, err := openapi.Document(context.Background(), testsupport.ApplicationSchema(),
		openapi.WithTitle("Application"),
		openapi.WithPath("applications"),
	)
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	item := doc.Paths.Find("/applications")
	if item == nil || item.Post == nil {
		t.Fatalf("expected POST /applications")
	}
	content := item.Post.RequestBody.Value.Content
	if content.Get("application/json") == nil {
		t.Fatalf("expected json body")
	}
	multipart := content.Get("multipart/form-data")
	if multipart == nil {
		t.Fatalf("expected multipart body for file fields")
	}
	if _, ok := multipart.Schema.Value.Properties["10"]; !ok {
		t.Fatalf("expected file part for field 10")
	}
	if item.Post.OperationID != "submitSubmission" || doc.Info.Title != "Application" {
		t.Fatalf("unexpected metadata %q %q", item.Post.OperationID, doc.Info.Title)
	}
}

func TestDocument_NoMultipartWithoutFiles(t *testing.T) {
	doc, err := openapi.Document(context.Background(), testsupport.ApplicationSchema()[:3])
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.Paths.Find(openapi.DefaultPath).Post.RequestBody.Value.Content.Get("multipart/form-data") != nil {
		t.Fatalf("unexpected multipart body")
	}
}

func TestFields_RoundTripThroughEncodedDocument(t *testing.T) {
	fields := testsupport.ApplicationSchema()
	doc, err := openapi.Document(context.Background(), fields)
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			data, err := openapi.Marshal(doc, format)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			parsed, err := openapi.Parse(context.Background(), data)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got, issues, err := openapi.Fields(parsed, "")
			if err != nil {
				t.Fatalf("fields: %v", err)
			}
			if len(issues) > 0 {
				t.Fatalf("unexpected issues %v", issues)
			}
			if diff := cmp.Diff(fields, got); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFieldsFromSchema_InMemory(t *testing.T) {
	fields := testsupport.ApplicationSchema()
	got, issues := openapi.FieldsFromSchema(openapi.SubmissionSchema(fields))
	if len(issues) > 0 {
		t.Fatalf("unexpected issues %v", issues)
	}
	if diff := cmp.Diff(fields, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsFromSchema_ReportsUnknownTypes(t *testing.T) {
	schema := openapi.SubmissionSchema(testsupport.ApplicationSchema()[:2])
	schema.Properties["2"].Value.Extensions[openapi.ExtFieldType] = "signature"
	schema.Properties["extra"] = openapi3.NewSchemaRef("", openapi3.NewStringSchema())

	got, issues := openapi.FieldsFromSchema(schema)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only field 1, got %+v", got)
	}
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %v", issues)
	}
	if !errors.Is(issues[0], model.ErrUnknownType) || issues[0].ID != "2" {
		t.Fatalf("unexpected first issue %v", issues[0])
	}
	if !errors.Is(issues[1], model.ErrMissingAttribute) || issues[1].ID != "extra" {
		t.Fatalf("unexpected second issue %v", issues[1])
	}
}

func TestMarshal_UnknownFormat(t *testing.T) {
	doc, err := openapi.Document(context.Background(), testsupport.ApplicationSchema()[:1])
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if _, err := openapi.Marshal(doc, "toml"); err == nil {
		t.Fatalf("expected error for toml")
	}
	data, err := openapi.Marshal(doc, "yaml")
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	if !strings.Contains(string(data), "openapi: 3.0.3") {
		t.Fatalf("unexpected yaml:\n%s", data)
	}
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	if _, err := openapi.Parse(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := openapi.Parse(context.Background(), []byte(`{"openapi":"3.0.3"}`)); err == nil {
		t.Fatalf("expected validation error")
	}
}
