package render_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("_csrf", "token123"),
		render.Hidden(" auth_token ", "abc123"),
		render.VersionField("version", 4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing":   "keep",
		"_csrf":      "token123",
		"auth_token": "abc123",
		"version":    "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "auth_token", Value: "abc123"},
		{Name: "existing", Value: "keep"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func submissionFields() []model.FieldDefinition {
	return []model.FieldDefinition{
		{ID: "1", Name: "level", Type: model.FieldTypeSelect, Options: []string{"Bac", "Licence"}},
		{ID: "2", Name: "langs", Type: model.FieldTypeCheckbox, Options: []string{"fr", "en"}},
		{ID: "3", Name: "consent", Type: model.FieldTypeCheckbox},
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	fields := submissionFields()
	values := model.Values{
		"1":     "Licence",
		"2":     []string{"fr", "en"},
		"3":     true,
		"stray": "dropped",
	}

	data, err := render.EncodeSubmission(fields, values)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := render.DecodeSubmission(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.Values{
		"1": "Licence",
		"2": []any{"fr", "en"},
		"3": true,
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("decoded submission mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSubmissionAcceptsStringWrappedPayload(t *testing.T) {
	decoded, err := render.DecodeSubmission([]byte(`"{\"1\":\"Bac\"}"`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(model.Values{"1": "Bac"}, decoded); diff != "" {
		t.Fatalf("decoded submission mismatch (-want +got):\n%s", diff)
	}

	if _, err := render.DecodeSubmission([]byte(`[1,2]`)); err == nil {
		t.Fatalf("expected error for array payload")
	}
}

func TestWriteMultipartSubmission(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := submissionFields()
	err := render.WriteMultipartSubmission(writer, "", fields, model.Values{"1": "Bac"}, map[string]render.Upload{
		"4": {Filename: "cv.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF")},
	})
	if err != nil {
		t.Fatalf("write multipart: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	part, err := reader.NextPart()
	if err != nil {
		t.Fatalf("values part: %v", err)
	}
	if part.FormName() != render.DefaultSubmissionKey {
		t.Fatalf("expected values part first, got %q", part.FormName())
	}
	raw, _ := io.ReadAll(part)
	values, err := render.DecodeSubmission(raw)
	if err != nil {
		t.Fatalf("decode values part: %v", err)
	}
	if values["1"] != "Bac" {
		t.Fatalf("expected Bac, got %v", values["1"])
	}

	part, err = reader.NextPart()
	if err != nil {
		t.Fatalf("upload part: %v", err)
	}
	if part.FormName() != "4" || part.FileName() != "cv.pdf" {
		t.Fatalf("unexpected upload part %q %q", part.FormName(), part.FileName())
	}
	body, _ := io.ReadAll(part)
	if string(body) != "%PDF" {
		t.Fatalf("unexpected upload body %q", body)
	}
}
