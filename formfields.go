// Package formfields is the convenience entry point to the dynamic field
// schema engine: load an authored schema, render it for filling, validate
// submissions and present stored values.
package formfields

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formfields/internal/loader"
	"github.com/goliatone/go-formfields/pkg/form"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/openapi"
	"github.com/goliatone/go-formfields/pkg/orchestrator"
	"github.com/goliatone/go-formfields/pkg/presenter"
	"github.com/goliatone/go-formfields/pkg/render"
	"github.com/goliatone/go-formfields/pkg/renderers/vanilla"
	"github.com/goliatone/go-formfields/pkg/validation"
)

type (
	FieldDefinition = model.FieldDefinition
	FieldType       = model.FieldType
	Values          = model.Values
	FileRef         = model.FileRef
	FileConstraints = model.FileConstraints
	FieldErrors     = model.FieldErrors
	SchemaError     = model.SchemaError
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for partial rendering.
type FieldSubset = render.FieldSubset

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// LoadSchema reads a JSON or YAML schema from a file path or http(s) URL.
// Malformed entries are returned as issues and left out of the fields.
func LoadSchema(ctx context.Context, location string) ([]FieldDefinition, []SchemaError, error) {
	return loader.New(loader.WithHTTP(true)).LoadSchema(ctx, loader.SourceFromLocation(location))
}

// ParseSchema decodes a JSON or YAML schema document.
func ParseSchema(data []byte) ([]FieldDefinition, []SchemaError, error) {
	return model.ParseSchema(data, "input")
}

// EncodeSchema serialises fields into the outbound wire shape.
func EncodeSchema(fields []FieldDefinition) ([]byte, error) {
	return model.EncodeSchema(fields)
}

// RenderHTML renders the fill-time HTML form with the vanilla renderer.
func RenderHTML(ctx context.Context, fields []FieldDefinition, opts RenderOptions) ([]byte, error) {
	return orchestrator.New().Generate(ctx, orchestrator.Request{
		Fields:        fields,
		RenderOptions: opts,
	})
}

// NewForm starts fill-time state for fields, validating in locale.
func NewForm(fields []FieldDefinition, values Values, locale string) *form.Form {
	return form.New(fields, values, form.WithValidator(validation.New(validation.WithLocale(locale))))
}

// Validate checks values against fields and returns the failures keyed by
// field id, empty when the submission is acceptable.
func Validate(fields []FieldDefinition, values Values, locale string) FieldErrors {
	_, errs := validation.New(validation.WithLocale(locale)).Validate(fields, values)
	return errs
}

// Present renders stored values read-only as HTML.
func Present(ctx context.Context, fields []FieldDefinition, values Values, locale string) ([]byte, error) {
	p, err := presenter.New(presenter.WithLocale(locale))
	if err != nil {
		return nil, err
	}
	return p.HTML(ctx, fields, values)
}

// PresentText renders stored values read-only as plain text.
func PresentText(fields []FieldDefinition, values Values, locale string) (string, error) {
	p, err := presenter.New(presenter.WithLocale(locale))
	if err != nil {
		return "", err
	}
	return p.Text(fields, values), nil
}

// ExportOpenAPI describes the submission payload for fields as an OpenAPI
// document encoded as "json" or "yaml".
func ExportOpenAPI(ctx context.Context, fields []FieldDefinition, format string, options ...openapi.Option) ([]byte, error) {
	doc, err := openapi.Document(ctx, fields, options...)
	if err != nil {
		return nil, err
	}
	return openapi.Marshal(doc, format)
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// PresenterTemplates exposes the built-in read-only display templates.
func PresenterTemplates() fs.FS {
	return presenter.TemplatesFS()
}
