package openapi

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
)

// Extension keys carried on every exported property so a schema can be read
// back without loss.
const (
	ExtFieldType  = "x-field-type"
	ExtFieldName  = "x-field-name"
	ExtOrder      = "x-order"
	ExtMaxSize    = "x-max-size"
	ExtExtensions = "x-extensions"
)

const (
	DefaultTitle      = "Form submission"
	DefaultVersion    = "1.0.0"
	DefaultPath       = "/submissions"
	DefaultSchemaName = "Submission"
)

// Option configures an export.
type Option func(*config)

type config struct {
	title      string
	version    string
	path       string
	schemaName string
	registry   *fieldtype.Registry
}

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if title = strings.TrimSpace(title); title != "" {
			cfg.title = title
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(cfg *config) {
		if version = strings.TrimSpace(version); version != "" {
			cfg.version = version
		}
	}
}

// WithPath sets the path of the submit operation.
func WithPath(path string) Option {
	return func(cfg *config) {
		if path = strings.TrimSpace(path); path != "" {
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			cfg.path = path
		}
	}
}

// WithSchemaName names the payload schema under components.schemas.
func WithSchemaName(name string) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.schemaName = name
		}
	}
}

// WithRegistry swaps the field type registry.
func WithRegistry(registry *fieldtype.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{
		title:      DefaultTitle,
		version:    DefaultVersion,
		path:       DefaultPath,
		schemaName: DefaultSchemaName,
		registry:   fieldtype.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// SubmissionSchema describes the value map produced on submit: an object keyed
// by field id. Required fields are listed in required and reject their empty
// value; optional fields accept null.
func SubmissionSchema(fields []model.FieldDefinition, options ...Option) *openapi3.Schema {
	cfg := newConfig(options)

	schema := openapi3.NewObjectSchema().WithoutAdditionalProperties()
	var required []string
	for position, field := range fields {
		if strings.TrimSpace(field.ID) == "" {
			continue
		}
		property := fieldSchema(field, cfg.registry.For(field))
		property.Extensions[ExtOrder] = position
		schema.Properties[field.ID] = openapi3.NewSchemaRef("", property)
		if field.Required {
			required = append(required, field.ID)
		}
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

func fieldSchema(field model.FieldDefinition, variant fieldtype.Variant) *openapi3.Schema {
	var schema *openapi3.Schema

	switch variant.Capture {
	case fieldtype.CaptureSingle:
		schema = openapi3.NewStringSchema()
		enum := make([]any, 0, len(field.Options)+1)
		if !field.Required {
			enum = append(enum, "")
		}
		for _, option := range field.Options {
			if strings.TrimSpace(option) != "" {
				enum = append(enum, option)
			}
		}
		schema.Enum = enum

	case fieldtype.CaptureSubset:
		items := openapi3.NewStringSchema()
		for _, option := range field.Options {
			if strings.TrimSpace(option) != "" {
				items.Enum = append(items.Enum, option)
			}
		}
		schema = openapi3.NewArraySchema().WithItems(items).WithUniqueItems(true)
		if field.Required {
			schema = schema.WithMinItems(1)
		}

	case fieldtype.CaptureBoolean:
		schema = openapi3.NewBoolSchema()
		if field.Required {
			schema.Enum = []any{true}
		}

	case fieldtype.CaptureBinary:
		schema = fileSchema(field)

	default:
		schema = openapi3.NewStringSchema()
		switch variant.Kind {
		case fieldtype.KindEmail:
			schema.Pattern = fieldtype.EmailPattern
		case fieldtype.KindTel:
			schema.Pattern = fieldtype.TelPattern
		case fieldtype.KindDate:
			schema.Format = "date"
		}
		switch {
		case schema.Pattern != "" && !field.Required:
			schema.Pattern = `^\s*$|` + schema.Pattern
		case schema.Pattern == "" && field.Required:
			schema.Pattern = `\S`
		}
	}

	if !field.Required {
		schema.Nullable = true
	}
	schema.Title = render.PlainText(field.Label)
	schema.Description = render.PlainText(field.HelpText)
	schema.Extensions = map[string]any{
		ExtFieldType: string(field.Type),
		ExtFieldName: field.Name,
	}
	if field.File != nil {
		if field.File.MaxSize > 0 {
			schema.Extensions[ExtMaxSize] = field.File.MaxSize
		}
		if len(field.File.Extensions) > 0 {
			schema.Extensions[ExtExtensions] = slices.Clone(field.File.Extensions)
		}
	}
	return schema
}

// fileSchema mirrors model.FileRef.
func fileSchema(field model.FieldDefinition) *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("size", openapi3.NewInt64Schema().WithMin(0)).
		WithProperty("content_type", openapi3.NewStringSchema()).
		WithProperty("handle", openapi3.NewStringSchema()).
		WithProperty("url", openapi3.NewStringSchema())
	if field.Required {
		schema = schema.WithMinProperties(1)
	}
	return schema
}

// Document wraps the submission schema in a complete OpenAPI document with a
// single POST operation. File fields add a multipart/form-data body that
// carries the values as a JSON string part next to one part per file. The
// document is validated before it is returned.
func Document(ctx context.Context, fields []model.FieldDefinition, options ...Option) (*openapi3.T, error) {
	cfg := newConfig(options)
	schema := SubmissionSchema(fields, options...)
	ref := openapi3.NewSchemaRef("#/components/schemas/"+cfg.schemaName, schema)

	content := openapi3.NewContentWithJSONSchemaRef(ref)
	if multipart := multipartSchema(fields, cfg.registry); multipart != nil {
		content["multipart/form-data"] = openapi3.NewMediaType().WithSchema(multipart)
	}

	errorsSchema := openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())
	responses := openapi3.NewResponses(
		openapi3.WithStatus(204, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Submission accepted"),
		}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Field errors keyed by field id").
				WithJSONSchema(errorsSchema),
		}),
	)

	operation := openapi3.NewOperation()
	operation.OperationID = "submit" + cfg.schemaName
	operation.Summary = "Submit " + cfg.title
	operation.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithContent(content),
	}
	operation.Responses = responses

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   cfg.title,
			Version: cfg.version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(cfg.path, &openapi3.PathItem{Post: operation})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{cfg.schemaName: openapi3.NewSchemaRef("", schema)},
		},
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

func multipartSchema(fields []model.FieldDefinition, registry *fieldtype.Registry) *openapi3.Schema {
	var files []string
	for _, field := range fields {
		if registry.For(field).Capture == fieldtype.CaptureBinary {
			files = append(files, field.ID)
		}
	}
	if len(files) == 0 {
		return nil
	}

	schema := openapi3.NewObjectSchema().
		WithProperty(render.DefaultSubmissionKey, openapi3.NewStringSchema()).
		WithRequired([]string{render.DefaultSubmissionKey})
	for _, id := range files {
		schema = schema.WithProperty(id, openapi3.NewStringSchema().WithFormat("binary"))
	}
	return schema
}

// Marshal encodes doc as indented JSON or as YAML.
func Marshal(doc *openapi3.T, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("openapi: encode json: %w", err)
		}
		return data, nil
	case "yaml", "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("openapi: unsupported format %q", format)
	}
}
