package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formfields/internal/loader"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
	"github.com/goliatone/go-formfields/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects the schema loader.
func WithLoader(l *loader.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformers registers transformers applied in order to the loaded
// fields before rendering.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// WithThemeSelector resolves RenderOptions.Theme from the request's theme
// name and variant when the caller did not set one.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes = selector
	}
}

// WithLogger sets the logger used to report malformed schema entries.
// Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the path from a schema document to rendered
// output. The zero configuration uses the default loader and a registry
// holding the vanilla renderer.
type Orchestrator struct {
	loader          *loader.Loader
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	themes          theme.ThemeSelector
	logger          zerolog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// Source locates the schema document. Ignored when Fields is set.
	Source loader.Source

	// Fields bypasses the loader when the caller already holds the schema.
	Fields []model.FieldDefinition

	// Renderer names the renderer to use; empty selects the default.
	Renderer string

	// ThemeName and ThemeVariant are passed to the theme selector.
	ThemeName    string
	ThemeVariant string

	RenderOptions render.RenderOptions
}

// Generate resolves the schema for req and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	fields, err := o.Fields(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil && o.themes != nil {
		opts.Theme, err = o.selectTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
	}

	output, err := renderer.Render(ctx, fields, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Fields loads and transforms the schema for req without rendering it.
// Malformed entries are skipped and logged.
func (o *Orchestrator) Fields(ctx context.Context, req Request) ([]model.FieldDefinition, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	fields := model.CloneFields(req.Fields)
	if req.Fields == nil {
		if req.Source.Location == "" {
			return nil, errors.New("orchestrator: source or fields are required")
		}
		loaded, issues, err := o.loader.LoadSchema(ctx, req.Source)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: load schema: %w", err)
		}
		for _, issue := range issues {
			o.logger.Warn().
				Str("source", req.Source.String()).
				Int("index", issue.Index).
				Str("field_id", issue.ID).
				Str("attribute", issue.Attribute).
				Err(issue.Err).
				Msg("skipping malformed field")
		}
		fields = loaded
	}

	for _, transformer := range o.transformers {
		if transformer == nil {
			continue
		}
		next, err := transformer.Transform(ctx, fields)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: transform fields: %w", err)
		}
		fields = next
	}
	return fields, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = loader.New()
	}
	if o.registry == nil {
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry, o.initialiseErr = render.NewRegistry(renderer)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
