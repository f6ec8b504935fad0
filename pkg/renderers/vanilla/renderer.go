package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
	rendertemplate "github.com/goliatone/go-formfields/pkg/render/template"
	gotemplate "github.com/goliatone/go-formfields/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formfields/pkg/renderers/vanilla/components"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	overrides        map[string]string
	types            *fieldtype.Registry
	fileDefaults     *model.FileConstraints
	chrome           ChromeClasses
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default per-kind components.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithComponentOverrides maps a field id or name to a registered component
// name, bypassing the kind lookup for that field.
func WithComponentOverrides(overrides map[string]string) Option {
	return func(cfg *config) {
		if len(overrides) == 0 {
			return
		}
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]string, len(overrides))
		}
		for key, name := range overrides {
			cfg.overrides[strings.TrimSpace(key)] = name
		}
	}
}

// WithFieldTypes sets the field type table used to resolve kinds.
func WithFieldTypes(types *fieldtype.Registry) Option {
	return func(cfg *config) {
		if types != nil {
			cfg.types = types
		}
	}
}

// WithFileDefaults applies constraints to file fields that carry none, so the
// accept attribute and size hint match what validation enforces.
func WithFileDefaults(constraints *model.FileConstraints) Option {
	return func(cfg *config) {
		cfg.fileDefaults = constraints.Clone()
	}
}

// WithChromeClasses appends classes to the form-level wrappers.
func WithChromeClasses(classes ChromeClasses) Option {
	return func(cfg *config) {
		cfg.chrome = classes
	}
}

// WithInlineStyles toggles embedding the default stylesheet in a <style>
// element. It is on by default and ignored when the theme supplies an asset
// URL for the stylesheet.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	components   *components.Registry
	overrides    map[string]string
	types        *fieldtype.Registry
	fileDefaults *model.FileConstraints
	chrome       ChromeClasses
	inlineStyles bool
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		inlineStyles: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.types == nil {
		cfg.types = fieldtype.Default()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	if missing := cfg.components.Missing(slices.Collect(maps.Values(cfg.overrides))...); len(missing) > 0 {
		return nil, fmt.Errorf("vanilla renderer: component overrides name unregistered components: %s", strings.Join(missing, ", "))
	}

	return &Renderer{
		templates:    renderer,
		components:   cfg.components,
		overrides:    cfg.overrides,
		types:        cfg.types,
		fileDefaults: cfg.fileDefaults,
		chrome:       cfg.chrome,
		inlineStyles: cfg.inlineStyles,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type formView struct {
	Class        string               `json:"class"`
	Action       string               `json:"action"`
	Method       string               `json:"method"`
	Multipart    bool                 `json:"multipart"`
	Locale       string               `json:"locale,omitempty"`
	Style        string               `json:"style,omitempty"`
	ThemeName    string               `json:"theme_name,omitempty"`
	ThemeVariant string               `json:"theme_variant,omitempty"`
	Stylesheet   string               `json:"stylesheet,omitempty"`
	InlineStyles string               `json:"inline_styles,omitempty"`
	Hidden       []render.HiddenField `json:"hidden,omitempty"`
	Errors       []string             `json:"errors,omitempty"`
	ErrorsClass  string               `json:"errors_class"`
	ErrorsTitle  string               `json:"errors_title"`
	ActionsClass string               `json:"actions_class"`
	Fields       []string             `json:"fields"`
	SubmitLabel  string               `json:"submit_label"`
}

// Render produces the fill-time HTML form for fields in list order. Each
// control is named by field id so a posted form maps straight onto the
// submission payload.
func (r *Renderer) Render(ctx context.Context, fields []model.FieldDefinition, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	selected := render.ApplySubset(fields, opts.Subset)
	controls := newComponentRenderer(r.templates, r.components, r.overrides, opts)

	view := formView{
		Class:        r.chrome.form(),
		Action:       opts.Action,
		Locale:       strings.TrimSpace(opts.Locale),
		Hidden:       render.SortedHiddenFields(opts.Hidden),
		Errors:       opts.FormErrors,
		ErrorsClass:  r.chrome.errors(),
		ErrorsTitle:  opts.T(render.MsgFormInvalid),
		ActionsClass: r.chrome.actions(),
		Fields:       make([]string, 0, len(selected)),
		SubmitLabel:  strings.TrimSpace(opts.SubmitLabel),
	}
	if view.SubmitLabel == "" {
		view.SubmitLabel = opts.T(render.MsgSubmit)
	}
	view.Method, view.Hidden = formMethod(opts.HTTPMethod(), view.Hidden)

	for _, field := range selected {
		variant := r.types.For(field)
		constraints := field.File
		if variant.Capture == fieldtype.CaptureBinary {
			view.Multipart = true
			if constraints == nil {
				constraints = r.fileDefaults
			}
		}

		fieldView := buildFieldView(field, variant, opts.Values[field.ID], constraints, opts)
		name := controls.componentName(field, variant.Kind)
		control, err := controls.render(fieldView, name)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		view.Fields = append(view.Fields, buildFieldMarkup(fieldView, variant.Kind, control))
	}

	r.applyTheme(&view, opts)

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form": view,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) applyTheme(view *formView, opts render.RenderOptions) {
	view.Style = cssVarsStyle(opts.ThemeVars())

	if opts.Theme != nil {
		view.ThemeName = opts.Theme.Theme
		view.ThemeVariant = opts.Theme.Variant
		if opts.Theme.AssetURL != nil {
			view.Stylesheet = strings.TrimSpace(opts.Theme.AssetURL(StylesheetName))
		}
	}
	if view.Stylesheet != "" {
		return
	}
	if r.inlineStyles {
		view.InlineStyles = defaultStylesheet()
	}
}

// formMethod maps methods HTML forms cannot express onto POST plus a _method
// hidden field.
func formMethod(method string, hidden []render.HiddenField) (string, []render.HiddenField) {
	switch method {
	case "GET", "POST":
		return strings.ToLower(method), hidden
	default:
		return "post", append([]render.HiddenField{{Name: "_method", Value: method}}, hidden...)
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		if builder.Len() > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(name)
		builder.WriteString(": ")
		builder.WriteString(strings.TrimSpace(vars[key]))
		builder.WriteByte(';')
	}
	return builder.String()
}
