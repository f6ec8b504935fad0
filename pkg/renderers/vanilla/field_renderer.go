package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
	rendertemplate "github.com/goliatone/go-formfields/pkg/render/template"
	"github.com/goliatone/go-formfields/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
	partials  map[string]string
	theme     map[string]any
}

func newComponentRenderer(templates rendertemplate.TemplateRenderer, registry *components.Registry, overrides map[string]string, opts render.RenderOptions) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	renderer := &componentRenderer{
		templates: templates,
		registry:  registry,
		overrides: overrides,
	}
	if opts.Theme != nil {
		renderer.partials = opts.Theme.Partials
		renderer.theme = map[string]any{
			"name":     opts.Theme.Theme,
			"variant":  opts.Theme.Variant,
			"tokens":   opts.Theme.Tokens,
			"css_vars": opts.Theme.CSSVars,
		}
	}
	return renderer
}

// componentName resolves the component for a field. Overrides are looked up
// by field id first, then by field name.
func (c *componentRenderer) componentName(field model.FieldDefinition, kind fieldtype.Kind) string {
	if name := strings.TrimSpace(c.overrides[field.ID]); name != "" {
		return name
	}
	if name := strings.TrimSpace(c.overrides[field.Name]); name != "" {
		return name
	}
	return string(kind)
}

func (c *componentRenderer) render(view components.Field, name string) (string, error) {
	renderer, ok := c.registry.Lookup(name)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", name, view.ID)
	}

	var buf bytes.Buffer
	err := renderer(&buf, view, components.ComponentData{
		Template:      c.templates,
		ThemePartials: c.partials,
		Theme:         c.theme,
	})
	if err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", name, view.ID, err)
	}
	return buf.String(), nil
}

// buildFieldView projects a definition and its current value onto the
// template view model. Values that do not fit the field's shape render as the
// empty value.
func buildFieldView(field model.FieldDefinition, variant fieldtype.Variant, raw any, constraints *model.FileConstraints, opts render.RenderOptions) components.Field {
	value, err := variant.Normalize(field, raw)
	if err != nil {
		value = variant.Empty()
	}

	label := strings.TrimSpace(render.PlainText(field.Label))
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}

	view := components.Field{
		ID:        field.ID,
		Name:      field.Name,
		InputName: field.ID,
		Label:     label,
		Kind:      string(variant.Kind),
		ControlID: componentControlID(field.ID),
		Required:  field.Required,
		HelpHTML:  strings.TrimSpace(render.SanitizeHelpText(field.HelpText)),
		Errors:    slices.Clone(opts.Errors.For(field.ID)),
	}
	view.Invalid = len(view.Errors) > 0

	var describedBy []string
	if view.HelpHTML != "" {
		describedBy = append(describedBy, componentHelpID(field.ID))
	}
	if view.Invalid {
		describedBy = append(describedBy, componentErrorsID(field.ID))
	}
	view.DescribedBy = strings.Join(describedBy, " ")

	switch variant.Capture {
	case fieldtype.CaptureScalar:
		view.Value, _ = value.(string)
		view.InputType, view.InputMode = inputType(variant.Kind)
	case fieldtype.CaptureSingle:
		selected, _ := value.(string)
		view.Value = selected
		view.Placeholder = opts.T(render.MsgSelectEmpty)
		view.Options = optionViews(field, func(option string) bool { return option == selected })
	case fieldtype.CaptureSubset:
		selected, _ := value.([]string)
		view.Options = optionViews(field, func(option string) bool { return slices.Contains(selected, option) })
	case fieldtype.CaptureBoolean:
		view.Checked, _ = value.(bool)
	case fieldtype.CaptureBinary:
		applyFileView(&view, field, value, constraints, opts)
	}
	return view
}

func inputType(kind fieldtype.Kind) (string, string) {
	switch kind {
	case fieldtype.KindEmail:
		return "email", "email"
	case fieldtype.KindTel:
		return "tel", "tel"
	case fieldtype.KindDate:
		return "date", ""
	case fieldtype.KindNumber:
		// Numbers are captured as strings so locale separators survive.
		return "text", "decimal"
	default:
		return "text", ""
	}
}

func optionViews(field model.FieldDefinition, selected func(string) bool) []components.Option {
	out := make([]components.Option, 0, len(field.Options))
	for idx, option := range field.Options {
		if strings.TrimSpace(option) == "" {
			continue
		}
		out = append(out, components.Option{
			Value:     option,
			Label:     option,
			Selected:  selected(option),
			ControlID: componentOptionID(field.ID, idx),
		})
	}
	return out
}

func applyFileView(view *components.Field, field model.FieldDefinition, value any, constraints *model.FileConstraints, opts render.RenderOptions) {
	if constraints != nil {
		var hints []string
		if len(constraints.Extensions) > 0 {
			view.Accept = strings.Join(constraints.Extensions, ",")
			hints = append(hints, opts.T(render.MsgFileType, strings.Join(constraints.Extensions, ", ")))
		}
		if constraints.MaxSize > 0 {
			hints = append(hints, opts.T(render.MsgFileMaxSize, fieldtype.FormatSize(constraints.MaxSize)))
		}
		view.FileHint = strings.Join(hints, " ")
	}

	ref, ok := value.(model.FileRef)
	if !ok || ref.IsZero() {
		return
	}
	view.FileName = ref.Name
	if view.FileName == "" {
		view.FileName = ref.Handle
	}
	view.FileURL = render.SafeURL(ref.URL)
	if view.FileURL == "" {
		view.FileURL = render.SafeURL(field.Locator)
	}
	view.FileCurrent = opts.T(render.MsgFileCurrent, view.FileName)
}

// buildFieldMarkup wraps the component output with the shared field chrome:
// label, help text and field-scoped errors.
func buildFieldMarkup(view components.Field, kind fieldtype.Kind, control string) string {
	var builder strings.Builder

	builder.WriteString(`<div class="`)
	builder.WriteString(string(ClassField))
	builder.WriteString(`" data-field-id="`)
	builder.WriteString(html.EscapeString(view.ID))
	builder.WriteString(`" data-field-name="`)
	builder.WriteString(html.EscapeString(view.Name))
	builder.WriteString(`" data-kind="`)
	builder.WriteString(html.EscapeString(view.Kind))
	builder.WriteString(`"`)
	if view.Required {
		builder.WriteString(` data-required="true"`)
	}
	if view.Invalid {
		builder.WriteString(` data-invalid="true"`)
	}
	builder.WriteString(">\n")

	if !componentHandlesLabel(kind) && view.Label != "" {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(view.ControlID))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassLabel))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(view.Label))
		if view.Required {
			builder.WriteString(` <span class="ff-required" aria-hidden="true">*</span>`)
		}
		builder.WriteString("</label>\n")
	}

	// Written verbatim so textarea content keeps its line breaks.
	if control = strings.TrimRight(control, "\n"); control != "" {
		builder.WriteString(control)
		builder.WriteByte('\n')
	}

	if view.HelpHTML != "" {
		builder.WriteString(`    <small id="`)
		builder.WriteString(html.EscapeString(componentHelpID(view.ID)))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassHelp))
		builder.WriteString(`">`)
		builder.WriteString(view.HelpHTML)
		builder.WriteString("</small>\n")
	}

	if view.Invalid {
		builder.WriteString(`    <ul id="`)
		builder.WriteString(html.EscapeString(componentErrorsID(view.ID)))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassFieldErrors))
		builder.WriteString("\" role=\"alert\">\n")
		for _, message := range view.Errors {
			builder.WriteString("      <li>")
			builder.WriteString(html.EscapeString(message))
			builder.WriteString("</li>\n")
		}
		builder.WriteString("    </ul>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
