package presenter

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
)

type presentationView struct {
	Locale string `json:"locale,omitempty"`
	Views  []View `json:"views"`
}

// HTML renders the views of fields as a definition list.
func (p *Presenter) HTML(ctx context.Context, fields []model.FieldDefinition, values model.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.templates == nil {
		return nil, fmt.Errorf("presenter: template renderer is nil")
	}
	result, err := p.templates.RenderTemplate("templates/present.tmpl", map[string]any{
		"presentation": presentationView{
			Locale: p.locale,
			Views:  p.PresentAll(fields, values),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("presenter: render template: %w", err)
	}
	return []byte(result), nil
}

// Text renders one "Label: value" entry per field. Multi-line values and
// checkbox groups continue on indented lines.
func (p *Presenter) Text(fields []model.FieldDefinition, values model.Values) string {
	var b strings.Builder
	for _, view := range p.PresentAll(fields, values) {
		switch view.Display {
		case DisplayMultiline:
			fmt.Fprintf(&b, "%s:\n", view.Label)
			for _, line := range view.Lines {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		case DisplayIndicators:
			fmt.Fprintf(&b, "%s:\n", view.Label)
			for _, item := range view.Indicators {
				mark := "[ ]"
				if item.Selected {
					mark = "[x]"
				}
				fmt.Fprintf(&b, "  %s %s\n", mark, item.Label)
			}
		case DisplayFile:
			fmt.Fprintf(&b, "%s: %s\n", view.Label, view.Text)
			if view.File.URL != "" {
				fmt.Fprintf(&b, "  %s\n", view.File.URL)
			}
		default:
			fmt.Fprintf(&b, "%s: %s\n", view.Label, view.Text)
		}
	}
	return b.String()
}

// JSON encodes the views of fields.
func (p *Presenter) JSON(fields []model.FieldDefinition, values model.Values) ([]byte, error) {
	data, err := json.MarshalIndent(presentationView{
		Locale: p.locale,
		Views:  p.PresentAll(fields, values),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("presenter: encode views: %w", err)
	}
	return data, nil
}

// Renderer exposes the HTML output through the render.Renderer contract.
// RenderOptions.Values holds the stored values; Locale, Translator and Subset
// are honoured.
func (p *Presenter) Renderer() render.Renderer {
	return render.RendererFunc{
		ID:   "presenter",
		Type: "text/html; charset=utf-8",
		Fn: func(ctx context.Context, fields []model.FieldDefinition, opts render.RenderOptions) ([]byte, error) {
			return p.withOptions(opts).HTML(ctx, render.ApplySubset(fields, opts.Subset), opts.Values)
		},
	}
}

// TextRenderer exposes the plain-text output through render.Renderer.
func (p *Presenter) TextRenderer() render.Renderer {
	return render.RendererFunc{
		ID:   "presenter-text",
		Type: "text/plain; charset=utf-8",
		Fn: func(ctx context.Context, fields []model.FieldDefinition, opts render.RenderOptions) ([]byte, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return []byte(p.withOptions(opts).Text(render.ApplySubset(fields, opts.Subset), opts.Values)), nil
		},
	}
}
