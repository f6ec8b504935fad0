package render

import (
	"context"

	"github.com/goliatone/go-formfields/pkg/model"
)

// Renderer turns an ordered schema plus per-request options into bytes (HTML,
// plain text, ...). Fields are rendered in slice order; Order is not consulted.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, fields []model.FieldDefinition, options RenderOptions) ([]byte, error)
}

// RendererFunc adapts a plain function into a Renderer.
type RendererFunc struct {
	ID   string
	Type string
	Fn   func(ctx context.Context, fields []model.FieldDefinition, options RenderOptions) ([]byte, error)
}

func (r RendererFunc) Name() string        { return r.ID }
func (r RendererFunc) ContentType() string { return r.Type }

func (r RendererFunc) Render(ctx context.Context, fields []model.FieldDefinition, options RenderOptions) ([]byte, error) {
	if r.Fn == nil {
		return nil, nil
	}
	return r.Fn(ctx, fields, options)
}
