package components

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
)

func TestRegistryCloneIsIsolated(t *testing.T) {
	reg := New()
	noop := func(*bytes.Buffer, Field, ComponentData) error { return nil }
	reg.MustRegister("Text", noop)

	clone := reg.Clone()
	clone.MustRegister("rating", noop)

	if _, ok := reg.Lookup("rating"); ok {
		t.Fatalf("registering on a clone leaked into the original")
	}
	if _, ok := clone.Lookup(" TEXT "); !ok {
		t.Fatalf("clone lost the original binding")
	}
	if got := clone.Names(); !slices.Equal(got, []string{"rating", "text"}) {
		t.Fatalf("unexpected names %v", got)
	}
}

func TestRegistryRejectsInvalidBindings(t *testing.T) {
	reg := New()
	if err := reg.Register(" ", func(*bytes.Buffer, Field, ComponentData) error { return nil }); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if err := reg.Register("text", nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistryMissing(t *testing.T) {
	reg := NewDefaultRegistry()

	got := reg.Missing("radio", "Stars", "", "stars", "select", "slider")
	if !slices.Equal(got, []string{"slider", "stars"}) {
		t.Fatalf("unexpected missing names %v", got)
	}
	if got := reg.Missing(NameText, NameFile); len(got) != 0 {
		t.Fatalf("expected defaults to resolve, got %v", got)
	}
}

func TestDefaultRegistryCoversEveryKind(t *testing.T) {
	reg := NewDefaultRegistry()
	for _, kind := range fieldtype.Default().Kinds() {
		if _, ok := reg.Lookup(string(kind)); !ok {
			t.Fatalf("no component registered for kind %q", kind)
		}
	}
}

func TestTemplateComponentRendererUsesThemePartial(t *testing.T) {
	tmpl := &recordingTemplateRenderer{out: "<select></select>"}
	renderer, _ := NewDefaultRegistry().Lookup(NameSelect)

	var buf bytes.Buffer
	err := renderer(&buf, Field{ID: "4"}, ComponentData{
		Template:      tmpl,
		ThemePartials: map[string]string{"forms.select": "themes/custom/select.tmpl"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(tmpl.calls) != 1 || tmpl.calls[0] != "themes/custom/select.tmpl" {
		t.Fatalf("theme partial not applied, got %v", tmpl.calls)
	}
	if buf.String() != "<select></select>" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestTemplateComponentRendererErrors(t *testing.T) {
	renderer, _ := NewDefaultRegistry().Lookup(NameText)

	var buf bytes.Buffer
	if err := renderer(&buf, Field{}, ComponentData{}); err == nil {
		t.Fatalf("expected error without template renderer")
	}

	boom := errors.New("boom")
	err := renderer(&buf, Field{}, ComponentData{Template: &recordingTemplateRenderer{err: boom}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped template error, got %v", err)
	}
}

type recordingTemplateRenderer struct {
	calls []string
	out   string
	err   error
}

func (r *recordingTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *recordingTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	return r.out, r.err
}

func (r *recordingTemplateRenderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	return "", nil
}

func (r *recordingTemplateRenderer) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	return nil
}

func (r *recordingTemplateRenderer) GlobalContext(data any) error {
	return nil
}
