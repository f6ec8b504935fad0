package vanilla_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	gotemplatepkg "github.com/goliatone/go-template"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
	"github.com/goliatone/go-formfields/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formfields/pkg/renderers/vanilla"
	"github.com/goliatone/go-formfields/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formfields/pkg/testsupport"
)

func renderForm(t *testing.T, fields []model.FieldDefinition, opts render.RenderOptions, options ...vanilla.Option) string {
	t.Helper()

	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(testsupport.Context(), fields, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(output)
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func assertNotContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(output, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, output)
		}
	}
}

func TestRendererRendersEveryFieldKind(t *testing.T) {
	output := renderForm(t, testsupport.ApplicationSchema(), render.RenderOptions{
		Values: testsupport.MustLoadValues(t, "application_values.json"),
		Locale: "en",
		Action: "/apply",
	})

	assertContains(t, output,
		`<form class="ff-form" action="/apply" method="post" enctype="multipart/form-data" novalidate lang="en">`,
		"<textarea id=\"ff-1\" name=\"1\" rows=\"4\" class=\"ff-textarea\" required aria-required=\"true\">I like building things.\nAnd shipping them.</textarea>",
		`<input type="email" id="ff-2" name="2" value="ada@example.test" class="ff-input" inputmode="email" required aria-required="true">`,
		`<input type="tel" id="ff-3" name="3" value="+33 6 12 34 56 78" class="ff-input" inputmode="tel">`,
		`<label for="ff-4" class="ff-label">Niveau d&#39;études <span class="ff-required" aria-hidden="true">*</span></label>`,
		`<option value="">Select an option</option>`,
		`<option value="Bac">Bac</option>`,
		`<option value="Licence" selected>Licence</option>`,
		`<input type="checkbox" id="ff-5-0" name="5" value="French" checked>`,
		`<input type="checkbox" id="ff-5-1" name="5" value="English" checked>`,
		`<input type="checkbox" id="ff-5-2" name="5" value="Spanish">`,
		`<input type="radio" id="ff-6-0" name="6" value="CDI" checked>`,
		`<input type="radio" id="ff-6-1" name="6" value="CDD">`,
		`<input type="checkbox" id="ff-7" name="7" value="true" checked required aria-required="true">`,
		`<input type="text" id="ff-8" name="8" value="12500" class="ff-input" inputmode="decimal">`,
		`<input type="date" id="ff-9" name="9" value="2024-03-05" class="ff-input">`,
		`<input type="file" id="ff-10" name="10" class="ff-file" accept=".pdf,.doc,.docx">`,
		`Allowed file types: .pdf, .doc, .docx. Maximum size: 5.0 MB`,
		`<small class="ff-file-current">Current file: cv.pdf</small>`,
		`<button type="submit" class="ff-submit">Submit</button>`,
	)

	// One exclusive group per radio field, keyed by the field id.
	if got := strings.Count(output, `type="radio"`); got != 2 {
		t.Fatalf("expected 2 radio inputs, got %d", got)
	}
	if got := strings.Count(output, `name="6"`); got != 2 {
		t.Fatalf("expected radio inputs to share the field id as name, got %d", got)
	}
}

func TestRendererKeepsFieldOrder(t *testing.T) {
	output := renderForm(t, testsupport.ApplicationSchema(), render.RenderOptions{})

	last := -1
	for _, field := range testsupport.ApplicationSchema() {
		idx := strings.Index(output, `data-field-id="`+field.ID+`"`)
		if idx < 0 {
			t.Fatalf("field %s not rendered", field.ID)
		}
		if idx < last {
			t.Fatalf("field %s rendered out of order", field.ID)
		}
		last = idx
	}
}

func TestRendererEmptyValues(t *testing.T) {
	output := renderForm(t, testsupport.ApplicationSchema(), render.RenderOptions{})

	assertContains(t, output,
		`<option value="" selected>Select an option</option>`,
		`<input type="checkbox" id="ff-5-0" name="5" value="French">`,
		`<input type="checkbox" id="ff-7" name="7" value="true" required aria-required="true">`,
		`<input type="file" id="ff-10" name="10" class="ff-file" accept=".pdf,.doc,.docx" required aria-required="true">`,
	)
	assertNotContains(t, output, " checked", `class="ff-file-current"`, `data-invalid="true"`)
}

func TestRendererWrongShapeRendersEmpty(t *testing.T) {
	fields := testsupport.ApplicationSchema()[4:5]
	output := renderForm(t, fields, render.RenderOptions{
		Values: model.Values{"5": 42.0},
	})
	assertNotContains(t, output, " checked")
}

func TestRendererFieldAndFormErrors(t *testing.T) {
	errs := model.FieldErrors{}
	errs.Add("4", "This field is required.")

	output := renderForm(t, testsupport.ApplicationSchema(), render.RenderOptions{
		Errors:     errs,
		FormErrors: []string{"schema locked"},
	})

	assertContains(t, output,
		`<div class="ff-field" data-field-id="4" data-field-name="niveau" data-kind="select" data-required="true" data-invalid="true">`,
		`aria-invalid="true" aria-describedby="ff-4-errors"`,
		`<ul id="ff-4-errors" class="ff-field-errors" role="alert">`,
		`<li>This field is required.</li>`,
		`<div class="ff-errors" role="alert">`,
		`<p>Please correct the highlighted fields.</p>`,
		`<li>schema locked</li>`,
	)
	if got := strings.Count(output, `data-invalid="true"`); got != 1 {
		t.Fatalf("expected errors scoped to one field, got %d", got)
	}
}

func TestRendererLocalizesChrome(t *testing.T) {
	output := renderForm(t, testsupport.ApplicationSchema(), render.RenderOptions{Locale: "fr-FR"})

	assertContains(t, output,
		`<option value="" selected>Sélectionnez une option</option>`,
		`<button type="submit" class="ff-submit">Envoyer</button>`,
		`Taille maximale : 5.0 MB`,
	)
}

func TestRendererSubmitLabelOverride(t *testing.T) {
	output := renderForm(t, testsupport.ApplicationSchema(), render.RenderOptions{SubmitLabel: "Apply now"})
	assertContains(t, output, `<button type="submit" class="ff-submit">Apply now</button>`)
}

func TestRendererHiddenFieldsAndMethodOverride(t *testing.T) {
	output := renderForm(t, testsupport.ApplicationSchema()[:1], render.RenderOptions{
		Method: "put",
		Hidden: render.MergeHiddenFields(nil, render.CSRFToken("_csrf", "tok"), render.VersionField("_version", 3)),
	})

	assertContains(t, output,
		`method="post"`,
		`<input type="hidden" name="_method" value="PUT">`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<input type="hidden" name="_version" value="3">`,
	)
	assertNotContains(t, output, "enctype")
}

func TestRendererSubset(t *testing.T) {
	output := renderForm(t, testsupport.ApplicationSchema(), render.RenderOptions{
		Subset: render.FieldSubset{IDs: []string{"2"}},
	})

	assertContains(t, output, `id="ff-2"`)
	assertNotContains(t, output, `id="ff-4"`, `id="ff-10"`, "enctype")
}

func TestRendererSanitizesHelpText(t *testing.T) {
	fields := []model.FieldDefinition{{
		ID:       "1",
		Name:     "bio",
		Label:    "<em>Bio</em>",
		Type:     model.FieldTypeText,
		Options:  []string{},
		HelpText: `Keep it <b>short</b><script>alert(1)</script>`,
	}}
	output := renderForm(t, fields, render.RenderOptions{})

	assertContains(t, output,
		`<label for="ff-1" class="ff-label">Bio</label>`,
		`<small id="ff-1-help" class="ff-help">Keep it <b>short</b></small>`,
		`aria-describedby="ff-1-help"`,
	)
	assertNotContains(t, output, "<script>alert", "<em>")
}

func TestRendererThemeStyles(t *testing.T) {
	fields := testsupport.ApplicationSchema()[:1]

	plain := renderForm(t, fields, render.RenderOptions{})
	assertContains(t, plain, "<style>", ".ff-form{")

	themed := renderForm(t, fields, render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			CSSVars: map[string]string{"--ff-gap": "2rem", "ff-radius": "0"},
			AssetURL: func(name string) string {
				return "/static/" + name
			},
		},
	})
	assertContains(t, themed,
		`style="--ff-gap: 2rem; --ff-radius: 0;"`,
		`data-theme="acme" data-theme-variant="dark"`,
		`<link rel="stylesheet" href="/static/formfields-vanilla.css">`,
	)
	assertNotContains(t, themed, "<style>")

	bare := renderForm(t, fields, render.RenderOptions{}, vanilla.WithInlineStyles(false))
	assertNotContains(t, bare, "<style>")
}

func TestRendererFileDefaultsAndLocator(t *testing.T) {
	fields := []model.FieldDefinition{{
		ID:      "cv",
		Name:    "cv",
		Label:   "CV",
		Type:    model.FieldTypeFile,
		Options: []string{},
		Locator: "https://files.example.test/cv",
	}}
	output := renderForm(t, fields, render.RenderOptions{
		Values: model.Values{"cv": model.FileRef{Name: "cv.docx", Handle: "h1"}},
	}, vanilla.WithFileDefaults(model.ResumeConstraints()))

	assertContains(t, output,
		`accept=".pdf,.doc,.docx"`,
		`<a href="https://files.example.test/cv" target="_blank" rel="noopener">Current file: cv.docx</a>`,
	)
}

func TestRendererDropsUnsafeFileURL(t *testing.T) {
	fields := []model.FieldDefinition{{ID: "cv", Name: "cv", Label: "CV", Type: model.FieldTypeFile, Options: []string{}}}
	output := renderForm(t, fields, render.RenderOptions{
		Values: model.Values{"cv": model.FileRef{Name: "cv.pdf", URL: "javascript:alert(1)"}},
	})

	assertNotContains(t, output, "javascript:")
	assertContains(t, output, `<small class="ff-file-current">Current file: cv.pdf</small>`)
}

func TestRendererComponentOverrides(t *testing.T) {
	fields := testsupport.ApplicationSchema()[3:4]

	output := renderForm(t, fields, render.RenderOptions{}, vanilla.WithComponentOverrides(map[string]string{"niveau": "radio"}))
	assertContains(t, output, `<input type="radio" id="ff-4-1" name="4" value="Licence"`)

	if _, err := vanilla.New(vanilla.WithComponentOverrides(map[string]string{"4": "missing"})); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected unknown component override to be rejected, got %v", err)
	}

	stars := components.NewDefaultRegistry().Clone()
	stars.MustRegister("stars", func(buf *bytes.Buffer, field components.Field, data components.ComponentData) error {
		buf.WriteString(`<span class="stars" data-field="` + field.ID + `"></span>`)
		return nil
	})
	output = renderForm(t, fields, render.RenderOptions{},
		vanilla.WithComponentRegistry(stars),
		vanilla.WithComponentOverrides(map[string]string{"4": "Stars"}),
	)
	assertContains(t, output, `<span class="stars" data-field="4"></span>`)
}

func TestRendererHonoursCancelledContext(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, testsupport.ApplicationSchema(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRendererRegistersWithRenderRegistry(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	registry, err := render.NewRegistry(renderer)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	output, err := registry.Render(testsupport.Context(), "vanilla", testsupport.ApplicationSchema(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render through registry: %v", err)
	}
	if !strings.Contains(string(output), `data-field-id="10"`) {
		t.Fatalf("expected rendered form, got %s", output)
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRendererWithHookedTemplateEngine(t *testing.T) {
	engine, err := gotemplate.NewHooked(
		gotemplate.WithFS(vanilla.TemplatesFS()),
		gotemplate.WithExtension(".tmpl"),
	)
	if err != nil {
		t.Fatalf("new hooked engine: %v", err)
	}
	engine.RegisterPostHook(func(ctx *gotemplatepkg.HookContext) (string, error) {
		if ctx.TemplateName != "templates/form.tmpl" {
			return ctx.Output, nil
		}
		return strings.Replace(ctx.Output, "<form ", `<form data-rendered-by="go-template" `, 1), nil
	})

	output := renderForm(t, testsupport.ApplicationSchema(), render.RenderOptions{Action: "/apply"},
		vanilla.WithTemplateRenderer(engine))

	assertContains(t, output,
		`<form data-rendered-by="go-template" class="ff-form`,
		`action="/apply"`,
		`enctype="multipart/form-data"`,
		`name="4"`,
		`data-field-id="10"`,
	)
	if strings.Count(output, "data-rendered-by") != 1 {
		t.Fatalf("expected the hook to touch only the form template\n%s", output)
	}
}
