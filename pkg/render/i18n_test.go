package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formfields/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if v, ok := t[key]; ok {
		return v, nil
	}
	return "", errors.New("missing")
}

func TestDefaultCatalogMatchesRegionalLocales(t *testing.T) {
	catalog := render.DefaultCatalog()

	cases := []struct {
		locale string
		want   string
	}{
		{"fr", "Ce champ est obligatoire."},
		{"fr-CA", "Ce champ est obligatoire."},
		{"en-GB", "This field is required."},
		{"de", "This field is required."},
		{"", "This field is required."},
	}
	for _, tc := range cases {
		got, err := catalog.Translate(tc.locale, render.MsgRequired)
		if err != nil {
			t.Fatalf("translate %q: %v", tc.locale, err)
		}
		if got != tc.want {
			t.Fatalf("locale %q: want %q, got %q", tc.locale, tc.want, got)
		}
	}
}

func TestCatalogFormatsArgs(t *testing.T) {
	got, err := render.DefaultCatalog().Translate("en", render.MsgFileTooLarge, "5.0 MiB")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "The file must be 5.0 MiB or smaller." {
		t.Fatalf("unexpected message %q", got)
	}

	if _, err := render.DefaultCatalog().Translate("en", "nope"); !errors.Is(err, render.ErrMissingMessage) {
		t.Fatalf("expected ErrMissingMessage, got %v", err)
	}
}

func TestTranslatePrefersCallerTranslator(t *testing.T) {
	tr := stubTranslator{render.MsgSubmit: "Postuler"}

	if got := render.Translate(tr, "fr", render.MsgSubmit, nil); got != "Postuler" {
		t.Fatalf("expected caller translation, got %q", got)
	}
	if got := render.Translate(tr, "fr", render.MsgNoSelection, nil); got != "Aucune sélection" {
		t.Fatalf("expected catalog fallback, got %q", got)
	}

	var gotErr error
	onMissing := func(_ string, key string, _ []any, err error) string {
		gotErr = err
		return "[" + key + "]"
	}
	if got := render.Translate(nil, "en", "custom.key", onMissing); got != "[custom.key]" {
		t.Fatalf("expected missing handler output, got %q", got)
	}
	if !errors.Is(gotErr, render.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", gotErr)
	}
}

func TestRenderOptionsT(t *testing.T) {
	opts := render.RenderOptions{Locale: "fr"}
	if got := opts.T(render.MsgYes); got != "Oui" {
		t.Fatalf("expected Oui, got %q", got)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(stubTranslator{"greeting": "Bonjour"}, render.TemplateI18nConfig{})

	translate, ok := funcs["translate"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("translate helper missing or wrong type: %T", funcs["translate"])
	}
	if got := translate(map[string]any{"locale": "fr"}, "greeting"); got != "Bonjour" {
		t.Fatalf("expected Bonjour, got %q", got)
	}
	if got := translate("fr", render.MsgNo); got != "Non" {
		t.Fatalf("expected catalog fallback Non, got %q", got)
	}

	current, ok := funcs["current_locale"].(func(any) string)
	if !ok {
		t.Fatalf("current_locale helper missing")
	}
	type page struct{ Locale string }
	if got := current(&page{Locale: "fr-FR"}); got != "fr-FR" {
		t.Fatalf("expected locale from struct, got %q", got)
	}
}
