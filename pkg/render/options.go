package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formfields/pkg/model"
)

// RenderOptions carry per-request data. None of it is written back into the
// schema.
type RenderOptions struct {
	// Values pre-populates controls, keyed by field id.
	Values model.Values
	// Errors are field-scoped messages keyed by field id. Owner payloads keyed
	// by name or path go through MapErrorPayload first.
	Errors model.FieldErrors
	// FormErrors are messages that could not be tied to a field.
	FormErrors []string

	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler

	// Action and Method populate the HTML form element. Method defaults to POST.
	Action string
	Method string
	// SubmitLabel overrides the localized submit button label.
	SubmitLabel string
	Hidden      map[string]string

	// Subset limits output to matching fields.
	Subset FieldSubset

	// Theme exposes tokens and CSS variables to HTML templates.
	Theme *theme.RendererConfig
}

// HTTPMethod returns the upper-cased method, POST when unset.
func (o RenderOptions) HTTPMethod() string {
	method := strings.ToUpper(strings.TrimSpace(o.Method))
	if method == "" {
		return "POST"
	}
	return method
}

// T translates key in the configured locale, falling back to the built-in
// catalog and then to key itself.
func (o RenderOptions) T(key string, args ...any) string {
	return Translate(o.Translator, o.Locale, key, o.OnMissing, args...)
}

// ThemeVars returns the theme CSS variables, nil without a theme.
func (o RenderOptions) ThemeVars() map[string]string {
	if o.Theme == nil || len(o.Theme.CSSVars) == 0 {
		return nil
	}
	out := make(map[string]string, len(o.Theme.CSSVars))
	for key, value := range o.Theme.CSSVars {
		out[key] = value
	}
	return out
}
