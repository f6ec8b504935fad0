package components

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	templatePrefix = "templates/components/"
)

// NewDefaultRegistry constructs a registry pre-populated with one component
// per field kind.
func NewDefaultRegistry() *Registry {
	registry := New()

	input := templateComponentRenderer("forms.input", templatePrefix+"input.tmpl")
	for _, name := range []string{NameText, NameNumber, NameEmail, NameTel, NameDate} {
		registry.MustRegister(name, input)
	}
	registry.MustRegister(NameTextarea, templateComponentRenderer("forms.textarea", templatePrefix+"textarea.tmpl"))
	registry.MustRegister(NameSelect, templateComponentRenderer("forms.select", templatePrefix+"select.tmpl"))
	registry.MustRegister(NameRadio, templateComponentRenderer("forms.radio", templatePrefix+"radio.tmpl"))
	registry.MustRegister(NameCheckboxGroup, templateComponentRenderer("forms.checkbox-group", templatePrefix+"checkbox-group.tmpl"))
	registry.MustRegister(NameToggle, templateComponentRenderer("forms.checkbox", templatePrefix+"toggle.tmpl"))
	registry.MustRegister(NameFile, templateComponentRenderer("forms.file", templatePrefix+"file.tmpl"))

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"field":  field,
			"theme":  data.Theme,
			"config": data.Config,
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
