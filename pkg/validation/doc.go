// Package validation checks captured values against a field schema and lints
// schemas before they are published. Messages are localized through
// render.Translator with the built-in en/fr catalog as fallback.
package validation
