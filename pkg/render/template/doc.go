// Package template defines the template engine seam used by the HTML
// renderers and the presenter. gotemplate provides the pongo2-backed engine.
package template
