package presenter

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded HTML templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
