package presenter

import (
	"fmt"
	"html"
)

// Previewer produces inline HTML for image and PDF files. The returned markup
// is inserted unescaped. Errors drop the preview; the file is still listed.
type Previewer interface {
	Preview(file File) (string, error)
}

// PreviewerFunc adapts a function into a Previewer.
type PreviewerFunc func(file File) (string, error)

func (fn PreviewerFunc) Preview(file File) (string, error) {
	return fn(file)
}

// BasicPreviewer embeds images with <img> and PDFs with <object>.
type BasicPreviewer struct{}

func (BasicPreviewer) Preview(file File) (string, error) {
	if file.URL == "" {
		return "", fmt.Errorf("presenter: no url for %q", file.Name)
	}
	src := html.EscapeString(file.URL)
	switch file.Kind {
	case FileKindImage:
		return fmt.Sprintf(`<img class="ff-preview-image" src="%s" alt="%s" loading="lazy">`, src, html.EscapeString(file.Name)), nil
	case FileKindPDF:
		return fmt.Sprintf(`<object class="ff-preview-pdf" data="%s" type="application/pdf"></object>`, src), nil
	default:
		return "", fmt.Errorf("presenter: no preview for %s files", file.Kind)
	}
}
