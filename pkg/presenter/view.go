package presenter

import (
	"github.com/goliatone/go-formfields/pkg/fieldtype"
	"github.com/goliatone/go-formfields/pkg/model"
)

// Display tells an output how to draw a View.
type Display string

const (
	// DisplayPlaceholder marks a missing or empty value; Text holds the
	// localized placeholder.
	DisplayPlaceholder Display = "placeholder"
	DisplayText        Display = "text"
	// DisplayMultiline keeps the stored line breaks in Lines.
	DisplayMultiline Display = "multiline"
	// DisplayChoice shows the label of the selected option, or the raw stored
	// value when it matches none.
	DisplayChoice     Display = "choice"
	DisplayIndicators Display = "indicators"
	DisplayBadge      Display = "badge"
	DisplayLink       Display = "link"
	DisplayFile       Display = "file"
)

// View is the display projection of one field value.
type View struct {
	FieldID string          `json:"field_id"`
	Name    string          `json:"name"`
	Label   string          `json:"label"`
	Type    model.FieldType `json:"type"`
	Kind    fieldtype.Kind  `json:"kind"`
	Display Display         `json:"display"`
	Empty   bool            `json:"empty"`
	// Text is the single-line rendition every display carries, used by the
	// plain-text output.
	Text       string      `json:"text"`
	Lines      []string    `json:"lines,omitempty"`
	Matched    bool        `json:"matched,omitempty"`
	Indicators []Indicator `json:"indicators,omitempty"`
	Badge      *Badge      `json:"badge,omitempty"`
	Link       *Link       `json:"link,omitempty"`
	File       *File       `json:"file,omitempty"`
}

// Indicator is one option of a checkbox group with its membership.
type Indicator struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Badge is the Yes/No rendition of a boolean checkbox.
type Badge struct {
	Value bool   `json:"value"`
	Text  string `json:"text"`
}

// Link is a contact link for email and tel values.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// FileKind is the coarse file category inferred from the extension.
type FileKind string

const (
	FileKindImage FileKind = "image"
	FileKindPDF   FileKind = "pdf"
	FileKindWord  FileKind = "word"
	FileKindOther FileKind = "other"
)

// Previewable reports whether the kind gets an inline preview.
func (k FileKind) Previewable() bool {
	return k == FileKindImage || k == FileKindPDF
}

// File describes a stored upload.
type File struct {
	Name        string   `json:"name"`
	Kind        FileKind `json:"kind"`
	ContentType string   `json:"content_type,omitempty"`
	Bytes       int64    `json:"bytes"`
	Size        string   `json:"size,omitempty"`
	URL         string   `json:"url,omitempty"`
	// Preview is trusted HTML produced by the configured Previewer; Open
	// labels the link to the full file next to it.
	Preview string `json:"preview,omitempty"`
	Open    string `json:"open,omitempty"`
	// Action labels the download link, or says the file is unavailable when
	// there is no URL.
	Action string `json:"action"`
}
