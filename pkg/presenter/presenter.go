package presenter

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
	rendertemplate "github.com/goliatone/go-formfields/pkg/render/template"
	gotemplate "github.com/goliatone/go-formfields/pkg/render/template/gotemplate"
)

// Option configures a Presenter.
type Option func(*config)

type config struct {
	registry         *fieldtype.Registry
	locale           string
	translator       render.Translator
	previewer        Previewer
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithLocale selects the display locale for placeholders, numbers and dates.
func WithLocale(locale string) Option {
	return func(cfg *config) {
		cfg.locale = strings.TrimSpace(locale)
	}
}

// WithTranslator overrides message lookup. Keys it cannot resolve fall back
// to the built-in catalog.
func WithTranslator(t render.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithPreviewer replaces the inline preview producer for image and PDF files.
// A nil previewer disables previews.
func WithPreviewer(previewer Previewer) Option {
	return func(cfg *config) {
		cfg.previewer = previewer
	}
}

// WithRegistry swaps the field type registry.
func WithRegistry(registry *fieldtype.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithTemplatesFS supplies an alternate HTML template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads the HTML templates from a directory on disk.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		if dir == "" {
			return
		}
		cfg.templateFS = os.DirFS(dir)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Presenter projects stored values onto display views. It is immutable after
// construction and safe for concurrent use.
type Presenter struct {
	registry   *fieldtype.Registry
	locale     string
	translator render.Translator
	previewer  Previewer
	templates  rendertemplate.TemplateRenderer
}

// New builds a Presenter. Image and PDF files get a BasicPreviewer preview
// unless WithPreviewer says otherwise.
func New(options ...Option) (*Presenter, error) {
	cfg := config{
		registry:   fieldtype.Default(),
		previewer:  BasicPreviewer{},
		templateFS: TemplatesFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("presenter: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Presenter{
		registry:   cfg.registry,
		locale:     cfg.locale,
		translator: cfg.translator,
		previewer:  cfg.previewer,
		templates:  renderer,
	}, nil
}

// Locale reports the display locale.
func (p *Presenter) Locale() string {
	return p.locale
}

// withOptions returns a copy using the locale and translator carried by a
// render request, when set.
func (p *Presenter) withOptions(opts render.RenderOptions) *Presenter {
	clone := *p
	if locale := strings.TrimSpace(opts.Locale); locale != "" {
		clone.locale = locale
	}
	if opts.Translator != nil {
		clone.translator = opts.Translator
	}
	return &clone
}

func (p *Presenter) t(key string, args ...any) string {
	return render.Translate(p.translator, p.locale, key, nil, args...)
}

// PresentAll builds one view per field, in slice order.
func (p *Presenter) PresentAll(fields []model.FieldDefinition, values model.Values) []View {
	out := make([]View, 0, len(fields))
	for _, field := range fields {
		out = append(out, p.Present(field, values[field.ID]))
	}
	return out
}

// Present builds the view of one stored value. It never fails: a value that
// no longer fits the field's shape is shown as stored.
func (p *Presenter) Present(field model.FieldDefinition, raw any) View {
	variant := p.registry.For(field)
	view := View{
		FieldID: field.ID,
		Name:    field.Name,
		Label:   displayLabel(field),
		Type:    field.Type,
		Kind:    variant.Kind,
	}

	value, err := variant.Normalize(field, raw)
	if err != nil {
		view.Display = DisplayText
		view.Text = fmt.Sprint(raw)
		return view
	}

	switch variant.Capture {
	case fieldtype.CaptureSubset:
		selected, _ := value.([]string)
		p.presentGroup(&view, field, selected)
		return view
	case fieldtype.CaptureBoolean:
		// A stored false is an answer; only a missing value is a placeholder.
		if missing(raw) {
			p.placeholder(&view, render.MsgNotProvided)
			return view
		}
		checked, _ := value.(bool)
		view.Display = DisplayBadge
		view.Badge = &Badge{Value: checked, Text: p.yesNo(checked)}
		view.Text = view.Badge.Text
		return view
	}

	if variant.IsEmpty(value) {
		p.placeholder(&view, render.MsgNotProvided)
		return view
	}

	switch variant.Capture {
	case fieldtype.CaptureSingle:
		stored, _ := value.(string)
		view.Display = DisplayChoice
		view.Text, view.Matched = optionLabel(field, stored)
	case fieldtype.CaptureBinary:
		ref, _ := value.(model.FileRef)
		p.presentFile(&view, field, ref)
	default:
		text, _ := value.(string)
		p.presentScalar(&view, variant, text)
	}
	return view
}

func (p *Presenter) placeholder(view *View, key string) {
	view.Display = DisplayPlaceholder
	view.Empty = true
	view.Text = p.t(key)
}

func (p *Presenter) yesNo(v bool) string {
	if v {
		return p.t(render.MsgYes)
	}
	return p.t(render.MsgNo)
}

func (p *Presenter) presentGroup(view *View, field model.FieldDefinition, selected []string) {
	if len(selected) == 0 {
		p.placeholder(view, render.MsgNoSelection)
		return
	}

	view.Display = DisplayIndicators
	for _, option := range field.Options {
		if strings.TrimSpace(option) == "" {
			continue
		}
		view.Indicators = append(view.Indicators, Indicator{
			Label:    option,
			Selected: slices.Contains(selected, option),
		})
	}
	// Values whose option was removed from the schema are still shown.
	for _, value := range selected {
		if !slices.Contains(field.Options, value) {
			view.Indicators = append(view.Indicators, Indicator{Label: value, Selected: true})
		}
	}
	view.Text = strings.Join(selected, ", ")
}

func (p *Presenter) presentScalar(view *View, variant fieldtype.Variant, text string) {
	view.Display = DisplayText
	view.Text = text

	switch variant.Kind {
	case fieldtype.KindTextarea:
		view.Display = DisplayMultiline
		view.Lines = splitLines(text)
	case fieldtype.KindNumber:
		view.Text = formatNumber(p.locale, text)
	case fieldtype.KindDate:
		view.Text = formatDate(p.locale, text)
	case fieldtype.KindEmail:
		view.Display = DisplayLink
		view.Text = strings.TrimSpace(text)
		view.Link = &Link{Href: "mailto:" + view.Text, Text: view.Text}
	case fieldtype.KindTel:
		view.Display = DisplayLink
		view.Text = strings.TrimSpace(text)
		view.Link = &Link{Href: "tel:" + telTarget(view.Text), Text: view.Text}
	}
}

func (p *Presenter) presentFile(view *View, field model.FieldDefinition, ref model.FileRef) {
	name := ref.Name
	switch {
	case name != "" && name != ref.Handle:
	case ref.Handle != "":
		// Bare handles are owner paths; show the file name only.
		name = path.Base(ref.Handle)
	default:
		name = path.Base(ref.URL)
	}

	file := &File{
		Name:        name,
		Kind:        fileKind(name, ref.ContentType),
		ContentType: ref.ContentType,
		Bytes:       ref.Size,
		URL:         render.SafeURL(ref.URL),
	}
	if file.URL == "" {
		file.URL = render.SafeURL(field.Locator)
	}
	if ref.Size > 0 {
		file.Size = fieldtype.FormatSize(ref.Size)
	}

	if file.URL == "" {
		file.Action = p.t(render.MsgFileUnavailable)
	} else {
		file.Action = p.t(render.MsgDownload)
		if file.Kind.Previewable() && p.previewer != nil {
			if preview, err := p.previewer.Preview(*file); err == nil {
				file.Preview = preview
				file.Open = p.t(render.MsgOpenFile)
			}
		}
	}

	view.Display = DisplayFile
	view.File = file
	view.Text = name
	if file.Size != "" {
		view.Text += " (" + file.Size + ")"
	}
}

func displayLabel(field model.FieldDefinition) string {
	label := strings.TrimSpace(render.PlainText(field.Label))
	if label == "" {
		return model.DefaultLabeler(field.Name)
	}
	return label
}

// optionLabel returns the label of the option matching stored. Options are
// their own labels; a stored value with no matching option is returned as is.
func optionLabel(field model.FieldDefinition, stored string) (string, bool) {
	for _, option := range field.Options {
		if option == stored {
			return option, true
		}
	}
	return stored, false
}

func missing(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
