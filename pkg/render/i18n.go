package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. err is ErrMissingTranslator when no translator was configured.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

var (
	// ErrMissingTranslator is passed to MissingTranslationHandler when no
	// translator is configured.
	ErrMissingTranslator = errors.New("render: translator not configured")
	// ErrMissingMessage is returned by Catalog for unknown keys.
	ErrMissingMessage = errors.New("render: message not found")
)

func missingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

// Message keys shared by the fill-time renderers, validation and the
// presenter.
const (
	MsgRequired        = "field.required"
	MsgInvalidType     = "field.invalid_type"
	MsgInvalidEmail    = "field.invalid_email"
	MsgInvalidTel      = "field.invalid_tel"
	MsgInvalidNumber   = "field.invalid_number"
	MsgInvalidDate     = "field.invalid_date"
	MsgNotAnOption     = "field.not_an_option"
	MsgFileTooLarge    = "field.file_too_large"
	MsgFileType        = "field.file_type"
	MsgFileMaxSize     = "form.file_max_size"
	MsgFileCurrent     = "form.file_current"
	MsgFormInvalid     = "form.invalid"
	MsgSubmit          = "form.submit"
	MsgSelectEmpty     = "form.select_empty"
	MsgNotProvided     = "present.not_provided"
	MsgNoSelection     = "present.no_selection"
	MsgYes             = "present.yes"
	MsgNo              = "present.no"
	MsgOpenFile        = "present.open_file"
	MsgFileUnavailable = "present.file_unavailable"
	MsgDownload        = "present.download"
)

// Catalog is a locale → key → format string table. Lookups match the
// requested locale against the catalog's languages and fall back to the first
// registered language.
type Catalog struct {
	mu       sync.RWMutex
	tags     []language.Tag
	messages map[language.Tag]map[string]string
	matcher  language.Matcher
}

// NewCatalog builds a catalog from locale-keyed message tables. Locales that
// do not parse are ignored.
func NewCatalog(tables map[string]map[string]string) *Catalog {
	c := &Catalog{messages: make(map[language.Tag]map[string]string)}
	// English first so it is the fallback.
	if msgs, ok := tables["en"]; ok {
		c.add(language.English, msgs)
	}
	for locale, msgs := range tables {
		tag, err := language.Parse(locale)
		if err != nil || tag == language.English {
			continue
		}
		c.add(tag, msgs)
	}
	return c
}

// Add merges messages into the given locale.
func (c *Catalog) Add(locale string, messages map[string]string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("render: parse locale %q: %w", locale, err)
	}
	c.add(tag, messages)
	return nil
}

func (c *Catalog) add(tag language.Tag, messages map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	table, ok := c.messages[tag]
	if !ok {
		table = make(map[string]string, len(messages))
		c.messages[tag] = table
		c.tags = append(c.tags, tag)
		c.matcher = language.NewMatcher(c.tags)
	}
	for key, value := range messages {
		table[key] = value
	}
}

// Locales returns the catalog's languages in registration order.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.tags))
	for _, tag := range c.tags {
		out = append(out, tag.String())
	}
	return out
}

// Translate implements Translator. args are applied with fmt.Sprintf.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.tags) == 0 {
		return "", ErrMissingMessage
	}
	tag := c.tags[0]
	if requested, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		_, idx, _ := c.matcher.Match(requested)
		tag = c.tags[idx]
	}

	format, ok := c.messages[tag][key]
	if !ok {
		format, ok = c.messages[c.tags[0]][key]
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingMessage, key)
	}
	if len(args) == 0 {
		return format, nil
	}
	return fmt.Sprintf(format, args...), nil
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the built-in English and French messages.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = NewCatalog(map[string]map[string]string{
			"en": {
				MsgRequired:        "This field is required.",
				MsgInvalidType:     "This value has the wrong type.",
				MsgInvalidEmail:    "Enter a valid email address.",
				MsgInvalidTel:      "Enter a valid phone number.",
				MsgInvalidNumber:   "Enter a number.",
				MsgInvalidDate:     "Enter a valid date.",
				MsgNotAnOption:     "Select one of the available options.",
				MsgFileTooLarge:    "The file must be %s or smaller.",
				MsgFileType:        "Allowed file types: %s.",
				MsgFileMaxSize:     "Maximum size: %s",
				MsgFileCurrent:     "Current file: %s",
				MsgFormInvalid:     "Please correct the highlighted fields.",
				MsgSubmit:          "Submit",
				MsgSelectEmpty:     "Select an option",
				MsgNotProvided:     "Not provided",
				MsgNoSelection:     "No selection",
				MsgYes:             "Yes",
				MsgNo:              "No",
				MsgOpenFile:        "Open file",
				MsgFileUnavailable: "File unavailable",
				MsgDownload:        "Download",
			},
			"fr": {
				MsgRequired:        "Ce champ est obligatoire.",
				MsgInvalidType:     "Cette valeur n'a pas le bon type.",
				MsgInvalidEmail:    "Saisissez une adresse e-mail valide.",
				MsgInvalidTel:      "Saisissez un numéro de téléphone valide.",
				MsgInvalidNumber:   "Saisissez un nombre.",
				MsgInvalidDate:     "Saisissez une date valide.",
				MsgNotAnOption:     "Choisissez l'une des options proposées.",
				MsgFileTooLarge:    "Le fichier ne doit pas dépasser %s.",
				MsgFileType:        "Types de fichiers autorisés : %s.",
				MsgFileMaxSize:     "Taille maximale : %s",
				MsgFileCurrent:     "Fichier actuel : %s",
				MsgFormInvalid:     "Veuillez corriger les champs signalés.",
				MsgSubmit:          "Envoyer",
				MsgSelectEmpty:     "Sélectionnez une option",
				MsgNotProvided:     "Non renseigné",
				MsgNoSelection:     "Aucune sélection",
				MsgYes:             "Oui",
				MsgNo:              "Non",
				MsgOpenFile:        "Ouvrir le fichier",
				MsgFileUnavailable: "Fichier indisponible",
				MsgDownload:        "Télécharger",
			},
		})
	})
	return defaultCatalog
}

// Translate resolves key through t, then the default catalog, then onMissing.
func Translate(t Translator, locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	var err error = ErrMissingTranslator
	if t != nil {
		var msg string
		msg, err = t.Translate(locale, key, args...)
		if err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if msg, catalogErr := DefaultCatalog().Translate(locale, key, args...); catalogErr == nil {
		return msg
	}
	return onMissing(locale, key, args, err)
}
