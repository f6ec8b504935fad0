package presenter

import (
	"fmt"
	"path"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
)

// displayTag resolves the locale used by the x/text number printer.
func displayTag(locale string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		return language.English
	}
	return tag
}

// formatNumber groups thousands for display, keeping the number of fraction
// digits that was stored. Unparseable input is returned unchanged.
func formatNumber(locale, raw string) string {
	value, err := fieldtype.ParseNumber(raw)
	if err != nil {
		return raw
	}
	digits := fractionDigits(raw)
	printer := message.NewPrinter(displayTag(locale))
	return printer.Sprint(number.Decimal(value,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))
}

func fractionDigits(raw string) int {
	raw = strings.TrimSpace(raw)
	idx := strings.LastIndexAny(raw, ".,")
	if idx < 0 {
		return 0
	}
	n := 0
	for _, r := range raw[idx+1:] {
		if r < '0' || r > '9' {
			break
		}
		n++
	}
	return n
}

var dateLocales = language.NewMatcher([]language.Tag{
	language.English,
	language.French,
})

var frenchMonths = [12]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// formatDate renders a stored date as a long date ("March 5, 2024",
// "5 mars 2024"). Unparseable input is returned unchanged.
func formatDate(locale, raw string) string {
	t, err := fieldtype.ParseDate(raw)
	if err != nil {
		// older submissions stored full timestamps
		if t, err = time.Parse(time.RFC3339, strings.TrimSpace(raw)); err != nil {
			return raw
		}
	}
	_, idx, _ := dateLocales.Match(displayTag(locale))
	if idx == 1 {
		day := fmt.Sprint(t.Day())
		if t.Day() == 1 {
			day = "1er"
		}
		return fmt.Sprintf("%s %s %d", day, frenchMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2, 2006")
}

// telTarget strips a displayed phone number down to what a tel: link dials:
// digits and a leading plus sign.
func telTarget(display string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(display) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var fileKindsByExtension = map[string]FileKind{
	".png":  FileKindImage,
	".jpg":  FileKindImage,
	".jpeg": FileKindImage,
	".gif":  FileKindImage,
	".webp": FileKindImage,
	".svg":  FileKindImage,
	".bmp":  FileKindImage,
	".pdf":  FileKindPDF,
	".doc":  FileKindWord,
	".docx": FileKindWord,
	".odt":  FileKindWord,
	".rtf":  FileKindWord,
}

// fileKind infers the category from the extension, falling back to the
// content type for names without one.
func fileKind(name, contentType string) FileKind {
	if ext := strings.ToLower(path.Ext(name)); ext != "" {
		if kind, ok := fileKindsByExtension[ext]; ok {
			return kind
		}
		return FileKindOther
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return FileKindImage
	case contentType == "application/pdf":
		return FileKindPDF
	case contentType == "application/msword",
		strings.HasPrefix(contentType, "application/vnd.openxmlformats-officedocument.wordprocessingml"):
		return FileKindWord
	default:
		return FileKindOther
	}
}
