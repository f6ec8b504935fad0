package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns a field name into a display label for fields saved
// without one: "date_de_naissance" becomes "Date De Naissance" and
// "yearsOfExperience" becomes "Years Of Experience".
func DefaultLabeler(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})

	segments := make([]string, 0, len(words))
	for _, word := range words {
		for _, part := range splitCamel(word) {
			segments = append(segments, titleCase(part))
		}
	}
	return strings.Join(segments, " ")
}

func splitCamel(word string) []string {
	var (
		parts []string
		start int
		prev  rune
	)
	for i, r := range word {
		if i > 0 && isBoundary(prev, r) {
			parts = append(parts, word[start:i])
			start = i
		}
		prev = r
	}
	return append(parts, word[start:])
}

func isBoundary(prev, r rune) bool {
	return (unicode.IsLower(prev) && unicode.IsUpper(r)) ||
		(unicode.IsLetter(prev) && unicode.IsDigit(r)) ||
		(unicode.IsDigit(prev) && unicode.IsLetter(r))
}

func titleCase(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
