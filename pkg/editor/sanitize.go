package editor

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	invalidNameChars = regexp.MustCompile(`[^a-z0-9_]`)
	underscoreRuns   = regexp.MustCompile(`_+`)
	namePattern      = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// SanitizeName normalises a raw technical name: lowercase, every character
// outside [a-z0-9_] becomes "_", runs of "_" collapse, trailing "_" are
// trimmed and a leading non-letter is replaced with "a".
//
//	SanitizeName("Date de Naissance!!") == "date_de_naissance"
//	SanitizeName("123abc") == "a23abc"
func SanitizeName(raw string) string {
	name := strings.ToLower(raw)
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	name = strings.TrimRight(name, "_")
	if name == "" {
		return "a"
	}
	if first := name[0]; first < 'a' || first > 'z' {
		name = "a" + name[1:]
	}
	return name
}

// ValidName reports whether name already satisfies the identifier charset.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// uniqueName appends _2, _3, ... until name is not taken.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	for n := 2; ; n++ {
		candidate := name + "_" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}
