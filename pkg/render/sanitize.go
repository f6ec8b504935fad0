package render

import (
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy

	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeHelpText keeps the small set of inline formatting authors use in
// help text (emphasis, line breaks, links) and strips everything else.
func SanitizeHelpText(raw string) string {
	helpPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "br", "code")
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		helpPolicy = p
	})
	return strings.TrimSpace(helpPolicy.Sanitize(raw))
}

// PlainText strips all markup from author-supplied text such as labels and
// option values. The result is unescaped; templates escape it on output.
func PlainText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
}

// SafeURL returns raw when it is an http(s) or relative URL and "" otherwise,
// so file locators can be written into href, src and data attributes.
func SafeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		if parsed.Host == "" {
			return ""
		}
		return raw
	case "":
		return raw
	default:
		return ""
	}
}
