package render_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formfields/pkg/render"
)

func TestSanitizeHelpText(t *testing.T) {
	got := render.SanitizeHelpText(`Upload your <strong>CV</strong><script>alert(1)</script> <a href="javascript:alert(1)">here</a>`)
	if strings.Contains(got, "<script") || strings.Contains(got, "javascript:") {
		t.Fatalf("unsafe markup survived: %q", got)
	}
	if !strings.Contains(got, "<strong>CV</strong>") {
		t.Fatalf("expected emphasis to be kept, got %q", got)
	}
}

func TestPlainText(t *testing.T) {
	if got := render.PlainText(`<b>Niveau</b> d'études & diplômes`); got != "Niveau d'études & diplômes" {
		t.Fatalf("unexpected plain text %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	cases := map[string]string{
		"https://files.example.test/cv.pdf": "https://files.example.test/cv.pdf",
		"  http://files.example.test/a  ":   "http://files.example.test/a",
		"/uploads/10/cv.pdf":                "/uploads/10/cv.pdf",
		"cv.pdf":                            "cv.pdf",
		"javascript:alert(document.cookie)": "",
		"JavaScript:alert(1)":               "",
		"java\tscript:alert(1)":             "",
		"data:text/html;base64,PHNjcmlwdD4": "",
		"vbscript:msgbox(1)":                "",
		"https:///no-host":                  "",
		"":                                  "",
	}
	for raw, want := range cases {
		if got := render.SafeURL(raw); got != want {
			t.Errorf("SafeURL(%q) = %q, want %q", raw, got, want)
		}
	}
}
