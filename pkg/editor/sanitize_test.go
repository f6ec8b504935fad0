package editor

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Date de Naissance!!", "date_de_naissance"},
		{"123abc", "a23abc"},
		{"already_ok", "already_ok"},
		{"Année d'obtention", "ann_e_d_obtention"},
		{"__private", "aprivate"},
		{"", "a"},
		{"!!!", "a"},
		{"a--b  c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.raw); got != tt.want {
			t.Fatalf("SanitizeName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
		if !ValidName(SanitizeName(tt.raw)) {
			t.Fatalf("SanitizeName(%q) produced invalid identifier", tt.raw)
		}
	}
}
