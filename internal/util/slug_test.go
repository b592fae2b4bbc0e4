package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Chi Siamo", "chi-siamo"},
		{"accents", "Attività del Circolo", "attivita-del-circolo"},
		{"punctuation", "Tesseramento 2026!", "tesseramento-2026"},
		{"multiple spaces", "a  b   c", "a-b-c"},
		{"leading and trailing", " -hello- ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"chi-siamo", "a", "page-2026"}
	invalid := []string{"", "-start", "end-", "two--hyphens", "Upper", "con spazi"}

	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
