package bdrom

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "MOVIE_2024", want: "MOVIE_2024"},
		{raw: "  padded  ", want: "padded"},
		{raw: "a/b\\c", want: "a_b_c"},
		{raw: "tab\there", want: "tabhere"},
		{raw: "..", want: ""},
		{raw: "Café", want: "Café"},
		{raw: "", want: ""},
	}
	for _, tt := range tests {
		if got := SanitizeLabel(tt.raw); got != tt.want {
			t.Errorf("SanitizeLabel(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestChooseLabelFallback(t *testing.T) {
	if got := chooseLabel("", " ", ".."); got != DefaultLabel {
		t.Fatalf("chooseLabel = %q, want %q", got, DefaultLabel)
	}
	if got := chooseLabel("", "second"); got != "second" {
		t.Fatalf("chooseLabel = %q", got)
	}
}

func TestCategoryNames(t *testing.T) {
	if CategorySSIF.String() != "SSIF" || CategoryMeta.String() != "META" {
		t.Fatalf("unexpected names %s %s", CategorySSIF, CategoryMeta)
	}
	if Category(99).String() != "UNKNOWN" {
		t.Fatal("out of range category should be UNKNOWN")
	}
	if !CategoryStream.Capped() || !CategorySSIF.Capped() || CategoryMeta.Capped() {
		t.Fatal("unexpected Capped classification")
	}
}
