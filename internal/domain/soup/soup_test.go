package soup

import (
	"strings"
	"testing"
)

func TestNormalizeGenres(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"two tags", "Comedy|Drama", "comedy drama comedy drama"},
		{"single", "Horror", "horror horror"},
		{"sentinel", "(no genres listed)", ""},
		{"missing", "", ""},
		{"whitespace and case", " Sci-Fi | Film-Noir", "sci-fi film-noir sci-fi film-noir"},
		{"empty parts skipped", "Action||War|", "action war action war"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeGenres(tc.raw); got != tc.want {
				t.Errorf("NormalizeGenres(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeGenres_EachTagTwice(t *testing.T) {
	got := NormalizeGenres("Comedy|Drama")
	for _, g := range []string{"comedy", "drama"} {
		if n := strings.Count(got, g); n != 2 {
			t.Errorf("%q appears %d times in %q, want 2", g, n, got)
		}
	}
	if strings.Index(got, "comedy") > strings.Index(got, "drama") {
		t.Errorf("split order not preserved: %q", got)
	}
}

func TestCleanTitle(t *testing.T) {
	tests := map[string]string{
		"  Toy   Story  (1995) ": "Toy Story (1995)",
		"Heat (1995)":            "Heat (1995)",
		"\tSe7en\n(1995)":        "Se7en (1995)",
		"":                       "",
	}
	for in, want := range tests {
		if got := CleanTitle(in); got != want {
			t.Errorf("CleanTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuild(t *testing.T) {
	got := Build(" Jumanji  (1995)", "Adventure|Children")
	want := "Jumanji (1995) adventure children adventure children"
	if got != want {
		t.Errorf("Build = %q, want %q", got, want)
	}
	if got := Build("Untitled", "(no genres listed)"); got != "Untitled " {
		t.Errorf("sentinel soup = %q", got)
	}
}
