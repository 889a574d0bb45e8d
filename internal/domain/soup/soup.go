// Package soup turns raw catalog metadata into the text unit that gets vectorized.
package soup

import (
	"strings"

	"github.com/kailas-cloud/moviematch/internal/domain/movie"
)

// NormalizeGenres lowercases the pipe-delimited tags and emits the list twice,
// so genre terms outweigh title terms after TF-IDF weighting.
// Returns "" for a missing value or the no-genres sentinel.
func NormalizeGenres(raw string) string {
	if raw == "" || raw == movie.NoGenres {
		return ""
	}
	parts := make([]string, 0, strings.Count(raw, "|")+1)
	for _, g := range strings.Split(raw, "|") {
		if g == "" {
			continue
		}
		parts = append(parts, strings.ToLower(strings.TrimSpace(g)))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(append(parts, parts...), " ")
}

// CleanTitle collapses whitespace runs to a single space and trims the ends.
// Case is preserved for display.
func CleanTitle(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Build returns the soup for one catalog item: clean title, a space, normalized genres.
func Build(title, genres string) string {
	return CleanTitle(title) + " " + NormalizeGenres(genres)
}
