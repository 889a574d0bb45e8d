package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/moviematch/internal/domain"
)

// DefaultThreshold is the minimum WRatio score accepted as a title match.
const DefaultThreshold = 60.0

// Processor prepares a string before scoring.
type Processor func(string) string

// Default lowercases, strips accents, replaces non-alphanumerics with spaces
// and collapses whitespace.
func Default(s string) string {
	// transform.Chain keeps state, so build one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(mapped), " ")
}

// Match is the best choice found by ExtractOne.
type Match struct {
	Choice string
	Index  int
	Score  float64
}

// ExtractOne returns the highest-scoring processed choice. Ties keep the
// earliest choice. ok is false when choices is empty.
func ExtractOne(query string, choices []string, scorer Scorer) (Match, bool) {
	if len(choices) == 0 {
		return Match{}, false
	}
	best := Match{Index: -1, Score: -1}
	for i, c := range choices {
		if score := scorer(query, c); score > best.Score {
			best = Match{Choice: c, Index: i, Score: score}
		}
	}
	return best, true
}

// Resolver maps free-text titles onto a fixed list of catalog titles.
type Resolver struct {
	titles    []string
	processed []string
	threshold float64
}

// NewResolver processes titles once with Default. threshold <= 0 uses DefaultThreshold.
func NewResolver(titles []string, threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	processed := make([]string, len(titles))
	for i, t := range titles {
		processed[i] = Default(t)
	}
	return &Resolver{titles: titles, processed: processed, threshold: threshold}
}

// Threshold returns the acceptance score.
func (r *Resolver) Threshold() float64 { return r.threshold }

// Resolve returns the best matching original title and its score.
// Scores below the threshold yield a *domain.NoMatchError.
func (r *Resolver) Resolve(query string) (string, float64, error) {
	m, ok := ExtractOne(Default(query), r.processed, WRatio)
	if !ok {
		return "", 0, domain.NewNoMatch(query, "", 0)
	}
	if m.Score < r.threshold {
		return "", m.Score, domain.NewNoMatch(query, r.titles[m.Index], m.Score)
	}
	return r.titles[m.Index], m.Score, nil
}
