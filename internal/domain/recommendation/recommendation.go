// Package recommendation holds the ranked output of a similarity query.
package recommendation

// Mode identifies how the query vector was produced.
type Mode string

// Query modes.
const (
	ModeTitle    Mode = "title"
	ModeKeywords Mode = "keywords"
)

// Item is one recommended movie.
type Item struct {
	MovieID    int64   `json:"movieId"`
	Title      string  `json:"title"`
	Genres     string  `json:"genres"`
	Similarity float64 `json:"similarity"`
}

// Result is an ordered recommendation list with query metadata.
type Result struct {
	Mode         Mode    `json:"mode"`
	Query        string  `json:"query"`
	MatchedTitle string  `json:"matched_title,omitempty"`
	MatchScore   float64 `json:"match_score,omitempty"`
	// KnownTerms counts query columns present in the vocabulary (keyword mode).
	KnownTerms int    `json:"known_terms"`
	Items      []Item `json:"items"`
}

// Len returns the number of items.
func (r Result) Len() int { return len(r.Items) }

// Unmatched reports a keyword query that shares no term with the vocabulary,
// so every similarity is zero.
func (r Result) Unmatched() bool {
	return r.Mode == ModeKeywords && r.KnownTerms == 0
}
