package sdk

// Movie is one recommended movie.
type Movie struct {
	MovieID    int64   `json:"movieId"`
	Title      string  `json:"title"`
	Genres     string  `json:"genres"`
	Similarity float64 `json:"similarity"`
}

// Recommendations is the server's ranked answer.
type Recommendations struct {
	Mode         string  `json:"mode"`
	Query        string  `json:"query"`
	MatchedTitle string  `json:"matched_title,omitempty"`
	MatchScore   float64 `json:"match_score,omitempty"`
	KnownTerms   int     `json:"known_terms"`
	Items        []Movie `json:"items"`
}

// Unmatched reports a keyword query with no term in the server's vocabulary.
func (r Recommendations) Unmatched() bool {
	return r.Mode == "keywords" && r.KnownTerms == 0
}
