package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog signals a fit over zero catalog rows.
	ErrEmptyCatalog = errors.New("empty catalog")
	// ErrEmptyVocabulary signals that no term survived document-frequency pruning.
	ErrEmptyVocabulary = errors.New("empty vocabulary after pruning")
	// ErrNotFitted signals a query against a recommender that has no model yet.
	ErrNotFitted = errors.New("model not fitted")
	// ErrNoMatch signals that a title could not be resolved against the catalog.
	ErrNoMatch = errors.New("no close title match")
	// ErrInvalidQuery signals a malformed recommendation request.
	ErrInvalidQuery = errors.New("invalid query")
)

// NoMatchError wraps ErrNoMatch with the attempted title and the best candidate seen.
type NoMatchError struct {
	Title     string
	BestMatch string
	Score     float64
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%s for %q (best %q scored %.1f)", ErrNoMatch.Error(), e.Title, e.BestMatch, e.Score)
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }

// NewNoMatch creates a title resolution error.
func NewNoMatch(title, bestMatch string, score float64) error {
	return &NoMatchError{Title: title, BestMatch: bestMatch, Score: score}
}
