package moviematch

import "github.com/kailas-cloud/moviematch/internal/domain"

// Errors returned by Recommender; match them with errors.Is.
var (
	ErrEmptyCatalog    = domain.ErrEmptyCatalog
	ErrEmptyVocabulary = domain.ErrEmptyVocabulary
	ErrNotFitted       = domain.ErrNotFitted
	ErrNoMatch         = domain.ErrNoMatch
)

// NoMatchError carries the unresolved title and the closest candidate.
type NoMatchError = domain.NoMatchError
