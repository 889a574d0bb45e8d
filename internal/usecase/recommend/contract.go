package recommend

import (
	"errors"
	"time"

	"github.com/kailas-cloud/moviematch/internal/domain"
	"github.com/kailas-cloud/moviematch/internal/domain/recommendation"
)

// Observer records fit and query measurements.
type Observer interface {
	ObserveFit(movies, vocabulary int, took time.Duration)
	ObserveQuery(mode recommendation.Mode, status string, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveFit(int, int, time.Duration) {}

func (nopObserver) ObserveQuery(recommendation.Mode, string, time.Duration) {}

// Query status labels.
const (
	StatusOK        = "ok"
	StatusNotFitted = "not_fitted"
	StatusNoMatch   = "no_match"
	StatusInvalid   = "invalid"
	StatusError     = "error"
)

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, domain.ErrNotFitted):
		return StatusNotFitted
	case errors.Is(err, domain.ErrNoMatch):
		return StatusNoMatch
	case errors.Is(err, domain.ErrInvalidQuery):
		return StatusInvalid
	default:
		return StatusError
	}
}
