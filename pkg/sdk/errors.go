package sdk

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from API error codes. Use errors.Is() to check.
var (
	ErrNotFitted    = errors.New("model not fitted")
	ErrNoMatch      = errors.New("no close title match")
	ErrInvalidQuery = errors.New("invalid query")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	// BestMatch and Score are set for title_not_found.
	BestMatch string
	Score     float64
}

func (e *APIError) Error() string {
	return fmt.Sprintf("moviematch: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the API code to a sentinel.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "model_not_fitted":
		return ErrNotFitted
	case "title_not_found":
		return ErrNoMatch
	case "bad_request":
		return ErrInvalidQuery
	case "unauthorized":
		return ErrUnauthorized
	default:
		return nil
	}
}
