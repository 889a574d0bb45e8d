package health

import (
	"context"
	"time"
)

// CachePinger checks result cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ModelState exposes the fitted model generation.
type ModelState interface {
	// ModelID returns "" before the first fit.
	ModelID() string
	// FittedAt returns the zero time before the first fit.
	FittedAt() time.Time
}
