package domain

import (
	"context"

	"github.com/kailas-cloud/moviematch/internal/domain/recommendation"
)

// Recommender is the shared query contract between layers.
type Recommender interface {
	ByTitle(ctx context.Context, title string, topN int) (recommendation.Result, error)
	ByKeywords(ctx context.Context, text string, topN int) (recommendation.Result, error)
	// Fingerprint identifies the fitted catalog; "" before fit.
	Fingerprint() string
}
