package moviematch

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/domain/movie"
	"github.com/kailas-cloud/moviematch/internal/domain/recommendation"
	"github.com/kailas-cloud/moviematch/internal/domain/tfidf"
	"github.com/kailas-cloud/moviematch/internal/repository/catalog"
	"github.com/kailas-cloud/moviematch/internal/usecase/recommend"
)

// Movie is one catalog row.
type Movie struct {
	ID     int64
	Title  string
	Genres string
}

// Result is a ranked recommendation list.
type Result = recommendation.Result

// Item is one recommended movie.
type Item = recommendation.Item

// Recommender fits a catalog and answers similarity queries.
// Safe for concurrent use, including re-fitting while queries run.
type Recommender struct {
	svc         *recommend.Service
	defaultTopN int
	logger      *zap.Logger
}

// New creates an unfitted Recommender.
func New(opts ...Option) *Recommender {
	cfg := &recommenderConfig{
		minDF:          tfidf.DefaultOptions().MinDF,
		ngramMax:       tfidf.DefaultOptions().NGramMax,
		matchThreshold: recommend.DefaultConfig().MatchThreshold,
		defaultTopN:    DefaultTopN,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.defaultTopN <= 0 {
		cfg.defaultTopN = DefaultTopN
	}

	svc := recommend.New(recommend.Config{
		Vectorizer:     tfidf.Options{MinDF: cfg.minDF, NGramMax: cfg.ngramMax},
		MatchThreshold: cfg.matchThreshold,
	}, nil, cfg.logger)

	return &Recommender{svc: svc, defaultTopN: cfg.defaultTopN, logger: cfg.logger}
}

// Fit builds the vector space over movies, replacing any previous fit.
// On error the previous fit stays in place.
func (r *Recommender) Fit(ctx context.Context, movies []Movie) error {
	rows := make([]movie.Movie, len(movies))
	for i, m := range movies {
		rows[i] = movie.Reconstruct(m.ID, m.Title, m.Genres)
	}
	return r.fit(ctx, rows)
}

// FitFile reads a movies.csv (movieId,title,genres) and fits it.
func (r *Recommender) FitFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("moviematch: open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := catalog.Read(ctx, f, r.logger)
	if err != nil {
		return fmt.Errorf("moviematch: read %s: %w", path, err)
	}
	return r.fit(ctx, rows)
}

func (r *Recommender) fit(ctx context.Context, rows []movie.Movie) error {
	if _, err := r.svc.Fit(ctx, rows); err != nil {
		return fmt.Errorf("moviematch: %w", err)
	}
	return nil
}

// Fitted reports whether a model is available.
func (r *Recommender) Fitted() bool { return r.svc.Model() != nil }

// Size returns the number of fitted movies, 0 before Fit.
func (r *Recommender) Size() int {
	if m := r.svc.Model(); m != nil {
		return m.Size()
	}
	return 0
}

// RecommendByTitle returns the topN movies most similar to the catalog title
// closest to title. The matched movie itself is never returned.
// topN <= 0 uses the default (10).
func (r *Recommender) RecommendByTitle(ctx context.Context, title string, topN int) (Result, error) {
	res, err := r.svc.ByTitle(ctx, title, r.topN(topN))
	if err != nil {
		return Result{}, fmt.Errorf("moviematch: %w", err)
	}
	return res, nil
}

// RecommendByKeywords returns the topN movies most similar to free text.
// A query with no known term yields zero similarities and KnownTerms == 0.
// topN <= 0 uses the default (10).
func (r *Recommender) RecommendByKeywords(ctx context.Context, text string, topN int) (Result, error) {
	res, err := r.svc.ByKeywords(ctx, text, r.topN(topN))
	if err != nil {
		return Result{}, fmt.Errorf("moviematch: %w", err)
	}
	return res, nil
}

func (r *Recommender) topN(n int) int {
	if n <= 0 {
		return r.defaultTopN
	}
	return n
}
