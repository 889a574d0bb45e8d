package recommend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/domain"
	"github.com/kailas-cloud/moviematch/internal/domain/movie"
	"github.com/kailas-cloud/moviematch/internal/domain/rank"
	"github.com/kailas-cloud/moviematch/internal/domain/recommendation"
	"github.com/kailas-cloud/moviematch/internal/domain/tfidf"
	"github.com/kailas-cloud/moviematch/internal/logger"
)

// Config tunes fitting and title resolution.
type Config struct {
	Vectorizer     tfidf.Options
	MatchThreshold float64
}

// DefaultConfig returns MinDF=2, unigrams+bigrams and a 60 match threshold.
func DefaultConfig() Config {
	return Config{Vectorizer: tfidf.DefaultOptions(), MatchThreshold: 60}
}

// Service owns the fitted model and answers similarity queries.
// Safe for concurrent use; Fit swaps the model atomically.
type Service struct {
	cfg     Config
	model   atomic.Pointer[Model]
	metrics Observer
	logger  *zap.Logger
}

// New creates a Service. obs may be nil.
func New(cfg Config, obs Observer, log *zap.Logger) *Service {
	if obs == nil {
		obs = nopObserver{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cfg: cfg, metrics: obs, logger: log}
}

// Fit builds a new model from movies and replaces the current one.
// On error the previous model stays in place.
func (s *Service) Fit(ctx context.Context, movies []movie.Movie) (*Model, error) {
	start := time.Now()
	m, err := BuildModel(movies, s.cfg.Vectorizer, s.cfg.MatchThreshold)
	if err != nil {
		return nil, fmt.Errorf("fit %d movies: %w", len(movies), err)
	}
	s.model.Store(m)

	took := time.Since(start)
	s.metrics.ObserveFit(m.Size(), m.VocabularySize(), took)
	s.log(ctx).Info("Model fitted",
		zap.String("model_id", m.ID().String()),
		zap.Int("movies", m.Size()),
		zap.Int("vocabulary", m.VocabularySize()),
		zap.String("fingerprint", m.Fingerprint()[:12]),
		zap.Duration("duration", took),
	)
	return m, nil
}

// Model returns the current model or nil before the first fit.
func (s *Service) Model() *Model { return s.model.Load() }

// Fingerprint returns the current catalog fingerprint or "".
func (s *Service) Fingerprint() string {
	if m := s.model.Load(); m != nil {
		return m.Fingerprint()
	}
	return ""
}

// ModelID returns the current model generation id or "".
func (s *Service) ModelID() string {
	if m := s.model.Load(); m != nil {
		return m.ID().String()
	}
	return ""
}

// FittedAt returns when the current model was built, or the zero time.
func (s *Service) FittedAt() time.Time {
	if m := s.model.Load(); m != nil {
		return m.FittedAt()
	}
	return time.Time{}
}

// ByTitle resolves title against the catalog and returns the topN most
// similar other movies.
func (s *Service) ByTitle(ctx context.Context, title string, topN int) (recommendation.Result, error) {
	start := time.Now()
	res, err := s.byTitle(title, topN)
	s.observe(ctx, recommendation.ModeTitle, start, err)
	return res, err
}

func (s *Service) byTitle(title string, topN int) (recommendation.Result, error) {
	m := s.model.Load()
	if m == nil {
		return recommendation.Result{}, domain.ErrNotFitted
	}

	matched, score, err := m.resolver.Resolve(title)
	if err != nil {
		return recommendation.Result{}, fmt.Errorf("resolve title: %w", err)
	}
	row, ok := m.Row(matched)
	if !ok {
		return recommendation.Result{}, fmt.Errorf("title index missing %q: %w", matched, domain.ErrNoMatch)
	}

	hits := rank.Rank(m.matrix.Row(row), m.matrix, row, topN)
	return recommendation.Result{
		Mode:         recommendation.ModeTitle,
		Query:        title,
		MatchedTitle: matched,
		MatchScore:   rank.Round4(score),
		Items:        m.items(hits),
	}, nil
}

// ByKeywords ranks the catalog against free text. A query that shares no term
// with the vocabulary yields zero similarities and KnownTerms == 0.
func (s *Service) ByKeywords(ctx context.Context, text string, topN int) (recommendation.Result, error) {
	start := time.Now()
	res, err := s.byKeywords(text, topN)
	s.observe(ctx, recommendation.ModeKeywords, start, err)
	if err == nil && res.Unmatched() {
		s.log(ctx).Debug("Keyword query has no known terms", zap.String("query", text))
	}
	return res, err
}

func (s *Service) byKeywords(text string, topN int) (recommendation.Result, error) {
	m := s.model.Load()
	if m == nil {
		return recommendation.Result{}, domain.ErrNotFitted
	}

	q := m.vectorizer.Transform(text)
	hits := rank.Rank(q, m.matrix, rank.NoExclude, topN)
	return recommendation.Result{
		Mode:       recommendation.ModeKeywords,
		Query:      text,
		KnownTerms: q.Len(),
		Items:      m.items(hits),
	}, nil
}

func (m *Model) items(hits []rank.Hit) []recommendation.Item {
	items := make([]recommendation.Item, len(hits))
	for i, h := range hits {
		mv := m.movies[h.Row]
		items[i] = recommendation.Item{
			MovieID:    mv.ID(),
			Title:      mv.Title(),
			Genres:     mv.Genres(),
			Similarity: rank.Round4(h.Score),
		}
	}
	return items
}

func (s *Service) observe(ctx context.Context, mode recommendation.Mode, start time.Time, err error) {
	took := time.Since(start)
	s.metrics.ObserveQuery(mode, statusOf(err), took)
	if err != nil {
		s.log(ctx).Debug("Recommendation query failed",
			zap.String("mode", string(mode)),
			zap.Duration("duration", took),
			zap.Error(err),
		)
	}
}

// log prefers the request-scoped logger.
func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, s.logger)
}
