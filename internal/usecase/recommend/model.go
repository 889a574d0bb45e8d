package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/moviematch/internal/domain"
	"github.com/kailas-cloud/moviematch/internal/domain/fuzzy"
	"github.com/kailas-cloud/moviematch/internal/domain/movie"
	"github.com/kailas-cloud/moviematch/internal/domain/soup"
	"github.com/kailas-cloud/moviematch/internal/domain/tfidf"
)

// Model is the immutable fitted state: catalog, vector space and title lookup.
type Model struct {
	id          uuid.UUID
	fittedAt    time.Time
	fingerprint string
	movies      []movie.Movie
	vectorizer  *tfidf.Vectorizer
	matrix      *tfidf.Matrix
	resolver    *fuzzy.Resolver
	titleIndex  map[string]int
}

// BuildModel fits the vector space over movies in catalog order.
// Titles are whitespace-normalized before anything else sees them.
func BuildModel(movies []movie.Movie, opts tfidf.Options, threshold float64) (*Model, error) {
	if len(movies) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	cleaned := make([]movie.Movie, len(movies))
	titles := make([]string, len(movies))
	docs := make([]string, len(movies))
	index := make(map[string]int, len(movies))
	for i, m := range movies {
		title := soup.CleanTitle(m.Title())
		cleaned[i] = m.WithTitle(title)
		titles[i] = title
		docs[i] = soup.Build(title, m.Genres())
		index[strings.ToLower(title)] = i // duplicates: last row wins
	}

	vec, matrix, err := tfidf.Fit(docs, opts)
	if err != nil {
		return nil, fmt.Errorf("fit vector space: %w", err)
	}

	return &Model{
		id:          uuid.New(),
		fittedAt:    time.Now().UTC(),
		fingerprint: fingerprint(cleaned),
		movies:      cleaned,
		vectorizer:  vec,
		matrix:      matrix,
		resolver:    fuzzy.NewResolver(titles, threshold),
		titleIndex:  index,
	}, nil
}

// ID identifies this fit.
func (m *Model) ID() uuid.UUID { return m.id }

// FittedAt returns when the model was built.
func (m *Model) FittedAt() time.Time { return m.fittedAt }

// Fingerprint is a SHA-256 over the fitted catalog rows.
func (m *Model) Fingerprint() string { return m.fingerprint }

// Size returns the number of catalog rows.
func (m *Model) Size() int { return len(m.movies) }

// VocabularySize returns the number of vocabulary terms.
func (m *Model) VocabularySize() int { return m.vectorizer.VocabularySize() }

// Movie returns the catalog item at row.
func (m *Model) Movie(row int) movie.Movie { return m.movies[row] }

// Row looks up a clean title case-insensitively.
func (m *Model) Row(title string) (int, bool) {
	row, ok := m.titleIndex[strings.ToLower(soup.CleanTitle(title))]
	return row, ok
}

func fingerprint(movies []movie.Movie) string {
	h := sha256.New()
	for _, m := range movies {
		h.Write([]byte(strconv.FormatInt(m.ID(), 10)))
		h.Write([]byte{0})
		h.Write([]byte(m.Title()))
		h.Write([]byte{0})
		h.Write([]byte(m.Genres()))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
