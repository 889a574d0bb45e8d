// Package catalog reads the movie catalog from the MovieLens CSV layout.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/domain/movie"
)

// Required header columns.
const (
	ColumnID     = "movieId"
	ColumnTitle  = "title"
	ColumnGenres = "genres"
)

// ErrBadHeader is returned when a required column is absent.
var ErrBadHeader = errors.New("catalog header missing required column")

// Repo loads movies from a data directory.
type Repo struct {
	path   string
	logger *zap.Logger
}

// New creates a Repo reading dir/movies.csv.
func New(dir string, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{path: filepath.Join(dir, "movies.csv"), logger: logger}
}

// Path returns the catalog file location.
func (r *Repo) Path() string { return r.path }

// List returns every movie in file order.
func (r *Repo) List(ctx context.Context) ([]movie.Movie, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	movies, err := Read(ctx, f, r.logger)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return movies, nil
}

// Read parses movieId,title,genres rows preserving order. Columns are located
// by header name. Rows whose id is not an integer are skipped with a warning.
func Read(ctx context.Context, src io.Reader, logger *zap.Logger) ([]movie.Movie, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrBadHeader)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := locate(header)
	if err != nil {
		return nil, err
	}

	var (
		movies  []movie.Movie
		skipped int
	)
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("read catalog: %w", err)
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		m, ok := parse(rec, cols)
		if !ok {
			skipped++
			logger.Warn("Skipping catalog row", zap.Int("line", line), zap.Strings("record", rec))
			continue
		}
		movies = append(movies, m)
	}

	if skipped > 0 {
		logger.Info("Catalog loaded with skipped rows", zap.Int("movies", len(movies)), zap.Int("skipped", skipped))
	}
	return movies, nil
}

type columns struct{ id, title, genres int }

func locate(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[h] = i
	}
	var c columns
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{ColumnID, &c.id},
		{ColumnTitle, &c.title},
		{ColumnGenres, &c.genres},
	} {
		i, ok := idx[want.name]
		if !ok {
			return columns{}, fmt.Errorf("%w: %s", ErrBadHeader, want.name)
		}
		*want.dst = i
	}
	return c, nil
}

func parse(rec []string, c columns) (movie.Movie, bool) {
	if c.id >= len(rec) {
		return movie.Movie{}, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rec[c.id]), 10, 64)
	if err != nil {
		return movie.Movie{}, false
	}
	m, err := movie.New(id, field(rec, c.title), field(rec, c.genres))
	if err != nil {
		return movie.Movie{}, false
	}
	return m, true
}

// field tolerates short rows: a missing value reads as "".
func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
