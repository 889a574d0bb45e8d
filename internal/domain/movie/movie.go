package movie

import "fmt"

// NoGenres is the MovieLens sentinel for a movie without genre tags.
const NoGenres = "(no genres listed)"

// Movie is a catalog item (immutable value object). Identity is the ID;
// titles are not guaranteed to be unique.
type Movie struct {
	id     int64
	title  string
	genres string
}

// New validates and creates a Movie. Title and genres may be empty:
// normalization tolerates missing metadata.
func New(id int64, title, genres string) (Movie, error) {
	if id < 0 {
		return Movie{}, fmt.Errorf("movie ID must be non-negative, got %d", id)
	}
	return Movie{id: id, title: title, genres: genres}, nil
}

// Reconstruct creates a Movie without validation.
func Reconstruct(id int64, title, genres string) Movie {
	return Movie{id: id, title: title, genres: genres}
}

// ID returns the movie identifier.
func (m Movie) ID() int64 { return m.id }

// Title returns the display title.
func (m Movie) Title() string { return m.title }

// Genres returns the raw pipe-delimited genre list.
func (m Movie) Genres() string { return m.genres }

// WithTitle returns a copy with the title replaced.
func (m Movie) WithTitle(title string) Movie {
	return Movie{id: m.id, title: title, genres: m.genres}
}
