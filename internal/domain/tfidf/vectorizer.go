// Package tfidf builds the item vector space: a vocabulary of unigrams and
// bigrams, smoothed IDF weights and one L2-normalized sparse row per document.
package tfidf

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/moviematch/internal/domain"
)

// Options controls vocabulary construction.
type Options struct {
	// MinDF drops terms that appear in fewer documents.
	MinDF int
	// NGramMax is the largest n-gram length (1 or 2).
	NGramMax int
}

// DefaultOptions returns MinDF=2 and unigrams plus bigrams.
func DefaultOptions() Options {
	return Options{MinDF: 2, NGramMax: 2}
}

// Vectorizer maps text to weighted sparse vectors over a frozen vocabulary.
type Vectorizer struct {
	opts  Options
	terms []string
	index map[string]int
	df    []int
	idf   []float64
}

// Matrix is the fitted item vector space, one row per input document.
type Matrix struct {
	rows []SparseVector
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return len(m.rows) }

// Row returns the i-th row. The returned vector must not be modified.
func (m *Matrix) Row(i int) SparseVector { return m.rows[i] }

// Fit builds the vocabulary from docs and returns the vectorizer plus the
// weighted document matrix in input order.
func Fit(docs []string, opts Options) (*Vectorizer, *Matrix, error) {
	if len(docs) == 0 {
		return nil, nil, domain.ErrEmptyCatalog
	}
	if opts.MinDF < 1 {
		opts.MinDF = 1
	}
	if opts.NGramMax < 1 {
		opts.NGramMax = 1
	}

	analyzed := make([][]string, len(docs))
	docFreq := make(map[string]int)
	for i, d := range docs {
		terms := Analyze(d, opts.NGramMax)
		analyzed[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			docFreq[t]++
		}
	}

	terms := make([]string, 0, len(docFreq))
	for t, n := range docFreq {
		if n >= opts.MinDF {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil, nil, fmt.Errorf("fit %d documents: %w", len(docs), domain.ErrEmptyVocabulary)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		opts:  opts,
		terms: terms,
		index: make(map[string]int, len(terms)),
		df:    make([]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for col, t := range terms {
		v.index[t] = col
		v.df[col] = docFreq[t]
		v.idf[col] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	m := &Matrix{rows: make([]SparseVector, len(docs))}
	for i, a := range analyzed {
		m.rows[i] = v.weigh(a)
	}
	return v, m, nil
}

// Transform vectorizes text with the fitted vocabulary. Unknown terms are dropped.
func (v *Vectorizer) Transform(text string) SparseVector {
	return v.weigh(Analyze(text, v.opts.NGramMax))
}

// VocabularySize returns the number of columns.
func (v *Vectorizer) VocabularySize() int { return len(v.terms) }

// Term returns the term of a column.
func (v *Vectorizer) Term(col int) string { return v.terms[col] }

// Column returns the column of a term.
func (v *Vectorizer) Column(term string) (int, bool) {
	col, ok := v.index[term]
	return col, ok
}

// DocumentFrequency returns the number of fitted documents containing the column's term.
func (v *Vectorizer) DocumentFrequency(col int) int { return v.df[col] }

// IDF returns the smoothed inverse document frequency of a column.
func (v *Vectorizer) IDF(col int) float64 { return v.idf[col] }

func (v *Vectorizer) weigh(terms []string) SparseVector {
	counts := make(map[int]int, len(terms))
	for _, t := range terms {
		if col, ok := v.index[t]; ok {
			counts[col]++
		}
	}
	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		vec.Indices = append(vec.Indices, col)
	}
	sort.Ints(vec.Indices)
	for _, col := range vec.Indices {
		vec.Values = append(vec.Values, float64(counts[col])*v.idf[col])
	}
	vec.normalize()
	return vec
}
