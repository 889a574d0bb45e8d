package tfidf

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/kailas-cloud/moviematch/internal/domain"
)

const eps = 1e-9

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"title with year", "Toy Story (1995)", []string{"toy", "story", "1995"}},
		{"single chars dropped", "a b cd", []string{"cd"}},
		{"underscore is word char", "foo_bar-baz", []string{"foo_bar", "baz"}},
		{"hyphenated genre", "sci-fi", []string{"sci", "fi"}},
		{"unicode letters", "Amélie", []string{"amélie"}},
		{"empty", "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAnalyze_StopWordsRemovedBeforeBigrams(t *testing.T) {
	got := Analyze("The Lord of the Rings", 2)
	want := []string{"lord", "rings", "lord rings"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze = %v, want %v", got, want)
	}
}

func TestAnalyze_UnigramsOnly(t *testing.T) {
	got := Analyze("heat action action", 1)
	want := []string{"heat", "action", "action"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze = %v, want %v", got, want)
	}
}

func TestFit_EmptyCatalog(t *testing.T) {
	_, _, err := Fit(nil, DefaultOptions())
	if !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestFit_EmptyVocabulary(t *testing.T) {
	_, _, err := Fit([]string{"alpha", "beta"}, DefaultOptions())
	if !errors.Is(err, domain.ErrEmptyVocabulary) {
		t.Fatalf("expected ErrEmptyVocabulary, got %v", err)
	}
}

func TestFit_MinDFPrunesRareTerms(t *testing.T) {
	v, m, err := Fit([]string{"toy story", "toy soldiers", "heat"}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.VocabularySize() != 1 || v.Term(0) != "toy" {
		t.Fatalf("expected vocabulary [toy], got size %d", v.VocabularySize())
	}
	if _, ok := v.Column("story"); ok {
		t.Error("story appears once and should be pruned")
	}
	if m.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", m.Rows())
	}
	if !m.Row(2).IsZero() {
		t.Errorf("row without vocabulary terms should be zero, got %+v", m.Row(2))
	}
	if got := m.Row(0).Values[0]; math.Abs(got-1) > eps {
		t.Errorf("single-term row should have weight 1, got %f", got)
	}
}

func TestFit_SortedVocabularyAndSmoothedIDF(t *testing.T) {
	docs := []string{"comedy drama", "comedy drama", "comedy"}
	v, _, err := Fit(docs, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTerms := []string{"comedy", "comedy drama", "drama"}
	for i, w := range wantTerms {
		if v.Term(i) != w {
			t.Errorf("column %d = %q, want %q", i, v.Term(i), w)
		}
	}
	col, _ := v.Column("drama")
	if v.DocumentFrequency(col) != 2 {
		t.Errorf("df(drama) = %d, want 2", v.DocumentFrequency(col))
	}
	wantIDF := math.Log(4.0/3.0) + 1
	if math.Abs(v.IDF(col)-wantIDF) > eps {
		t.Errorf("idf(drama) = %f, want %f", v.IDF(col), wantIDF)
	}
	comedy, _ := v.Column("comedy")
	if math.Abs(v.IDF(comedy)-1) > eps {
		t.Errorf("idf of a term in every document = %f, want 1", v.IDF(comedy))
	}
}

func TestFit_RowsAreUnitLength(t *testing.T) {
	docs := []string{
		"Toy Story (1995) adventure animation adventure animation",
		"Jumanji (1995) adventure fantasy adventure fantasy",
		"Toy Story 2 (1999) adventure animation adventure animation",
	}
	_, m, err := Fit(docs, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < m.Rows(); i++ {
		if n := m.Row(i).Norm(); math.Abs(n-1) > 1e-9 {
			t.Errorf("row %d norm = %f, want 1", i, n)
		}
	}
	if m.Row(0).Dot(m.Row(2)) <= m.Row(0).Dot(m.Row(1)) {
		t.Error("sequel should be closer than an unrelated adventure")
	}
}

func TestTransform_DropsUnknownTerms(t *testing.T) {
	v, _, err := Fit([]string{"space war", "space opera", "war drama"}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	size := v.VocabularySize()

	q := v.Transform("space zeppelin")
	if q.Len() != 1 {
		t.Fatalf("expected 1 known term, got %d", q.Len())
	}
	if math.Abs(q.Norm()-1) > eps {
		t.Errorf("query norm = %f, want 1", q.Norm())
	}
	if z := v.Transform("xyzzy plugh"); !z.IsZero() {
		t.Errorf("unknown-only query should be zero, got %+v", z)
	}
	if v.VocabularySize() != size {
		t.Error("transform must not grow the vocabulary")
	}
}

func TestSparseVector_Dot(t *testing.T) {
	a := SparseVector{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := SparseVector{Indices: []int{2, 3, 5}, Values: []float64{4, 7, 1}}
	if got := a.Dot(b); math.Abs(got-11) > eps {
		t.Errorf("Dot = %f, want 11", got)
	}
	if got := a.Dot(SparseVector{}); got != 0 {
		t.Errorf("Dot with zero vector = %f, want 0", got)
	}
}
