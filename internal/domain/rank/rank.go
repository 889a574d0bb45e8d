// Package rank selects the nearest catalog rows for a query vector.
package rank

import (
	"container/heap"
	"math"
	"sort"

	"github.com/kailas-cloud/moviematch/internal/domain/tfidf"
)

// NoExclude disables self-exclusion (keyword mode).
const NoExclude = -1

// Hit is one ranked row.
type Hit struct {
	Row   int
	Score float64
}

// Rank scores every row of m against query and returns the topN best rows,
// ordered by score descending then row ascending. The exclude row is never
// returned. topN <= 0 yields an empty result.
func Rank(query tfidf.SparseVector, m *tfidf.Matrix, exclude, topN int) []Hit {
	if topN <= 0 || m == nil || m.Rows() == 0 {
		return []Hit{}
	}
	limit := m.Rows()
	if exclude >= 0 && exclude < m.Rows() {
		limit--
	}
	if topN > limit {
		topN = limit
	}
	if topN == 0 {
		return []Hit{}
	}

	h := make(minHeap, 0, topN)
	for row := 0; row < m.Rows(); row++ {
		if row == exclude {
			continue
		}
		hit := Hit{Row: row, Score: query.Dot(m.Row(row))}
		if len(h) < topN {
			heap.Push(&h, hit)
			continue
		}
		if better(hit, h[0]) {
			h[0] = hit
			heap.Fix(&h, 0)
		}
	}

	out := []Hit(h)
	sort.Slice(out, func(i, j int) bool { return better(out[i], out[j]) })
	return out
}

// Round4 rounds a similarity to four decimals.
func Round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

// better orders by score desc, then row asc.
func better(a, b Hit) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Row < b.Row
}

// minHeap keeps the worst retained hit at the root.
type minHeap []Hit

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(Hit)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
