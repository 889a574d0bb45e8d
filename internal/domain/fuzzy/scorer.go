// Package fuzzy scores approximate string matches on a 0..100 scale and
// resolves free-text titles against a catalog.
package fuzzy

import (
	"sort"
	"strings"
)

// Scorer compares two processed strings.
type Scorer func(a, b string) float64

// Ratio is the normalized indel similarity: 2*LCS / (len(a)+len(b)) * 100.
func Ratio(a, b string) float64 {
	return runeRatio([]rune(a), []rune(b))
}

func runeRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcs(a, b)) / float64(total)
}

// lcs returns the length of the longest common subsequence.
func lcs(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// PartialRatio is the best Ratio between the shorter string and any
// equally long window of the longer one, including windows clipped at
// either end.
func PartialRatio(a, b string) float64 {
	s, l := []rune(a), []rune(b)
	if len(s) > len(l) {
		s, l = l, s
	}
	if len(s) == 0 {
		if len(l) == 0 {
			return 100
		}
		return 0
	}

	chars := make(map[rune]struct{}, len(s))
	for _, r := range s {
		chars[r] = struct{}{}
	}
	has := func(r rune) bool {
		_, ok := chars[r]
		return ok
	}

	n := len(s)
	best := 0.0
	consider := func(win []rune) bool {
		if score := runeRatio(s, win); score > best {
			best = score
		}
		return best == 100
	}

	// Prefix windows shorter than s.
	for i := 1; i < n; i++ {
		if !has(l[i-1]) {
			continue
		}
		if consider(l[:i]) {
			return 100
		}
	}
	// Full-length windows.
	for start := 0; start+n <= len(l); start++ {
		if !has(l[start]) && !has(l[start+n-1]) {
			continue
		}
		if consider(l[start : start+n]) {
			return 100
		}
	}
	// Suffix windows shorter than s.
	for start := len(l) - n + 1; start < len(l); start++ {
		if start < 0 || !has(l[start]) {
			continue
		}
		if consider(l[start:]) {
			return 100
		}
	}
	return best
}

func sortedTokens(s string) []string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return tokens
}

// TokenSortRatio is Ratio over the alphabetically sorted tokens.
func TokenSortRatio(a, b string) float64 {
	return Ratio(strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " "))
}

type tokenSets struct {
	sect, diffAB, diffBA []string
}

func splitSets(a, b string) tokenSets {
	setA := uniqueSorted(strings.Fields(a))
	setB := uniqueSorted(strings.Fields(b))
	inB := make(map[string]struct{}, len(setB))
	for _, t := range setB {
		inB[t] = struct{}{}
	}
	inA := make(map[string]struct{}, len(setA))
	for _, t := range setA {
		inA[t] = struct{}{}
	}

	var ts tokenSets
	for _, t := range setA {
		if _, ok := inB[t]; ok {
			ts.sect = append(ts.sect, t)
		} else {
			ts.diffAB = append(ts.diffAB, t)
		}
	}
	for _, t := range setB {
		if _, ok := inA[t]; !ok {
			ts.diffBA = append(ts.diffBA, t)
		}
	}
	return ts
}

func uniqueSorted(tokens []string) []string {
	sort.Strings(tokens)
	out := tokens[:0]
	for i, t := range tokens {
		if i == 0 || t != tokens[i-1] {
			out = append(out, t)
		}
	}
	return out
}

// TokenSetRatio compares the shared tokens against each side's remainder.
// A string whose tokens are a subset of the other's scores 100.
func TokenSetRatio(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	ts := splitSets(a, b)
	if len(ts.sect) > 0 && (len(ts.diffAB) == 0 || len(ts.diffBA) == 0) {
		return 100
	}

	sect := strings.Join(ts.sect, " ")
	diffAB := strings.Join(ts.diffAB, " ")
	diffBA := strings.Join(ts.diffBA, " ")

	best := Ratio(diffAB, diffBA)
	if sect == "" {
		return best
	}
	// sect+diff strings share the sect prefix, joined by a space.
	withAB := sect + " " + diffAB
	withBA := sect + " " + diffBA
	for _, score := range []float64{
		Ratio(sect, withAB),
		Ratio(sect, withBA),
		Ratio(withAB, withBA),
	} {
		if score > best {
			best = score
		}
	}
	return best
}

// TokenRatio is the larger of TokenSortRatio and TokenSetRatio.
func TokenRatio(a, b string) float64 {
	return max(TokenSortRatio(a, b), TokenSetRatio(a, b))
}

// PartialTokenRatio is PartialRatio over the sorted token strings and the
// token set differences. Any shared token scores 100.
func PartialTokenRatio(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	ts := splitSets(a, b)
	if len(ts.sect) > 0 {
		return 100
	}
	best := PartialRatio(strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " "))
	diffAB := strings.Join(ts.diffAB, " ")
	diffBA := strings.Join(ts.diffBA, " ")
	if score := PartialRatio(diffAB, diffBA); score > best {
		best = score
	}
	return best
}

const (
	unbaseScale      = 0.95
	partialScale     = 0.9
	longPartialScale = 0.6
	partialLenRatio  = 1.5
	longLenRatio     = 8.0
)

// WRatio combines the scorers with weights that depend on how different the
// two lengths are.
func WRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))
	end := Ratio(a, b)

	if lenRatio < partialLenRatio {
		return max(end, TokenRatio(a, b)*unbaseScale)
	}

	scale := partialScale
	if lenRatio >= longLenRatio {
		scale = longPartialScale
	}
	end = max(end, PartialRatio(a, b)*scale)
	return max(end, PartialTokenRatio(a, b)*unbaseScale*scale)
}
