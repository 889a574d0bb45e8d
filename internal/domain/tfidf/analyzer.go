package tfidf

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into runs of two or more word
// characters (letters, digits, underscore). Shorter runs are discarded.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	var tokens []string
	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tokens = append(tokens, lower[start:end])
		}
		start, runes = -1, 0
	}
	for i, r := range lower {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(lower))
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Analyze produces the term stream of a document: tokens minus stop words,
// followed by the bigrams of the filtered stream when ngramMax >= 2.
func Analyze(text string, ngramMax int) []string {
	raw := Tokenize(text)
	tokens := raw[:0]
	for _, t := range raw {
		if !IsStopWord(t) {
			tokens = append(tokens, t)
		}
	}
	if ngramMax < 2 || len(tokens) < 2 {
		return tokens
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
