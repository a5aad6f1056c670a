package textutil

import (
	"regexp"
	"strings"
)

// separatorPattern matches runs of whitespace and common ASCII/CJK
// punctuation that carry no signal for similarity comparison.
var separatorPattern = regexp.MustCompile(`[.,!?;:、，。！？；：\s]+`)

// Weights controls the blend of the two similarity components.
type Weights struct {
	Edit float64
	Word float64
}

// DefaultWeights favors edit distance over word overlap.
func DefaultWeights() Weights {
	return Weights{Edit: 0.7, Word: 0.3}
}

// Similarity scores how alike two texts are on a 0..1 scale using the
// default weights. Empty input on either side scores 0.
func Similarity(a, b string) float64 {
	return WeightedSimilarity(a, b, DefaultWeights())
}

// WeightedSimilarity scores how alike two texts are on a 0..1 scale.
// Texts are cleaned first (lowercased, separator runs collapsed); identical
// cleaned texts score 1. Otherwise the score blends normalized Levenshtein
// similarity with a Dice-style word overlap using the supplied weights.
func WeightedSimilarity(a, b string, w Weights) float64 {
	if a == "" || b == "" {
		return 0
	}

	cleanA := CleanText(a)
	cleanB := CleanText(b)
	if cleanA == cleanB {
		return 1
	}

	runesA := []rune(cleanA)
	runesB := []rune(cleanB)
	maxLen := len(runesA)
	if len(runesB) > maxLen {
		maxLen = len(runesB)
	}
	if maxLen == 0 {
		return 1
	}

	distance := Levenshtein(runesA, runesB)
	editSimilarity := 1 - float64(distance)/float64(maxLen)

	wordSimilarity := diceOverlap(strings.Fields(cleanA), strings.Fields(cleanB))

	return editSimilarity*w.Edit + wordSimilarity*w.Word
}

// CleanText lowercases text and collapses punctuation/whitespace runs into
// single spaces so cosmetic differences do not affect comparison.
func CleanText(text string) string {
	lowered := strings.ToLower(text)
	return strings.TrimSpace(separatorPattern.ReplaceAllString(lowered, " "))
}

// Levenshtein computes the edit distance between two rune slices using the
// two-row dynamic programming formulation.
func Levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j-1]+cost,
				prev[j]+1,
				curr[j-1]+1,
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// diceOverlap computes 2*|common| / (|a|+|b|) where a word from a counts as
// common when it appears anywhere in b. Returns 0 when either side is empty.
func diceOverlap(wordsA, wordsB []string) float64 {
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	inB := make(map[string]struct{}, len(wordsB))
	for _, word := range wordsB {
		inB[word] = struct{}{}
	}
	common := 0
	for _, word := range wordsA {
		if _, ok := inB[word]; ok {
			common++
		}
	}
	return 2 * float64(common) / float64(len(wordsA)+len(wordsB))
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
