// Package namedist provides the string and vector distance signals used to
// decide whether an extracted name matches a watchlist record: cosine
// similarity over embeddings, a token-set Levenshtein distance tolerant of
// word order and declension noise, and a surname+initials comparer for
// person names.
package namedist

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// unmatchedTokenPenalty is added for every token with no exact counterpart
// on the other side.
const unmatchedTokenPenalty = 2

// Cosine computes cosine similarity between two vectors. It returns -1.0
// when the lengths differ or either vector is empty; -1.0 is a sentinel for
// "incomparable", not a valid similarity.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return -1.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// TokenSetDistance measures how far apart two free-text names are. Both
// strings are lowercased and split on whitespace into token sets (duplicates
// collapsed). Every token of s1 contributes its minimum Levenshtein distance
// to any token of s2, and each token without an exact counterpart on the
// other side adds a fixed penalty.
//
// The metric is asymmetric: only s1's tokens contribute Levenshtein minima,
// so swapping the arguments can change the result. Callers treat s1 as the
// query side.
func TokenSetDistance(s1, s2 string) int {
	tokens1 := tokenSet(s1)
	tokens2 := tokenSet(s2)

	onlyIn1 := 0
	for t := range tokens1 {
		if _, ok := tokens2[t]; !ok {
			onlyIn1++
		}
	}
	onlyIn2 := 0
	for t := range tokens2 {
		if _, ok := tokens1[t]; !ok {
			onlyIn2++
		}
	}

	levSum := 0
	for t1 := range tokens1 {
		min := utf8.RuneCountInString(t1)
		for t2 := range tokens2 {
			if d := levenshtein.ComputeDistance(t1, t2); d < min {
				min = d
			}
		}
		levSum += min
	}

	return levSum + (onlyIn1+onlyIn2)*unmatchedTokenPenalty
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(strings.ToLower(s)) {
		set[t] = struct{}{}
	}
	return set
}

// KeepCyrillicAndDot strips a name down to the characters the embedding
// provider can work with: Cyrillic letters and the period. An empty result
// means the name is unembeddable (pure Latin or symbol form).
func KeepCyrillicAndDot(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'А' && r <= 'я') || r == 'Ё' || r == 'ё' || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
