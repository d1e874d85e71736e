// Package match implements the similarity scoring side of the pipeline:
// edit-distance based ratios, per-attribute matchers over normalized record
// columns, the threshold decision tree, and the pairwise matching engine.
package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Ratio computes a Levenshtein similarity ratio between two strings,
// scaled to [0,100]: (len(a)+len(b)-distance) / (len(a)+len(b)).
func Ratio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	lenSum := len([]rune(a)) + len([]rune(b))
	if lenSum == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (lenSum - dist) * 100 / lenSum
}

// TokenSortRatio compares two strings after lowercasing, splitting into
// whitespace tokens, sorting and rejoining them. Word order is irrelevant:
// "ABB Ltd" and "Ltd ABB" score 100.
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokenString(a), sortedTokenString(b))
}

// TokenSetRatio is an order- and duplicate-insensitive comparison. The token
// sets are split into intersection and per-side remainders; the best ratio
// among the three recombinations is returned, which makes a full subset
// score 100.
func TokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 100
	}

	var common, diffA, diffB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common = append(common, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(diffA)
	sort.Strings(diffB)

	base := strings.Join(common, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(diffA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(diffB, " "))

	best := Ratio(base, combinedA)
	if r := Ratio(base, combinedB); r > best {
		best = r
	}
	if r := Ratio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

// ShapeSignature maps every rune of s to its character class: 'L' for
// letters, 'N' for digits, 'O' for everything else. Serial-number-like
// tokens compare structurally equal when their signatures match, e.g.
// "6ES7" and "6GK1" are both "NLLN".
func ShapeSignature(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteByte('L')
		case unicode.IsDigit(r):
			b.WriteByte('N')
		default:
			b.WriteByte('O')
		}
	}
	return b.String()
}

func sortedTokenString(s string) string {
	toks := strings.Fields(strings.ToLower(s))
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}

func isAlphabetic(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
