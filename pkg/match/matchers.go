package match

import (
	"strings"

	"github.com/csafmatch/csafmatch/pkg/record"
)

// VersionWildcard matches every version on either side of a comparison.
const VersionWildcard = "vers:all/*"

// maxVersionSegments bounds how many dot segments of a version take part in
// the weighted comparison.
const maxVersionSegments = 16

// ProductWeights weight the three token groups of a product comparison:
// alphabetic tokens, pure-numeric tokens, and mixed (serial-like) tokens.
type ProductWeights struct {
	Alphabetic int `koanf:"alphabetic" validate:"gte=0"`
	Numeric    int `koanf:"numeric" validate:"gte=0"`
	Mixed      int `koanf:"mixed" validate:"gte=0"`
}

// DefaultNameWeights favor the mixed group: article numbers carry the most
// identity in product names.
var DefaultNameWeights = ProductWeights{Alphabetic: 1, Numeric: 1, Mixed: 2}

// DefaultFamilyWeights weight all groups equally.
var DefaultFamilyWeights = ProductWeights{Alphabetic: 1, Numeric: 1, Mixed: 1}

// MatchVendor scores two canonical vendor strings with a case-insensitive
// token-sort ratio. Missing input on either side is neutral, not a mismatch.
func MatchVendor(a, b string) record.Score {
	if a == "" || b == "" {
		return record.UnknownScore()
	}
	return record.ScoreOf(TokenSortRatio(strings.ToLower(a), strings.ToLower(b)))
}

// MatchKeyword scores two function-keyword sets: 100 when one side is a
// case-insensitive substring of the other, 0 when both are present but
// unrelated, neutral when either is missing.
func MatchKeyword(a, b string) record.Score {
	if a == "" || b == "" {
		return record.UnknownScore()
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return record.ScoreOf(100)
	}
	return record.ScoreOf(0)
}

// MatchProduct scores two product name or family strings.
//
// Full containment short-circuits to 100. Otherwise both strings are split
// into alphabetic, numeric and mixed token groups and each group is scored
// independently: the alphabetic and numeric groups by token-set ratio, the
// mixed group by structural comparison (see below). The final score is the
// weighted average over the groups that produced a value; when every group
// is without a value the result is 0, not neutral — conflicting tokens that
// failed the structural check must not look like missing data.
//
// Mixed-group scoring: for every cross pair of mixed tokens with equal
// length greater than 4, whose shape signatures match, exact string
// equality scores 100 and anything else 0; the minimum over all qualifying
// pairs wins, so one structural mismatch fails the whole group. When no
// pair qualifies the mixed tokens fold back into the alphabetic comparison
// and the group itself contributes no weight.
func MatchProduct(a, b string, weights ProductWeights) record.Score {
	if a == "" || b == "" {
		return record.UnknownScore()
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return record.ScoreOf(100)
	}

	alpha1, num1, mixed1 := tokenizeAndGroup(a)
	alpha2, num2, mixed2 := tokenizeAndGroup(b)

	mixedScore := record.NotApplicableScore()
	if len(mixed1) > 0 && len(mixed2) > 0 {
		minScore := 100
		compared := false
		for _, t1 := range mixed1 {
			for _, t2 := range mixed2 {
				if len(t1) != len(t2) || len(t1) <= 4 {
					continue
				}
				if ShapeSignature(t1) != ShapeSignature(t2) {
					continue
				}
				compared = true
				score := 0
				if t1 == t2 {
					score = 100
				}
				if score < minScore {
					minScore = score
				}
			}
		}
		if compared {
			mixedScore = record.ScoreOf(minScore)
		} else {
			// No qualifying pair: the mixed tokens still carry text worth
			// comparing, so they join the alphabetic groups instead.
			alpha1 = append(alpha1, mixed1...)
			alpha2 = append(alpha2, mixed2...)
		}
	}

	alphaScore := record.NotApplicableScore()
	if len(alpha1) > 0 && len(alpha2) > 0 {
		alphaScore = record.ScoreOf(TokenSetRatio(strings.Join(alpha1, " "), strings.Join(alpha2, " ")))
	}
	numScore := record.NotApplicableScore()
	if len(num1) > 0 && len(num2) > 0 {
		numScore = record.ScoreOf(TokenSetRatio(strings.Join(num1, " "), strings.Join(num2, " ")))
	}

	numerator, denominator := 0, 0
	for _, part := range []struct {
		score  record.Score
		weight int
	}{
		{alphaScore, weights.Alphabetic},
		{numScore, weights.Numeric},
		{mixedScore, weights.Mixed},
	} {
		if part.score.Known() {
			numerator += part.weight * part.score.Int()
			denominator += part.weight
		}
	}
	if denominator == 0 {
		return record.ScoreOf(0)
	}
	return record.ScoreOf(numerator / denominator)
}

// MatchVersion scores two dot-segmented version strings. The wildcard
// sentinel on either version or on the first side's range absorbs
// everything to 100. Missing versions are neutral. Otherwise segments are
// compared left to right, the shorter side padded with placeholders that
// always match; the first real divergence zeroes the remaining positions.
// Position i is weighted 2^(N-i-1), so a major-version mismatch costs
// exponentially more than a patch mismatch.
func MatchVersion(v1, v2, range1 string) record.Score {
	if v1 == VersionWildcard || v2 == VersionWildcard || range1 == VersionWildcard {
		return record.ScoreOf(100)
	}
	if v1 == "" || v2 == "" {
		return record.UnknownScore()
	}

	seg1 := strings.Split(v1, ".")
	seg2 := strings.Split(v2, ".")
	n := len(seg1)
	if len(seg2) > n {
		n = len(seg2)
	}
	// The bit-shift weights overflow past 62 segments; comparison is
	// capped well below that, which only affects degenerate inputs.
	if n > maxVersionSegments {
		n = maxVersionSegments
	}
	if len(seg1) > n {
		seg1 = seg1[:n]
	}
	if len(seg2) > n {
		seg2 = seg2[:n]
	}
	for len(seg1) < n {
		seg1 = append(seg1, "x")
	}
	for len(seg2) < n {
		seg2 = append(seg2, "x")
	}

	totalWeight := 0
	for i := 0; i < n; i++ {
		totalWeight += 1 << (n - i - 1)
	}
	matched := 0
	for i := 0; i < n; i++ {
		if seg1[i] == "x" || seg2[i] == "x" || seg1[i] == seg2[i] {
			matched += 1 << (n - i - 1)
			continue
		}
		// No partial credit past the first true divergence.
		break
	}
	return record.ScoreOf(matched * 100 / totalWeight)
}

// tokenizeAndGroup lowercases s, splits on whitespace and buckets each
// token: all-letter tokens, all-digit tokens, and everything else (the
// serial-like mixed group).
func tokenizeAndGroup(s string) (alpha, num, mixed []string) {
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		switch {
		case isAlphabetic(tok):
			alpha = append(alpha, tok)
		case isNumeric(tok):
			num = append(num, tok)
		default:
			mixed = append(mixed, tok)
		}
	}
	return alpha, num, mixed
}
