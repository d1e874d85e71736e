package match

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/csafmatch/csafmatch/pkg/record"
)

// VersionInRange checks a normalized version against a `vers:` range
// expression, e.g. "vers:semver/>=2.1|<3.0". The wildcard range matches
// everything. The result is informational: the decision tree never consumes
// it, it is carried on the match row for reviewers.
//
// Bounds that do not parse as semantic versions yield a neutral result
// rather than an error; advisory ranges are far too inconsistent to treat a
// parse failure as signal.
func VersionInRange(version, rng string) record.Score {
	if rng == VersionWildcard {
		return record.ScoreOf(100)
	}
	if version == "" || rng == "" {
		return record.UnknownScore()
	}

	v, err := semver.NewVersion(coerceSemver(version))
	if err != nil {
		return record.UnknownScore()
	}

	expr := rng
	if idx := strings.Index(expr, "/"); strings.HasPrefix(expr, "vers:") && idx >= 0 {
		expr = expr[idx+1:]
	}
	// The vers notation separates interval bounds with '|'; Masterminds
	// expresses conjunction with ", ".
	expr = strings.ReplaceAll(expr, "|", ", ")

	constraint, err := semver.NewConstraint(expr)
	if err != nil {
		return record.UnknownScore()
	}
	if constraint.Check(v) {
		return record.ScoreOf(100)
	}
	return record.ScoreOf(0)
}

// coerceSemver pads short numeric versions ("2.1") to full triplets so the
// semver parser accepts them.
func coerceSemver(v string) string {
	switch strings.Count(v, ".") {
	case 0:
		return v + ".0.0"
	case 1:
		return v + ".0"
	default:
		return v
	}
}
