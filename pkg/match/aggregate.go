package match

import (
	"fmt"

	"github.com/csafmatch/csafmatch/pkg/record"
)

// Thresholds are the caller-supplied decision bounds, each in [0,100].
type Thresholds struct {
	Vendor  int `koanf:"vendor" validate:"gte=0,lte=100"`
	Family  int `koanf:"family" validate:"gte=0,lte=100"`
	Name    int `koanf:"name" validate:"gte=0,lte=100"`
	Keyword int `koanf:"keyword" validate:"gte=0,lte=100"`
	Version int `koanf:"version" validate:"gte=0,lte=100"`
}

// DefaultThresholds returns the decision bounds used when the caller
// supplies none.
func DefaultThresholds() Thresholds {
	return Thresholds{Vendor: 80, Family: 80, Name: 80, Keyword: 80, Version: 80}
}

// nameBoostBand is how far below the name threshold a score may fall and
// still qualify for the version/keyword boost composite.
const nameBoostBand = 20

// Scores bundles the five attribute scores of one record pair.
type Scores struct {
	Vendor  record.Score
	Name    record.Score
	Family  record.Score
	Version record.Score
	Keyword record.Score
}

// Decide evaluates the ordered decision tree over a pair's attribute scores
// and returns the binary verdict with a human-readable reason.
//
// The tree, first applicable branch wins:
//
//  1. vendor unknown -> no match
//  2. vendor below its threshold -> no match
//  3. branch on family: unknown family falls through to the name rules;
//     a family at or above its threshold admits the pair to the name rules
//     (with a missing name acceptable); a family below its threshold fails
//     the pair outright, regardless of the name score.
//
// Within the name rules a present version that misses its threshold vetoes
// the match. A name in the near-miss band below its threshold can still be
// rescued by the boost composite (3*vendor + 2*name + version + keyword)/7
// when both version and keyword scores exist.
func Decide(s Scores, t Thresholds) (int, string) {
	if !s.Vendor.Known() {
		return 0, "No match - vendor missing"
	}
	if s.Vendor.Int() < t.Vendor {
		return 0, fmt.Sprintf("No match - vendor score is below %d%% (%d%%)", t.Vendor, s.Vendor.Int())
	}

	switch {
	case !s.Family.Known():
		if !s.Name.Known() {
			return 0, "No match - product name and family missing"
		}
		return decideOnName(s, t, "Match - family missing")

	case s.Family.Int() >= t.Family:
		if !s.Name.Known() {
			return 1, "Possible match - product name missing, family sufficient"
		}
		return decideOnName(s, t, "Match - product name and family given")

	default:
		return 0, fmt.Sprintf("No match - product family score is below %d%% (%d%%)", t.Family, s.Family.Int())
	}
}

// decideOnName applies the shared name-threshold / version-veto / boost
// rules. matchReason is the reason reported when the pair passes cleanly.
func decideOnName(s Scores, t Thresholds, matchReason string) (int, string) {
	name := s.Name.Int()

	if name >= t.Name {
		if s.Version.Known() && s.Version.Int() < t.Version {
			return 0, fmt.Sprintf("No match - version score is below %d%% (%d%%)", t.Version, s.Version.Int())
		}
		return 1, matchReason
	}

	if name >= t.Name-nameBoostBand && s.Version.Known() && s.Keyword.Known() {
		boosted := (3*s.Vendor.Int() + 2*name + s.Version.Int() + s.Keyword.Int()) / 7
		if boosted >= t.Keyword {
			return 1, "Possible match - version and keyword boost"
		}
		return 0, fmt.Sprintf("No match - boosted score is below %d%% (%d%%)", t.Keyword, boosted)
	}

	return 0, fmt.Sprintf("No match - product name score is below %d%% (%d%%)", t.Name, name)
}
