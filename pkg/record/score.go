package record

import "fmt"

// ScoreState distinguishes the three meanings a similarity score can carry.
// The original null value conflated "no input on one side" with "rule does
// not apply"; the aggregator needs to tell them apart explicitly.
type ScoreState int

const (
	// ScoreUnknown means at least one side had no value. Neutral: never a
	// mismatch, never an automatic match.
	ScoreUnknown ScoreState = iota
	// ScoreNotApplicable means the comparison rule itself does not apply
	// to the pair (e.g. no qualifying token pair for structural scoring).
	ScoreNotApplicable
	// ScoreValue means a computed similarity in [0,100].
	ScoreValue
)

// Score is a tri-state attribute similarity result.
type Score struct {
	state ScoreState
	value int
}

// ScoreOf returns a known score clamped to [0,100].
func ScoreOf(v int) Score {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return Score{state: ScoreValue, value: v}
}

// UnknownScore returns the neutral missing-input score.
func UnknownScore() Score { return Score{state: ScoreUnknown} }

// NotApplicableScore returns the rule-does-not-apply score.
func NotApplicableScore() Score { return Score{state: ScoreNotApplicable} }

// State returns the score's tag.
func (s Score) State() ScoreState { return s.state }

// Known reports whether the score carries a computed value.
func (s Score) Known() bool { return s.state == ScoreValue }

// Int returns the computed value; 0 when the score is not known.
func (s Score) Int() int {
	if s.state != ScoreValue {
		return 0
	}
	return s.value
}

// String renders the score for result tables and log lines.
func (s Score) String() string {
	switch s.state {
	case ScoreValue:
		return fmt.Sprintf("%d", s.value)
	case ScoreNotApplicable:
		return "n/a"
	default:
		return ""
	}
}

// MatchResult is one scored pair: an asset record against an advisory
// product record, with every attribute score and the aggregate verdict.
// No-match rows are kept, with the reason, for auditability.
type MatchResult struct {
	Vendor1         string
	Vendor2         string
	Vendor1Modified string
	Vendor2Modified string

	ProductName1         string
	ProductName2         string
	ProductName1Modified string
	ProductName2Modified string

	Keywords1 string
	Keywords2 string

	Version1Modified string
	Version2Modified string
	Range1Modified   string

	Source1 string
	Source2 string

	VendorScore        Score
	ProductNameScore   Score
	ProductFamilyScore Score
	VersionScore       Score
	KeywordScore       Score

	// RangeContainment reports whether side 1's version range contains
	// side 2's version. Informational only: verdicts never depend on it.
	RangeContainment Score

	// Verdict is 1 for a match, 0 otherwise.
	Verdict int
	Reason  string
}
