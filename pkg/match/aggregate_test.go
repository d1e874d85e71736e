package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csafmatch/csafmatch/pkg/record"
)

func defT() Thresholds { return Thresholds{Vendor: 80, Family: 80, Name: 80, Keyword: 80, Version: 80} }

func val(v int) record.Score { return record.ScoreOf(v) }
func unk() record.Score      { return record.UnknownScore() }

func TestDecide_VendorMissing(t *testing.T) {
	verdict, reason := Decide(Scores{Vendor: unk()}, defT())
	require.Equal(t, 0, verdict)
	require.Contains(t, reason, "vendor missing")
}

func TestDecide_ThresholdBoundary(t *testing.T) {
	// Below the vendor threshold nothing else matters.
	for _, rest := range []record.Score{val(100), unk()} {
		verdict, _ := Decide(Scores{Vendor: val(79), Name: rest, Family: rest, Version: rest, Keyword: rest}, defT())
		require.Equal(t, 0, verdict)
	}
	// Exactly at every threshold is a match.
	verdict, _ := Decide(Scores{Vendor: val(80), Name: val(100), Family: val(100), Version: val(100), Keyword: val(100)}, defT())
	require.Equal(t, 1, verdict)
}

func TestDecide_NameAndFamilyMissing(t *testing.T) {
	verdict, reason := Decide(Scores{Vendor: val(90), Name: unk(), Family: unk()}, defT())
	require.Equal(t, 0, verdict)
	require.Contains(t, reason, "name and family missing")
}

func TestDecide_FamilyMissing(t *testing.T) {
	verdict, reason := Decide(Scores{Vendor: val(90), Name: val(85), Family: unk()}, defT())
	require.Equal(t, 1, verdict)
	require.Contains(t, reason, "family missing")
}

func TestDecide_FamilySufficientNameMissing(t *testing.T) {
	verdict, reason := Decide(Scores{Vendor: val(90), Name: unk(), Family: val(95)}, defT())
	require.Equal(t, 1, verdict)
	require.Contains(t, reason, "name missing")
}

func TestDecide_FamilyBelowBarShortCircuits(t *testing.T) {
	// Once the family explicitly fails its own bar, a perfect name cannot
	// rescue the pair.
	verdict, reason := Decide(Scores{Vendor: val(100), Name: val(100), Family: val(50), Version: val(100), Keyword: val(100)}, defT())
	require.Equal(t, 0, verdict)
	require.Contains(t, reason, "family score is below")
}

func TestDecide_VersionVeto(t *testing.T) {
	verdict, reason := Decide(Scores{Vendor: val(90), Name: val(90), Family: val(90), Version: val(40), Keyword: val(100)}, defT())
	require.Equal(t, 0, verdict)
	require.Contains(t, reason, "version score is below")

	// A missing version never vetoes.
	verdict, _ = Decide(Scores{Vendor: val(90), Name: val(90), Family: val(90), Version: unk()}, defT())
	require.Equal(t, 1, verdict)
}

func TestDecide_BoostBand(t *testing.T) {
	// Name at 70 with threshold 80 is in the band; boost composite
	// (3*95 + 2*70 + 100 + 100) / 7 = 89 >= keyword threshold.
	verdict, reason := Decide(Scores{Vendor: val(95), Name: val(70), Family: val(90), Version: val(100), Keyword: val(100)}, defT())
	require.Equal(t, 1, verdict)
	require.Contains(t, reason, "boost")
}

func TestDecide_BoostInsufficient(t *testing.T) {
	// In the band, version and keyword present, but the composite falls
	// short: (3*80 + 2*60 + 0 + 0) / 7 = 51. Rejection must carry an
	// explicit reason rather than fall through.
	verdict, reason := Decide(Scores{Vendor: val(80), Name: val(60), Family: val(90), Version: val(0), Keyword: val(0)}, defT())
	require.Equal(t, 0, verdict)
	require.Contains(t, reason, "boosted score is below")
}

func TestDecide_BoostNeedsVersionAndKeyword(t *testing.T) {
	verdict, reason := Decide(Scores{Vendor: val(95), Name: val(70), Family: val(90), Version: unk(), Keyword: val(100)}, defT())
	require.Equal(t, 0, verdict)
	require.Contains(t, reason, "name score is below")
}

func TestDecide_NameBelowBand(t *testing.T) {
	verdict, reason := Decide(Scores{Vendor: val(95), Name: val(30), Family: val(90), Version: val(100), Keyword: val(100)}, defT())
	require.Equal(t, 0, verdict)
	require.Contains(t, reason, "name score is below")
}

// TestDecide_NoFallthrough sweeps every combination of present/absent
// attribute scores across the interesting value boundaries and asserts
// each one resolves to an explicit branch: no input may reach a defensive
// default.
func TestDecide_NoFallthrough(t *testing.T) {
	states := []record.Score{unk(), val(0), val(59), val(60), val(79), val(80), val(100)}
	th := defT()
	for _, v := range states {
		for _, n := range states {
			for _, f := range states {
				for _, ver := range states {
					for _, kw := range states {
						verdict, reason := Decide(Scores{Vendor: v, Name: n, Family: f, Version: ver, Keyword: kw}, th)
						require.Contains(t, []int{0, 1}, verdict)
						require.NotEmpty(t, reason)
						require.NotContains(t, reason, "fallthrough")
					}
				}
			}
		}
	}
}
