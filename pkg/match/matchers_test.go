package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csafmatch/csafmatch/pkg/record"
)

func TestMatchVendor(t *testing.T) {
	require.False(t, MatchVendor("", "Siemens").Known())
	require.False(t, MatchVendor("Siemens", "").Known())

	require.Equal(t, 100, MatchVendor("Siemens", "SIEMENS").Int())
	require.Equal(t, 100, MatchVendor("ABB Ltd", "Ltd ABB").Int())
	require.Less(t, MatchVendor("Siemens", "Phoenix Contact").Int(), 50)
}

func TestMatchKeyword(t *testing.T) {
	require.Equal(t, 100, MatchKeyword("firewall", "Firewall appliance").Int())
	require.Equal(t, 0, MatchKeyword("firewall", "switch").Int())
	require.False(t, MatchKeyword("", "x").Known())
	require.False(t, MatchKeyword("x", "").Known())
}

func TestMatchProduct_ContainmentShortcut(t *testing.T) {
	require.Equal(t, 100, MatchProduct("S7-1500", "Siemens S7-1500 CPU", DefaultNameWeights).Int())
	require.Equal(t, 100, MatchProduct("Siemens S7-1500 CPU", "s7-1500", DefaultNameWeights).Int())
}

func TestMatchProduct_MissingNeutral(t *testing.T) {
	require.False(t, MatchProduct("", "S7-1500", DefaultNameWeights).Known())
	require.False(t, MatchProduct("S7-1500", "", DefaultNameWeights).Known())
}

func TestMatchProduct_StructuralMismatchFailsGroup(t *testing.T) {
	// Same shape, same length over 4, different strings: the mixed group
	// scores 0 and drags the weighted average down.
	s := MatchProduct("cpu 6es7-aa", "cpu 6gk1-bb", DefaultNameWeights)
	require.True(t, s.Known())
	require.Equal(t, 33, s.Int()) // alpha 100 (weight 1), mixed 0 (weight 2)
}

func TestMatchProduct_MixedGroupFoldback(t *testing.T) {
	// "6ES7 212-1AE40-0XB0" vs "S7-1200": no equal-length mixed pair over
	// 4 chars shares a shape, so the mixed tokens fold back into the
	// alphabetic comparison. Neither side has alphabetic or numeric tokens
	// of its own, so the folded token-set comparison is the only
	// contribution and the mixed group itself adds no weight. This pins
	// the fold-back behavior: a known low score, never a neutral
	// missing-data signal.
	s := MatchProduct("6ES7 212-1AE40-0XB0", "S7-1200", DefaultNameWeights)
	require.True(t, s.Known())
	require.Equal(t, 42, s.Int())
}

func TestMatchProduct_AllGroupsEmptyScoresZero(t *testing.T) {
	// Tokens exist on both sides but produce no scorable group pairing:
	// numeric-only vs alphabetic-only. Known 0, never neutral.
	s := MatchProduct("1234", "alpha", DefaultNameWeights)
	require.True(t, s.Known())
	require.Equal(t, 0, s.Int())
}

func TestMatchVersion_WildcardAbsorption(t *testing.T) {
	require.Equal(t, 100, MatchVersion(VersionWildcard, "1.2.3", "1.0-2.0").Int())
	require.Equal(t, 100, MatchVersion("1.2.3", VersionWildcard, "").Int())
	require.Equal(t, 100, MatchVersion("1.2.3", "9.9.9", VersionWildcard).Int())
}

func TestMatchVersion_MissingNeutral(t *testing.T) {
	require.False(t, MatchVersion("", "1.2.3", "").Known())
	require.False(t, MatchVersion("1.2.3", "", "").Known())
}

func TestMatchVersion_MonotonicPenalty(t *testing.T) {
	exact := MatchVersion("1.2.3", "1.2.3", "").Int()
	patch := MatchVersion("1.2.3", "1.2.4", "").Int()
	minor := MatchVersion("1.2.0", "1.3.0", "").Int()
	major := MatchVersion("2.0.0", "1.0.0", "").Int()

	require.Equal(t, 100, exact)
	require.Less(t, patch, exact)
	require.Less(t, major, minor)
	require.Equal(t, 0, major)
	// weights 4,2,1: patch mismatch keeps 6/7
	require.Equal(t, 85, patch)
	// minor mismatch stops the walk, keeps 4/7
	require.Equal(t, 57, minor)
}

func TestMatchVersion_PlaceholderPadding(t *testing.T) {
	// "1.2" vs "1.2.9": the padded segment always matches.
	require.Equal(t, 100, MatchVersion("1.2", "1.2.9", "").Int())
	require.Equal(t, 100, MatchVersion("1.2.9", "1.2", "").Int())
}

func TestMatchVersion_ManySegments(t *testing.T) {
	// Degenerate dot counts must not wreck the bit-shift weights.
	long := strings.TrimSuffix(strings.Repeat("1.", 70), ".")
	require.Equal(t, 100, MatchVersion(long, long, "").Int())

	diverged := strings.Split(long, ".")
	diverged[10] = "2"
	// Weights 2^15..2^0 over the capped window; positions 0-9 keep
	// 65472 of 65535.
	require.Equal(t, 99, MatchVersion(long, strings.Join(diverged, "."), "").Int())

	early := strings.Split(long, ".")
	early[0] = "9"
	require.Equal(t, 0, MatchVersion(long, strings.Join(early, "."), "").Int())
}

func TestVersionInRange(t *testing.T) {
	require.Equal(t, 100, VersionInRange("1.5.0", "vers:semver/>=1.0.0|<2.0.0").Int())
	require.Equal(t, 0, VersionInRange("2.5.0", "vers:semver/>=1.0.0|<2.0.0").Int())
	require.Equal(t, 100, VersionInRange("anything", VersionWildcard).Int())
	require.Equal(t, record.ScoreUnknown, VersionInRange("", "vers:semver/>=1.0.0").State())
	require.Equal(t, record.ScoreUnknown, VersionInRange("1.0", "not a range").State())
	require.Equal(t, 100, VersionInRange("2.1", "vers:semver/>=2.1|<3.0").Int())
}
