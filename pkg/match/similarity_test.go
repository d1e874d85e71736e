package match

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	require.Equal(t, 100, Ratio("siemens", "siemens"))
	require.Equal(t, 100, Ratio("", ""))
	require.Equal(t, 0, Ratio("abc", ""))
	// adjacent transposition costs two edits across 2*7 runes
	require.Equal(t, 85, Ratio("siemens", "simeens"))
}

func TestTokenSortRatio_OrderInvariant(t *testing.T) {
	require.Equal(t, 100, TokenSortRatio("ABB Ltd", "Ltd ABB"))
	require.Equal(t, TokenSortRatio("a b c", "c b a"), TokenSortRatio("a b c", "a b c"))
}

func TestTokenSetRatio_SubsetAware(t *testing.T) {
	// Full token subset scores 100 regardless of extra tokens.
	require.Equal(t, 100, TokenSetRatio("scalance", "siemens scalance family"))
	require.Equal(t, 100, TokenSetRatio("a a b", "b a"))
	require.Less(t, TokenSetRatio("firewall", "switch"), 50)
}

func TestShapeSignature(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"L5N2", "LNLN"},
		{"6ES7", "NLLN"},
		{"abc", "LLL"},
		{"1.2", "NON"},
		{"", ""},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, ShapeSignature(tc.in), tc.in)
	}
}

func TestTokenGrouping(t *testing.T) {
	alpha, num, mixed := tokenizeAndGroup("Simatic S7-1500 CPU 1955 6ES7")
	require.Equal(t, []string{"simatic", "cpu"}, alpha)
	require.Equal(t, []string{"1955"}, num)
	require.Equal(t, []string{"s7-1500", "6es7"}, mixed)
}
