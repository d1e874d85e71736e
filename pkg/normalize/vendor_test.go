package normalize

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csafmatch/csafmatch/pkg/match"
	"github.com/csafmatch/csafmatch/pkg/record"
	"github.com/csafmatch/csafmatch/pkg/synonym"
)

func testVendorNormalizer(t *testing.T) *VendorNormalizer {
	t.Helper()
	cfg, err := LoadEmbeddedPatterns()
	require.NoError(t, err)
	dict, err := synonym.LoadEmbedded()
	require.NoError(t, err)
	return NewVendorNormalizer(cfg, synonym.NewResolver(dict, zerolog.Nop()), zerolog.Nop())
}

func TestVendorNormalize_Canonicalization(t *testing.T) {
	n := testVendorNormalizer(t)
	tests := []struct {
		raw  string
		want string
	}{
		{"Siemens AG", "Siemens"},
		{"SIEMENS", "Siemens"},
		{"siemens.com", "Siemens"},
		{"ABB (Asea Brown Boveri) Ltd", "ABB"},
		{"Phoenix Contact GmbH & Co. KG", "Phoenix Contact"},
		{"Beckhoff Automation GmbH", "Beckhoff"},
		{"", "None"},
		{"   ", "None"},
	}
	for _, tt := range tests {
		log := &ChangeLog{}
		assert.Equal(t, tt.want, n.Normalize(tt.raw, log), "raw=%q", tt.raw)
	}
}

func TestVendorNormalize_SameCanonicalTokenScoresFull(t *testing.T) {
	n := testVendorNormalizer(t)
	log := &ChangeLog{}
	a := n.Normalize("Siemens AG", log)
	b := n.Normalize("SIEMENS", log)
	assert.Equal(t, a, b)
	assert.Equal(t, 100, match.MatchVendor(a, b).Int())
}

func TestVendorNormalize_Idempotent(t *testing.T) {
	n := testVendorNormalizer(t)
	for _, raw := range []string{
		"Siemens AG",
		"SIEMENS",
		"Phoenix Contact GmbH & Co. KG",
		"Draegerwerk AG & Co. KGaA",
		"Some Unknown Vendor",
	} {
		log := &ChangeLog{}
		once := n.Normalize(raw, log)
		twice := n.Normalize(once, log)
		assert.Equal(t, once, twice, "raw=%q", raw)
	}
}

func TestVendorNormalize_MultiVendorSplit(t *testing.T) {
	n := testVendorNormalizer(t)
	log := &ChangeLog{}
	got := n.Normalize("Siemens AG and Phoenix Contact GmbH & Co. KG", log)
	assert.Equal(t, "Siemens, Phoenix Contact", got)

	got = n.Normalize("WAGO, WAGO Kontakttechnik", log)
	assert.Equal(t, "Wago", got, "duplicate canonical tokens collapse")
}

func TestVendorNormalize_StageLog(t *testing.T) {
	n := testVendorNormalizer(t)
	log := &ChangeLog{}
	n.Normalize("Siemens AG", log)

	stages := map[string]bool{}
	for _, c := range log.Changes {
		assert.Equal(t, "Siemens AG", c.Original)
		assert.NotEqual(t, c.Before, c.After)
		stages[c.Stage] = true
	}
	assert.True(t, stages[StagePhrases], "legal suffix removal must be logged")
}

func TestVendorNormalize_WarningCount(t *testing.T) {
	n := testVendorNormalizer(t)
	log := &ChangeLog{}

	// A value that is nothing but a legal suffix cleans away entirely.
	got := n.Normalize("GmbH", log)
	assert.Equal(t, "", got)
	assert.Equal(t, 1, log.Warnings)

	n.Normalize("Siemens AG", log)
	assert.Equal(t, 1, log.Warnings, "clean runs must not add warnings")

	merged := &ChangeLog{Warnings: 2}
	merged.Merge(log)
	assert.Equal(t, 3, merged.Warnings)
}

func TestVendorNormalizeTable_RowPreservation(t *testing.T) {
	n := testVendorNormalizer(t)
	table := &record.Table{Rows: []record.Record{
		{Vendor: "Siemens AG", ProductName: "S7-1500"},
		{Vendor: "Siemens AG", ProductName: "S7-1200"},
		{Vendor: "SIEMENS", ProductName: "SCALANCE X208"},
		{Vendor: "", ProductName: "unknown box"},
	}}
	n.NormalizeTable(table)

	require.Equal(t, 4, table.Len())
	assert.Equal(t, "Siemens", table.Rows[0].VendorModified)
	assert.Equal(t, "Siemens", table.Rows[1].VendorModified)
	assert.Equal(t, "Siemens", table.Rows[2].VendorModified)
	assert.Equal(t, "None", table.Rows[3].VendorModified)
}
