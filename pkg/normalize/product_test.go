package normalize

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csafmatch/csafmatch/pkg/record"
	"github.com/csafmatch/csafmatch/pkg/synonym"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg, err := LoadEmbeddedPatterns()
	require.NoError(t, err)
	dict, err := synonym.LoadEmbedded()
	require.NoError(t, err)
	return NewPipeline(cfg, dict, zerolog.Nop())
}

func TestPipeline_VendorAndKeywordExtraction(t *testing.T) {
	p := testPipeline(t)
	table := &record.Table{Rows: []record.Record{
		{Vendor: "Siemens AG", ProductName: "SIMATIC S7-1500 CPU"},
	}}
	p.Run(table)

	row := table.Rows[0]
	assert.Equal(t, "Siemens", row.VendorModified)
	assert.Equal(t, "simatic", row.ProductFamilyModified)
	assert.Equal(t, "s7-1500", row.ProductNameModified)
	assert.Equal(t, "cpu", row.FunctionKeywordsFound)
	assert.True(t, row.Normalized)
}

func TestPipeline_VendorDetectedFromProductAlone(t *testing.T) {
	p := testPipeline(t)
	table := &record.Table{Rows: []record.Record{
		{Vendor: "", ProductFamily: "SCALANCE X208"},
	}}
	p.Run(table)

	row := table.Rows[0]
	// The family pass detects the vendor; the sentinel from the vendor
	// stage is joined by the detected name.
	assert.Equal(t, "None, Siemens", row.VendorModified)
	assert.Equal(t, "x208", row.ProductFamilyModified)
	assert.Equal(t, "x208", row.ProductNameModified, "empty name falls back to family")
}

func TestCleanProductValue_HyphenCompounds(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7SR1205-2JA87", "7sr1205-2ja87"},
		{"Mixed-Signal Analyzer", "mixed signal analyzer"},
		{"a/b\\c", "a b c"},
		{"Box (c) 2023, rev", "box 2023 rev"},
		{"(bracketed)", "bracketed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanProductValue(tt.in), "in=%q", tt.in)
	}
}

func TestPipeline_VersionInferenceFromName(t *testing.T) {
	p := testPipeline(t)
	table := &record.Table{Rows: []record.Record{
		{Vendor: "Siemens", ProductName: "logo! v8"},
		{Vendor: "Siemens", ProductName: "S7-1200", ProductVersion: "V04.77.1"},
	}}
	p.Run(table)

	assert.Equal(t, "8", table.Rows[0].ProductVersionModified, "trailing v-token adopted")
	assert.Equal(t, "04.77.1", table.Rows[1].ProductVersionModified, "explicit version wins")
}

func TestPipeline_VendorTokenRemovedFromProduct(t *testing.T) {
	p := testPipeline(t)
	table := &record.Table{Rows: []record.Record{
		{Vendor: "Siemens AG", ProductName: "Siemens S7-1500"},
	}}
	p.Run(table)

	assert.Equal(t, "s7-1500", table.Rows[0].ProductNameModified)
}

func TestPipeline_VersionRangeCopiedThrough(t *testing.T) {
	p := testPipeline(t)
	table := &record.Table{Rows: []record.Record{
		{Vendor: "Siemens", ProductName: "S7-1500", ProductVersionRange: "vers:semver/>=2.0|<3.0"},
	}}
	p.Run(table)

	assert.Equal(t, "vers:semver/>=2.0|<3.0", table.Rows[0].ProductVersionRangeModified)
}

func TestCleanVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3.4.5.RevA", "3.4.5"},
		{"RevOnly", ""},
		{"V04.77.1", "04.77.1"},
		{"v8", "8"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanVersion(tt.in), "in=%q", tt.in)
	}
}
