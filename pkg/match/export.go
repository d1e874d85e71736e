package match

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/csafmatch/csafmatch/pkg/record"
)

// resultColumns is the stable header of the exported result table.
// Consumers diff exports between runs, so the order must not change.
var resultColumns = []string{
	"vendor_1", "vendor_2",
	"vendor_1_modified", "vendor_2_modified",
	"product_name_1", "product_name_2",
	"product_name_1_modified", "product_name_2_modified",
	"keywords_1", "keywords_2",
	"version_1_modified", "version_2_modified",
	"version_range_1_modified",
	"vendor_score", "product_name_score", "product_family_score",
	"version_score", "keyword_score", "version_in_range",
	"verdict", "reason",
	"source_1", "source_2",
}

// WriteResultsCSV writes the full result table, no-match rows included,
// as CSV. Tri-state scores render as their table form: a number, "n/a",
// or empty for missing input.
func WriteResultsCSV(w io.Writer, results []record.MatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return err
	}
	for i := range results {
		r := &results[i]
		row := []string{
			r.Vendor1, r.Vendor2,
			r.Vendor1Modified, r.Vendor2Modified,
			r.ProductName1, r.ProductName2,
			r.ProductName1Modified, r.ProductName2Modified,
			r.Keywords1, r.Keywords2,
			r.Version1Modified, r.Version2Modified,
			r.Range1Modified,
			r.VendorScore.String(), r.ProductNameScore.String(), r.ProductFamilyScore.String(),
			r.VersionScore.String(), r.KeywordScore.String(), r.RangeContainment.String(),
			strconv.Itoa(r.Verdict), r.Reason,
			r.Source1, r.Source2,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
