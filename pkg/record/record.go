// Package record defines the tabular data model shared by the ingestion,
// normalization and matching layers: one Record per asset or per advisory
// product entry, plus the MatchResult rows the pairwise engine emits.
//
// Raw columns hold the text exactly as ingested. The *Modified columns are
// derived by the normalizers; after normalization they are always set, and
// an empty string there means "processed, no value" rather than "unknown".
package record

// DataSourceMissing marks a record whose provenance could not be determined.
const DataSourceMissing = "missing"

// Record is one row of an asset-inventory or advisory product table.
type Record struct {
	// Raw columns, as ingested. Empty string means the source had no value.
	Vendor              string
	ProductFamily       string
	ProductName         string
	ProductVersion      string
	ProductVersionRange string

	// Derived columns, populated by the normalizers.
	VendorModified              string
	ProductFamilyModified       string
	ProductNameModified         string
	ProductVersionModified      string
	ProductVersionRangeModified string

	// FunctionKeywordsFound holds the deduplicated domain-function tags
	// detected in name/family, comma-joined (e.g. "firewall, switch").
	FunctionKeywordsFound string

	// DataSource is the provenance URL or file path, DataSourceMissing if
	// it could not be discovered.
	DataSource string

	// Normalized is set once the normalization pipelines have run over
	// this record. Until then the *Modified columns carry no meaning.
	Normalized bool
}

// Key identifies a record for match reporting: its data source plus the raw
// product name, which is how the source documents address their entries.
func (r *Record) Key() string {
	if r.ProductName != "" {
		return r.DataSource + "|" + r.ProductName
	}
	return r.DataSource + "|" + r.ProductFamily
}

// Table is an ordered collection of records. Row order is preserved through
// normalization and matching; normalization must never change cardinality.
type Table struct {
	Rows []Record

	// Source describes where the table came from (directory, file).
	Source string
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// UniqueVendors returns the distinct raw vendor values in first-seen order.
func (t *Table) UniqueVendors() []string {
	seen := make(map[string]struct{}, len(t.Rows))
	out := make([]string, 0, len(t.Rows))
	for i := range t.Rows {
		v := t.Rows[i].Vendor
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
