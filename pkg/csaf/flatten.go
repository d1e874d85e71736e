package csaf

import (
	"github.com/csafmatch/csafmatch/pkg/record"
)

// Branch categories carried into record columns. Other categories
// (architecture, service packs, ...) are structural only and dropped.
const (
	categoryVendor       = "vendor"
	categoryFamily       = "product_family"
	categoryName         = "product_name"
	categoryVersion      = "product_version"
	categoryVersionRange = "product_version_range"
)

// FlattenProductTree walks the product tree into one record per leaf.
// A branch hierarchy accumulates category attributes from root to leaf;
// the flat full_product_names form maps each entry to a name-only
// record. The document's reference URL becomes every row's data source.
func FlattenProductTree(doc *Document) []record.Record {
	source := DocumentURL(doc)

	if len(doc.ProductTree.FullProductNames) > 0 {
		rows := make([]record.Record, 0, len(doc.ProductTree.FullProductNames))
		for _, fpn := range doc.ProductTree.FullProductNames {
			rows = append(rows, record.Record{
				ProductName: fpn.Name,
				DataSource:  source,
			})
		}
		return rows
	}

	var rows []record.Record
	for _, branch := range doc.ProductTree.Branches {
		rows = append(rows, flattenBranch(branch, record.Record{DataSource: source})...)
	}
	return rows
}

// flattenBranch recurses with a copy of the attributes collected so
// far, so sibling branches never see each other's values.
func flattenBranch(b Branch, attrs record.Record) []record.Record {
	switch b.Category {
	case categoryVendor:
		attrs.Vendor = b.Name
	case categoryFamily:
		attrs.ProductFamily = b.Name
	case categoryName:
		attrs.ProductName = b.Name
	case categoryVersion:
		attrs.ProductVersion = b.Name
	case categoryVersionRange:
		attrs.ProductVersionRange = b.Name
	}

	if len(b.Branches) > 0 {
		var rows []record.Record
		for _, sub := range b.Branches {
			rows = append(rows, flattenBranch(sub, attrs)...)
		}
		return rows
	}

	// Leaf. The product payload's full name backs up a missing name.
	if b.Product != nil && attrs.ProductName == "" {
		attrs.ProductName = b.Product.Name
	}
	return []record.Record{attrs}
}
