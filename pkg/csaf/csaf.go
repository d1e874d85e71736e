// Package csaf discovers, parses, and flattens CSAF advisory documents
// into the shared record table model.
package csaf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/csafmatch/csafmatch/pkg/record"
)

// ErrNotCSAF marks a JSON file that parses but is missing one of the
// three mandatory CSAF top-level sections.
var ErrNotCSAF = errors.New("file does not fit the CSAF standard")

// Document is the subset of a CSAF advisory the pipeline consumes.
type Document struct {
	Document        *Meta             `json:"document"`
	ProductTree     *ProductTree      `json:"product_tree"`
	Vulnerabilities []json.RawMessage `json:"vulnerabilities"`
}

// Meta holds the document-level fields used for source attribution.
type Meta struct {
	Title      string      `json:"title"`
	References []Reference `json:"references"`
}

// Reference is one entry of the document references list.
type Reference struct {
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// ProductTree is either a branch hierarchy or a flat list of full
// product names, depending on the issuing tool.
type ProductTree struct {
	Branches         []Branch          `json:"branches"`
	FullProductNames []FullProductName `json:"full_product_names"`
}

// Branch is one node of the product hierarchy. Category names the
// attribute the branch contributes (vendor, product_family, ...).
type Branch struct {
	Category string   `json:"category"`
	Name     string   `json:"name"`
	Branches []Branch `json:"branches"`
	Product  *Product `json:"product"`
}

// FullProductName is the flat alternative to a branch hierarchy.
type FullProductName struct {
	Name      string `json:"name"`
	ProductID string `json:"product_id"`
}

// Product is the leaf payload of a branch.
type Product struct {
	Name      string `json:"name"`
	ProductID string `json:"product_id"`
}

// ReadDocument loads and validates a single CSAF file. A file that is
// unreadable, malformed, or not CSAF is an error to this explicit call;
// batch callers decide whether to skip or abort.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading CSAF file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotCSAF, path)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing CSAF file %s: %w", path, err)
	}
	if doc.Document == nil || doc.ProductTree == nil || doc.Vulnerabilities == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotCSAF, path)
	}
	return &doc, nil
}

// DocumentURL returns the first document reference ending in ".json",
// the advisory's canonical machine-readable location. Documents without
// one get the missing sentinel so rows stay joinable.
func DocumentURL(doc *Document) string {
	if doc.Document == nil {
		return record.DataSourceMissing
	}
	for _, ref := range doc.Document.References {
		if strings.HasSuffix(ref.URL, ".json") {
			return ref.URL
		}
	}
	return record.DataSourceMissing
}
