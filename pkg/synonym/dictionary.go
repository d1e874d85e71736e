// Package synonym maps raw tokens to canonical labels using a curated
// alias dictionary. The dictionary is a table: columns are attributes
// (Manufacturer, Device Role, ...), rows are canonical labels, and each
// cell holds the searchable alias spellings for that label. One row name
// is reserved: "alias" holds the searchable names of each column itself,
// so an attribute is addressable through its own synonyms (e.g.
// "Manufacturer" and "Hersteller" name the same column).
package synonym

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasRow is the reserved row label holding each column's own names.
const AliasRow = "alias"

//go:embed data/synonyms.yaml
var embeddedSynonymsYAML []byte

// Dictionary is the immutable alias table. Load it once at startup and
// share it read-only for the lifetime of the run.
type Dictionary struct {
	columns []string
	// rows preserves row order per column.
	rows map[string][]string
	// cells[column][row] is the list of alias spellings.
	cells map[string]map[string][]string
}

// LoadEmbedded parses the dictionary compiled into the binary.
func LoadEmbedded() (*Dictionary, error) {
	return Parse(embeddedSynonymsYAML)
}

// LoadFile reads a dictionary from disk. A missing file is not an error:
// the resolver degrades to a no-op with an empty dictionary, so a batch
// without a synonym corpus still runs.
func LoadFile(path string) (*Dictionary, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptyDictionary(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read synonym dictionary: %w", err)
	}
	return Parse(content)
}

// Parse decodes the YAML dictionary, preserving column and row order so
// multi-hit resolutions report deterministically.
func Parse(content []byte) (*Dictionary, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("parse synonym dictionary: %w", err)
	}
	d := emptyDictionary()
	if root.Kind == 0 || len(root.Content) == 0 {
		return d, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errors.New("parse synonym dictionary: top level must be a mapping of columns")
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		colName := doc.Content[i].Value
		colNode := doc.Content[i+1]
		if colNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parse synonym dictionary: column %q must be a mapping of rows", colName)
		}
		d.columns = append(d.columns, colName)
		d.cells[colName] = make(map[string][]string)
		for j := 0; j+1 < len(colNode.Content); j += 2 {
			rowName := colNode.Content[j].Value
			var aliases []string
			if err := colNode.Content[j+1].Decode(&aliases); err != nil {
				// A scalar cell is a single alias.
				var single string
				if err := colNode.Content[j+1].Decode(&single); err != nil {
					return nil, fmt.Errorf("parse synonym dictionary: column %q row %q: %w", colName, rowName, err)
				}
				aliases = []string{single}
			}
			d.rows[colName] = append(d.rows[colName], rowName)
			d.cells[colName][rowName] = aliases
		}
	}
	return d, nil
}

func emptyDictionary() *Dictionary {
	return &Dictionary{
		rows:  make(map[string][]string),
		cells: make(map[string]map[string][]string),
	}
}

// Empty reports whether the dictionary holds no columns at all.
func (d *Dictionary) Empty() bool { return len(d.columns) == 0 }

// Columns returns the attribute names in document order.
func (d *Dictionary) Columns() []string { return d.columns }

// Rows returns the row labels of a column in document order.
func (d *Dictionary) Rows(column string) []string { return d.rows[column] }

// Aliases returns the alias spellings of a cell, nil when absent.
func (d *Dictionary) Aliases(column, row string) []string {
	col, ok := d.cells[column]
	if !ok {
		return nil
	}
	return col[row]
}
