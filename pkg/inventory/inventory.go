// Package inventory loads asset-inventory files into the shared record
// table model.
package inventory

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/csafmatch/csafmatch/pkg/record"
)

// Asset is one inventory entry as written in the YAML file. Fields are
// untyped because humans write these files: a version like 8.2 arrives
// as a YAML float and must still load as the string "8.2".
type Asset struct {
	Vendor              any `yaml:"vendor"`
	ProductFamily       any `yaml:"product_family"`
	ProductName         any `yaml:"product_name"`
	ProductVersion      any `yaml:"product_version"`
	ProductVersionRange any `yaml:"product_version_range"`
}

// File is the top-level inventory document.
type File struct {
	Assets []Asset `yaml:"assets"`
}

// Loader reads inventory files. Unlike CSAF discovery, an inventory
// path is always named explicitly by the caller, so a missing or
// malformed file is an error rather than a skip.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader builds an inventory loader.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger.With().Str("component", "inventory.loader").Logger()}
}

// Load reads one inventory file into a table. Every row's data source
// is the file path.
func (l *Loader) Load(path string) (*record.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory file: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing inventory file %s: %w", path, err)
	}

	table := &record.Table{Source: path, Rows: make([]record.Record, 0, len(file.Assets))}
	for _, a := range file.Assets {
		table.Rows = append(table.Rows, record.Record{
			Vendor:              cast.ToString(a.Vendor),
			ProductFamily:       cast.ToString(a.ProductFamily),
			ProductName:         cast.ToString(a.ProductName),
			ProductVersion:      cast.ToString(a.ProductVersion),
			ProductVersionRange: cast.ToString(a.ProductVersionRange),
			DataSource:          path,
		})
	}
	l.logger.Info().Str("path", path).Int("assets", table.Len()).Msg("inventory loaded")
	return table, nil
}
