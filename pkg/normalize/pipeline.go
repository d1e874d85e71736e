package normalize

import (
	"github.com/rs/zerolog"

	"github.com/csafmatch/csafmatch/pkg/record"
	"github.com/csafmatch/csafmatch/pkg/synonym"
)

// Pipeline chains the vendor, product, and version normalizers over a
// whole table. The corpus and dictionary are read-only after
// construction, so one pipeline can serve any number of tables.
type Pipeline struct {
	vendors  *VendorNormalizer
	products *ProductNormalizer
	logger   zerolog.Logger
}

// NewPipeline wires the full normalization pipeline.
func NewPipeline(cfg *Config, dict *synonym.Dictionary, logger zerolog.Logger) *Pipeline {
	resolver := synonym.NewResolver(dict, logger)
	return &Pipeline{
		vendors:  NewVendorNormalizer(cfg, resolver, logger),
		products: NewProductNormalizer(cfg, logger),
		logger:   logger.With().Str("component", "normalize.pipeline").Logger(),
	}
}

// Run normalizes a table in place and returns the change log for the
// audit artifact. Rows are marked normalized afterwards.
func (p *Pipeline) Run(t *record.Table) *ChangeLog {
	log := p.vendors.NormalizeTable(t)
	p.products.CleanTable(t)
	CleanTableVersions(t)
	CleanTableVersionRanges(t)
	for i := range t.Rows {
		t.Rows[i].Normalized = true
	}
	p.logger.Info().
		Str("source", t.Source).
		Int("rows", t.Len()).
		Int("vendor_changes", len(log.Changes)).
		Msg("table normalized")
	return log
}
