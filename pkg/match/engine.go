package match

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/csafmatch/csafmatch/pkg/record"
)

// Stats summarizes one engine run for the batch report.
type Stats struct {
	RowsA          int `json:"rows_a"`
	RowsB          int `json:"rows_b"`
	RowsAFiltered  int `json:"rows_a_filtered"`
	RowsBFiltered  int `json:"rows_b_filtered"`
	PairsScored    int `json:"pairs_scored"`
	PairsSkipped   int `json:"pairs_skipped"`
	Matches        int `json:"matches"`
	NoMatches      int `json:"no_matches"`
	Warnings       int `json:"warnings"`
	VendorsInPlay  int `json:"vendors_in_play"`
	ProductWeights ProductWeights
}

// Engine drives the full pairwise comparison of two normalized tables.
// It is a plain synchronous batch loop; the vendor pre-filter is the only
// scale mitigation and must never change verdicts, only skip pairs that are
// doomed to fail the vendor gate anyway.
type Engine struct {
	thresholds    Thresholds
	nameWeights   ProductWeights
	familyWeights ProductWeights
	logger        zerolog.Logger
}

// NewEngine builds an engine with the given decision thresholds.
func NewEngine(t Thresholds, logger zerolog.Logger) *Engine {
	return &Engine{
		thresholds:    t,
		nameWeights:   DefaultNameWeights,
		familyWeights: DefaultFamilyWeights,
		logger:        logger.With().Str("component", "match.engine").Logger(),
	}
}

// SetWeights overrides the token-group weights for product name and
// family scoring. Zero-value weight sets are ignored so a partially
// populated config cannot silence a whole token group by accident.
func (e *Engine) SetWeights(name, family ProductWeights) {
	if name != (ProductWeights{}) {
		e.nameWeights = name
	}
	if family != (ProductWeights{}) {
		e.familyWeights = family
	}
}

// MatchAll scores every pair of the filtered cross product of a and b and
// returns one result row per scored pair, no-match rows included. Output
// order is the stable iteration order of (a row order) x (b row order).
// The context is consulted between outer rows so a caller can abandon a
// long batch; in-flight row comparisons are never interrupted.
func (e *Engine) MatchAll(ctx context.Context, a, b *record.Table) ([]record.MatchResult, Stats, error) {
	stats := Stats{
		RowsA:          a.Len(),
		RowsB:          b.Len(),
		ProductWeights: e.nameWeights,
	}

	for _, t := range []*record.Table{a, b} {
		if n := unnormalizedRows(t); n > 0 {
			stats.Warnings++
			e.logger.Warn().
				Str("source", t.Source).
				Int("rows", n).
				Msg("table holds rows the normalizers never processed")
		}
	}

	rowsA, rowsB, inPlay := e.filterMatchingVendors(a, b)
	stats.RowsAFiltered = len(rowsA)
	stats.RowsBFiltered = len(rowsB)
	stats.VendorsInPlay = len(inPlay)
	stats.PairsSkipped = a.Len()*b.Len() - len(rowsA)*len(rowsB)

	e.logger.Debug().
		Int("rows_a", stats.RowsA).
		Int("rows_b", stats.RowsB).
		Int("rows_a_filtered", stats.RowsAFiltered).
		Int("rows_b_filtered", stats.RowsBFiltered).
		Msg("vendor pre-filter applied")

	results := make([]record.MatchResult, 0, len(rowsA)*len(rowsB))
	for i := range rowsA {
		select {
		case <-ctx.Done():
			return results, stats, ctx.Err()
		default:
		}
		r1 := &rowsA[i]
		for j := range rowsB {
			r2 := &rowsB[j]

			vendorScore := MatchVendor(r1.VendorModified, r2.VendorModified)
			// Pairs that cannot pass the vendor gate produce no row; the
			// engine mirrors the gate the aggregator would apply anyway.
			if !vendorScore.Known() || vendorScore.Int() < e.thresholds.Vendor {
				stats.PairsSkipped++
				continue
			}

			scores := Scores{
				Vendor:  vendorScore,
				Name:    MatchProduct(r1.ProductNameModified, r2.ProductNameModified, e.nameWeights),
				Family:  MatchProduct(r1.ProductFamilyModified, r2.ProductFamilyModified, e.familyWeights),
				Version: MatchVersion(r1.ProductVersionModified, r2.ProductVersionModified, r1.ProductVersionRangeModified),
				Keyword: MatchKeyword(r1.FunctionKeywordsFound, r2.FunctionKeywordsFound),
			}
			verdict, reason := Decide(scores, e.thresholds)

			results = append(results, record.MatchResult{
				Vendor1:              r1.Vendor,
				Vendor2:              r2.Vendor,
				Vendor1Modified:      r1.VendorModified,
				Vendor2Modified:      r2.VendorModified,
				ProductName1:         r1.ProductName,
				ProductName2:         r2.ProductName,
				ProductName1Modified: r1.ProductNameModified,
				ProductName2Modified: r2.ProductNameModified,
				Keywords1:            r1.FunctionKeywordsFound,
				Keywords2:            r2.FunctionKeywordsFound,
				Version1Modified:     r1.ProductVersionModified,
				Version2Modified:     r2.ProductVersionModified,
				Range1Modified:       r1.ProductVersionRangeModified,
				Source1:              r1.DataSource,
				Source2:              r2.DataSource,
				VendorScore:          scores.Vendor,
				ProductNameScore:     scores.Name,
				ProductFamilyScore:   scores.Family,
				VersionScore:         scores.Version,
				KeywordScore:         scores.Keyword,
				RangeContainment:     VersionInRange(r2.ProductVersionModified, r1.ProductVersionRangeModified),
				Verdict:              verdict,
				Reason:               reason,
			})
			stats.PairsScored++
			if verdict == 1 {
				stats.Matches++
			} else {
				stats.NoMatches++
			}
		}
	}

	e.logger.Info().
		Int("pairs_scored", stats.PairsScored).
		Int("pairs_skipped", stats.PairsSkipped).
		Int("matches", stats.Matches).
		Msg("pairwise matching complete")

	return results, stats, nil
}

// filterMatchingVendors computes the set of canonical vendor values that
// survive a cross-side vendor similarity at or above the vendor threshold
// and restricts both tables to rows whose vendor is in that set.
func (e *Engine) filterMatchingVendors(a, b *record.Table) (rowsA, rowsB []record.Record, inPlay map[string]struct{}) {
	vendorsA := uniqueVendorValues(a)
	vendorsB := uniqueVendorValues(b)

	inPlay = make(map[string]struct{})
	for _, v1 := range vendorsA {
		for _, v2 := range vendorsB {
			score := MatchVendor(v1, v2)
			if score.Known() && score.Int() >= e.thresholds.Vendor {
				inPlay[v1] = struct{}{}
				inPlay[v2] = struct{}{}
			}
		}
	}

	for i := range a.Rows {
		if _, ok := inPlay[a.Rows[i].VendorModified]; ok {
			rowsA = append(rowsA, a.Rows[i])
		}
	}
	for i := range b.Rows {
		if _, ok := inPlay[b.Rows[i].VendorModified]; ok {
			rowsB = append(rowsB, b.Rows[i])
		}
	}
	return rowsA, rowsB, inPlay
}

// unnormalizedRows counts rows whose derived columns were never
// populated; scoring them compares raw text against cleaned text.
func unnormalizedRows(t *record.Table) int {
	n := 0
	for i := range t.Rows {
		if !t.Rows[i].Normalized {
			n++
		}
	}
	return n
}

func uniqueVendorValues(t *record.Table) []string {
	seen := make(map[string]struct{}, len(t.Rows))
	out := make([]string, 0, len(t.Rows))
	for i := range t.Rows {
		v := t.Rows[i].VendorModified
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
