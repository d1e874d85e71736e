package normalize

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csafmatch/csafmatch/pkg/record"
)

var (
	commaRe         = regexp.MustCompile(`,`)
	bracketChars    = regexp.MustCompile(`[()]`)
	trailingVersion = regexp.MustCompile(`v\d+$`)
)

// ProductNormalizer cleans the product family and name columns, hoists
// embedded vendor hints and function keywords out of them, and infers
// version info from trailing name tokens.
type ProductNormalizer struct {
	cfg    *Config
	logger zerolog.Logger
}

// NewProductNormalizer builds a product normalizer over the given corpus.
func NewProductNormalizer(cfg *Config, logger zerolog.Logger) *ProductNormalizer {
	return &ProductNormalizer{
		cfg:    cfg,
		logger: logger.With().Str("component", "normalize.product").Logger(),
	}
}

// CleanTable normalizes the product columns of a table in place. The
// family column is cleaned first so the name pass can fall back to it,
// then keywords are extracted and vendor cells deduplicated.
func (n *ProductNormalizer) CleanTable(t *record.Table) {
	n.cleanColumn(t, true)
	n.cleanColumn(t, false)
	n.extractKeywords(t)
	for i := range t.Rows {
		t.Rows[i].VendorModified = dedupeJoined(t.Rows[i].VendorModified)
	}
	n.logger.Debug().Int("rows", t.Len()).Msg("product columns normalized")
}

// cleanColumn cleans one product column. Vendor hits found along the
// way are appended to the row's vendor cell, and the matched fragment
// moves into the family cell. The cleaned values are assigned in one
// batch at the end, so fragments appended to the family cell while the
// family column itself is being cleaned do not survive that pass.
func (n *ProductNormalizer) cleanColumn(t *record.Table, family bool) {
	cleaned := make([]string, t.Len())
	for i := range t.Rows {
		row := &t.Rows[i]
		raw := row.ProductName
		if family {
			raw = row.ProductFamily
		}

		// Family is the more reliable fallback when the name is absent.
		if !family && strings.TrimSpace(raw) == "" && row.ProductFamilyModified != "" {
			cleaned[i] = row.ProductFamilyModified
			continue
		}
		if strings.TrimSpace(raw) == "" {
			cleaned[i] = ""
			continue
		}

		value := cleanProductValue(raw)
		value = n.extractVendors(row, value)
		value = removeVendorTokens(value, row.VendorModified)

		if row.ProductVersion == "" {
			if m := trailingVersion.FindString(value); m != "" {
				row.ProductVersionModified = m
			}
		} else {
			row.ProductVersionModified = row.ProductVersion
		}

		cleaned[i] = value
	}
	for i := range t.Rows {
		if family {
			t.Rows[i].ProductFamilyModified = cleaned[i]
		} else {
			t.Rows[i].ProductNameModified = cleaned[i]
		}
	}
}

// extractVendors searches the working value for known vendor naming
// conventions. Each hit appends the vendor to the row's vendor cell,
// moves the matched fragment into the family cell, and strips it from
// the value.
func (n *ProductNormalizer) extractVendors(row *record.Record, value string) string {
	for _, vp := range n.cfg.VendorPatterns {
		for _, re := range vp.Patterns {
			m := re.FindString(value)
			if m == "" {
				continue
			}
			if !containsToken(row.VendorModified, vp.Vendor) {
				row.VendorModified = appendJoined(row.VendorModified, vp.Vendor)
			}
			row.ProductFamilyModified = appendJoined(row.ProductFamilyModified, m)
			value = strings.TrimSpace(strings.Replace(value, m, "", 1))
		}
	}
	return value
}

// extractKeywords hoists configured function keywords out of the
// product columns into a dedicated attribute. Keywords are searched in
// the raw columns and deleted word-boundary-wise from the modified ones.
func (n *ProductNormalizer) extractKeywords(t *record.Table) {
	for i := range t.Rows {
		row := &t.Rows[i]
		lowName := strings.ToLower(strings.TrimSpace(row.ProductName))
		lowFam := strings.ToLower(strings.TrimSpace(row.ProductFamily))

		var found []string
		for _, kw := range n.cfg.FunctionKeywords {
			if strings.Contains(lowName, kw) || strings.Contains(lowFam, kw) {
				found = append(found, kw)
			}
		}
		row.FunctionKeywordsFound = strings.Join(found, ", ")

		for _, kw := range found {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
			if err != nil {
				continue
			}
			row.ProductNameModified = re.ReplaceAllString(row.ProductNameModified, "")
			row.ProductFamilyModified = re.ReplaceAllString(row.ProductFamilyModified, "")
		}
		row.ProductNameModified = collapseSpace(row.ProductNameModified)
		row.ProductFamilyModified = collapseSpace(row.ProductFamilyModified)
	}
}

// cleanProductValue lowercases and strips separators, copyright marks,
// and brackets, then splits hyphen-joined all-alphabetic compounds.
// Alphanumeric compounds like serial numbers stay joined.
func cleanProductValue(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slashChars.ReplaceAllString(s, " ")
	s = copyrightRe.ReplaceAllString(s, " ")
	s = commaRe.ReplaceAllString(s, " ")
	s = bracketChars.ReplaceAllString(s, "")
	return splitAlphaCompounds(s)
}

// splitAlphaCompounds breaks hyphen-joined tokens into words when every
// part is purely alphabetic.
func splitAlphaCompounds(s string) string {
	var out []string
	for _, tok := range strings.Fields(s) {
		if !strings.Contains(tok, "-") {
			out = append(out, tok)
			continue
		}
		if tok == "-" {
			continue
		}
		parts := strings.Split(tok, "-")
		if allAlpha(parts) {
			out = append(out, parts...)
		} else {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}

func allAlpha(parts []string) bool {
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
				return false
			}
		}
	}
	return true
}

// removeVendorTokens deletes every vendor already known for the row
// from the working value, so vendor names are not duplicated inside
// product text.
func removeVendorTokens(value, vendorCell string) string {
	for _, v := range strings.Split(vendorCell, ", ") {
		v = strings.TrimSpace(v)
		if v == "" || v == MissingVendor {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(v) + `\b`)
		if err != nil {
			continue
		}
		value = re.ReplaceAllString(value, "")
	}
	return collapseSpace(value)
}

func collapseSpace(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

func appendJoined(cell, v string) string {
	if cell == "" {
		return v
	}
	return cell + ", " + v
}

func containsToken(cell, v string) bool {
	for _, tok := range strings.Split(cell, ", ") {
		if tok == v {
			return true
		}
	}
	return false
}
