package normalize

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csafmatch/csafmatch/pkg/record"
	"github.com/csafmatch/csafmatch/pkg/synonym"
)

// MissingVendor is the sentinel for an absent vendor value. Rows keep it
// so they participate in joins instead of raising.
const MissingVendor = "None"

var (
	parenRe     = regexp.MustCompile(`\(.*?\)`)
	multiSpace  = regexp.MustCompile(`\s+`)
	trailingKG  = regexp.MustCompile(`(?i)\bKG$`)
	edgeDots    = regexp.MustCompile(`\s?\.$|^\.\s?|\s\.\s`)
	edgeHyphens = regexp.MustCompile(`\s?-$|^-\s?|\s-\s`)
	copyrightRe = regexp.MustCompile(`(?i)\(c\)|©`)
	trailingTLD = regexp.MustCompile(`(?i)\.(com|net|org|io|de|at|ch)$`)
	slashChars  = regexp.MustCompile(`[\\/]`)
)

// VendorNormalizer runs raw vendor strings through the staged cleaning
// pipeline: split, preclean, phrase deletion, postclean, synonym
// resolution, consolidation. Every stage transition is recorded in a
// ChangeLog for the audit artifact.
type VendorNormalizer struct {
	cfg      *Config
	resolver *synonym.Resolver
	logger   zerolog.Logger
}

// NewVendorNormalizer builds a vendor normalizer over the given corpus
// and synonym resolver.
func NewVendorNormalizer(cfg *Config, resolver *synonym.Resolver, logger zerolog.Logger) *VendorNormalizer {
	return &VendorNormalizer{
		cfg:      cfg,
		resolver: resolver,
		logger:   logger.With().Str("component", "normalize.vendor").Logger(),
	}
}

// Normalize cleans one raw vendor string and returns its consolidated
// canonical value. Multi-vendor strings are exploded, cleaned per
// token, and rejoined with ", ".
func (n *VendorNormalizer) Normalize(raw string, log *ChangeLog) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		log.record(raw, StageSplit, raw, MissingVendor)
		return MissingVendor
	}

	tokens := splitVendors(value)
	if len(tokens) > 1 {
		log.record(raw, StageSplit, value, strings.Join(tokens, " | "))
	}

	cleaned := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = n.cleanToken(raw, tok, log)
		if tok != "" {
			cleaned = append(cleaned, tok)
		}
	}

	consolidated := consolidate(cleaned)
	if consolidated == "" {
		log.Warnings++
		n.logger.Warn().Str("vendor", raw).Msg("vendor cleaned away entirely")
	}
	log.record(raw, StageConsolidate, value, consolidated)
	return consolidated
}

// NormalizeTable canonicalizes the vendor column of a whole table. Each
// unique raw vendor is cleaned once and mapped back onto every row that
// carries it, so cleaning never changes the table's row count.
func (n *VendorNormalizer) NormalizeTable(t *record.Table) *ChangeLog {
	log := &ChangeLog{}
	uniques := t.UniqueVendors()
	canonical := make(map[string]string, len(uniques))
	for _, v := range uniques {
		canonical[v] = n.Normalize(v, log)
	}
	if len(canonical) != len(uniques) {
		log.Warnings++
		n.logger.Warn().
			Int("unique_vendors", len(uniques)).
			Int("consolidated", len(canonical)).
			Msg("vendor consolidation count mismatch")
	}
	for i := range t.Rows {
		t.Rows[i].VendorModified = canonical[t.Rows[i].Vendor]
	}
	n.logger.Debug().
		Int("rows", t.Len()).
		Int("unique_vendors", len(uniques)).
		Int("changes", len(log.Changes)).
		Msg("vendor column normalized")
	return log
}

func (n *VendorNormalizer) cleanToken(original, tok string, log *ChangeLog) string {
	pre := preclean(tok)
	log.record(original, StagePreclean, tok, pre)

	// Collapse after every rule so anchored rules still see the end of
	// the string once an earlier rule has fired.
	phr := pre
	for _, re := range n.cfg.PhraseDeletions {
		phr = strings.TrimSpace(multiSpace.ReplaceAllString(re.ReplaceAllString(phr, " "), " "))
	}
	log.record(original, StagePhrases, pre, phr)

	post := postclean(phr)
	log.record(original, StagePostclean, phr, post)

	if post == "" {
		return post
	}
	if res := n.resolver.Resolve(post, "vendor"); res != "" && res != post {
		log.record(original, StageSynonym, post, res)
		return res
	}
	return post
}

// splitVendors explodes a possibly multi-vendor string on ", " and
// " and " into one token per vendor.
func splitVendors(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ", ") {
		for _, sub := range strings.Split(part, " and ") {
			out = append(out, sub)
		}
	}
	return out
}

func preclean(s string) string {
	s = parenRe.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func postclean(s string) string {
	s = strings.ReplaceAll(s, " & ", " ")
	s = multiSpace.ReplaceAllString(s, " ")
	s = trailingKG.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = edgeDots.ReplaceAllString(s, "")
	s = edgeHyphens.ReplaceAllString(s, "")
	s = slashChars.ReplaceAllString(s, " ")
	s = copyrightRe.ReplaceAllString(s, " ")
	s = trailingTLD.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// consolidate rejoins cleaned tokens with ", ", dropping duplicates and
// empty fragments while keeping first-seen order.
func consolidate(tokens []string) string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return strings.Join(out, ", ")
}

// dedupeJoined removes duplicate entries from a ", "-joined cell.
func dedupeJoined(cell string) string {
	if cell == "" {
		return ""
	}
	return consolidate(strings.Split(cell, ", "))
}
