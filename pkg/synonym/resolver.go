package synonym

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var (
	punctuation = regexp.MustCompile(`[()\[\],\-._/]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Resolver answers "what is the canonical label for this token" against an
// immutable dictionary. Lookups are case-insensitive whole-word searches
// over every cell; no match is an expected outcome and never an error.
type Resolver struct {
	dict   *Dictionary
	logger zerolog.Logger
}

// NewResolver builds a resolver over the given dictionary.
func NewResolver(dict *Dictionary, logger zerolog.Logger) *Resolver {
	return &Resolver{
		dict:   dict,
		logger: logger.With().Str("component", "synonym.resolver").Logger(),
	}
}

// Resolve maps a raw token to its canonical label(s), comma-joined.
//
// scope optionally names the attribute to search: it is itself resolved
// through the alias row, and only when it names exactly one column is the
// search restricted to that column; an ambiguous or unknown scope falls
// back to the whole dictionary with a logged note.
//
// A hit in the alias row means the token names an attribute, not a value;
// the result is then the matching column name(s). Hits in value rows
// accumulate their row labels. Empty input logs a warning and returns "".
func (r *Resolver) Resolve(token, scope string) string {
	if token == "" {
		r.logger.Warn().Msg("no input string to resolve")
		return ""
	}

	columns := r.dict.Columns()
	if scope != "" {
		scoped := r.scopeColumns(scope)
		if len(scoped) == 1 {
			r.logger.Info().Str("scope", scope).Str("column", scoped[0]).Msg("using scoped column")
			columns = scoped
		} else {
			r.logger.Info().Str("scope", scope).Int("columns", len(scoped)).
				Msg("inconclusive scope, searching whole dictionary")
		}
	}

	cleaned := cleanToken(token)
	if cleaned == "" {
		return ""
	}
	wordRe, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(cleaned) + `\b`)
	if err != nil {
		return ""
	}

	// Alias-row hits take precedence: the token names a column.
	var aliasHits []string
	for _, col := range columns {
		if cellMatches(wordRe, r.dict.Aliases(col, AliasRow)) {
			aliasHits = append(aliasHits, col)
		}
	}
	if len(aliasHits) > 1 {
		r.logger.Info().Str("token", token).Strs("columns", aliasHits).
			Msg("multiple alias hits for token")
	}
	if len(aliasHits) > 0 {
		return strings.Join(aliasHits, ", ")
	}

	var labels []string
	for _, col := range columns {
		for _, row := range r.dict.Rows(col) {
			if row == AliasRow {
				continue
			}
			if cellMatches(wordRe, r.dict.Aliases(col, row)) {
				labels = append(labels, row)
			}
		}
	}
	if len(labels) > 1 {
		r.logger.Info().Str("token", token).Strs("labels", labels).
			Msg("multiple dictionary hits for token")
	}
	return strings.Join(labels, ", ")
}

// scopeColumns resolves a scope name against the alias row and returns the
// columns it could mean.
func (r *Resolver) scopeColumns(scope string) []string {
	lower := strings.ToLower(scope)
	var out []string
	for _, col := range r.dict.Columns() {
		for _, alias := range r.dict.Aliases(col, AliasRow) {
			if strings.Contains(strings.ToLower(alias), lower) {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func cellMatches(re *regexp.Regexp, aliases []string) bool {
	for _, alias := range aliases {
		// Aliases get the same punctuation treatment as the token, so
		// "siemens.com" matches whether the corpus spells it with the dot
		// or not.
		if re.MatchString(alias) || re.MatchString(cleanToken(alias)) {
			return true
		}
	}
	return false
}

func cleanToken(token string) string {
	cleaned := punctuation.ReplaceAllString(token, " ")
	cleaned = whitespace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
