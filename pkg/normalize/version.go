package normalize

import (
	"regexp"
	"strings"

	"github.com/csafmatch/csafmatch/pkg/record"
)

var nonVersionChars = regexp.MustCompile(`[^0-9.]`)

// CleanVersion strips everything that is not a digit or a dot and drops
// a trailing dot left behind by suffixes like "RevA". An empty result
// means no version info is available.
func CleanVersion(s string) string {
	cleaned := nonVersionChars.ReplaceAllString(s, "")
	cleaned = strings.TrimSuffix(cleaned, ".")
	return cleaned
}

// CleanTableVersions normalizes the version column of a table in place.
// The modified column may already hold a value inferred from the
// product name; it is cleaned either way.
func CleanTableVersions(t *record.Table) {
	for i := range t.Rows {
		t.Rows[i].ProductVersionModified = CleanVersion(t.Rows[i].ProductVersionModified)
	}
}

// CleanTableVersionRanges copies the raw version-range column through.
// Range expressions carry their own grammar and are interpreted at
// match time, not rewritten here.
func CleanTableVersionRanges(t *record.Table) {
	for i := range t.Rows {
		t.Rows[i].ProductVersionRangeModified = t.Rows[i].ProductVersionRange
	}
}
