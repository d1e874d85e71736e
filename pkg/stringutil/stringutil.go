// Package stringutil provides small string helpers shared by the CLI
// output layer.
package stringutil

import "strings"

// Ellipsis flattens s to a single line and shortens it to maxLength,
// appending "..." when it had to truncate. A maxLength of 3 or less
// leaves no room for the ellipsis, so the string is cut hard instead.
func Ellipsis(s string, maxLength int) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")

	if maxLength < 0 {
		return ""
	}
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
