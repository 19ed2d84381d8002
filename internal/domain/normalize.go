package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey returns the comparison key used for topic names and front text.
// Two strings that differ only in surrounding whitespace, letter case or Unicode
// composition produce the same key. Keys are computed before every lookup and
// every write so that the storage layer can enforce uniqueness on plain columns.
func NormalizeKey(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	// cases.Caser is stateful and not safe for concurrent use.
	return cases.Fold().String(norm.NFC.String(trimmed))
}
