// Package textnorm provides the accent-insensitive, case-insensitive text
// comparison used by every label search in the extraction pipeline.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize decomposes accented characters, discards combining marks and
// lowercases the result, so that "Número Asignado" compares equal to
// "numero asignado". It is total over any input; a transform failure falls
// back to lowercasing the original string.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
