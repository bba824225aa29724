// Package phone recognizes Dominican Republic phone numbers in free text.
//
// A valid number is an optional "+1"/"1" country prefix, an area code from
// the closed set 809/829/849 (optionally parenthesized), and 3+4 digit
// groups, with space, hyphen or period allowed between groups.
package phone

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// The regexp engine has no lookaround, so digit adjacency on either side of
// a match is checked separately in Find.
var rdPattern = regexp.MustCompile(`(?:\+?\s*1[\s\-.]*)?\(?\s*8(?:09|29|49)\s*\)?[\s\-.]*[0-9]{3}[\s\-.]*[0-9]{4}`)

const region = "DO"

// Find returns the first Dominican phone number shape in text. A candidate
// that is immediately preceded or followed by another digit is skipped, so a
// sub-sequence of a longer digit run never matches.
func Find(text string) (string, bool) {
	offset := 0
	for offset < len(text) {
		loc := rdPattern.FindStringIndex(text[offset:])
		if loc == nil {
			return "", false
		}
		start, end := offset+loc[0], offset+loc[1]
		if digitAdjacent(text, start, end) {
			offset = start + 1
			continue
		}
		// The leading \s* can pull in whitespace before the area code.
		match := strings.TrimSpace(text[start:end])
		if !plausible(match) {
			offset = start + 1
			continue
		}
		return match, true
	}
	return "", false
}

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize collapses a matched number to its 10 significant digits,
// dropping a leading country code when present. Matches that strip to fewer
// than 10 digits are rejected rather than passed through short.
func Normalize(match string) (string, bool) {
	d := Digits(match)
	if len(d) < 10 {
		return "", false
	}
	return d[len(d)-10:], true
}

// FormatE164 renders a normalized 10-digit number as +1XXXXXXXXXX for
// diagnostics. The input is returned unchanged if it does not parse.
func FormatE164(digits string) string {
	num, err := phonenumbers.Parse(digits, region)
	if err != nil {
		return digits
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// plausible runs the candidate through libphonenumber's length heuristics to
// discard OCR garbage that happens to fit the pattern shape. Parse failures
// do not reject: the regexp shape remains authoritative.
func plausible(match string) bool {
	num, err := phonenumbers.Parse(match, region)
	if err != nil {
		return true
	}
	return phonenumbers.IsPossibleNumber(num)
}

func digitAdjacent(text string, start, end int) bool {
	if start > 0 && isDigit(text[start-1]) {
		return true
	}
	if end < len(text) && isDigit(text[end]) {
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
