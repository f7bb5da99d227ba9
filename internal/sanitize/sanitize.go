// Package sanitize normalizes raw formula text before it is scanned.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	quotes        = strings.NewReplacer(`"`, "", `'`, "", "“", "", "”", "", "‘", "", "’", "", "«", "", "»", "")
	punctuation   = strings.NewReplacer(",", "", ".", "", ";", "", "[", "", "]", "", "{", "", "}", "")
)

// Fold removes diacritics, turning "Número" into "Numero" and "año" into "ano".
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Formula prepares text for the scanner: accents are folded, quotes removed
// and every whitespace run (newlines and tabs included) becomes one space.
// With strict set, commas, periods, semicolons, brackets and braces are
// stripped as well. The result is not trimmed.
func Formula(text string, strict bool) string {
	text = Fold(text)
	text = quotes.Replace(text)
	if strict {
		text = punctuation.Replace(text)
	}
	return whitespaceRun.ReplaceAllString(text, " ")
}
