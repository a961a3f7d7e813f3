package normalize

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctuationFold maps typographic punctuation onto its ASCII form.
var punctuationFold = runes.Map(func(r rune) rune {
	switch r {
	case '‘', '’', 'ʼ':
		return '\''
	case '“', '”':
		return '"'
	case '–', '—':
		return '-'
	case '\u00a0':
		return ' '
	}
	return r
})

// Latin folds text onto the Latin alphabet without diacritics, so that
// "Ngāti Pāhauwera" becomes "Ngati Pahauwera". Case is preserved.
func Latin(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), punctuationFold, norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}
