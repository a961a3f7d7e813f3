// Package normalize rewrites free-text bill mentions into lookup keys.
//
// Bill names in Hansard and the order paper are transcribed by hand and are
// inconsistently punctuated. Rather than fuzzy matching, resolution tries a
// fixed ladder of rewrites, each targeting one observed failure mode, so a
// match can always be traced to the rung that produced it.
package normalize

import (
	"strings"
)

// Normalizer transforms a name before lookup.
type Normalizer func(string) string

// Rung is one named step of the rewrite ladder.
type Rung struct {
	// Name identifies the rewrite in logs.
	Name string

	// Apply rewrites the original text. Each rung starts from the verbatim
	// text, so rungs are independent of one another.
	Apply Normalizer
}

// Correction is a literal replacement for a historically observed typo or
// abbreviation in transcribed bill names.
type Correction struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// DefaultCorrections are the corrections observed in Hansard transcripts.
var DefaultCorrections = []Correction{
	{From: "Appropriations", To: "Appropriation"},
	{From: "RateAmendments", To: "Rate Amendments"},
	{From: "andAsure", To: "and Asure"},
}

// Verbatim returns the text unchanged.
func Verbatim(s string) string {
	return s
}

// SpaceHyphens turns "-" into " - ", the form used for hyphenated Māori
// and English title pairs.
func SpaceHyphens(s string) string {
	return strings.ReplaceAll(s, "-", " - ")
}

// StraightenApostrophes replaces curly apostrophes with straight ones.
func StraightenApostrophes(s string) string {
	return strings.ReplaceAll(s, "’", "'")
}

// TrimClosingParen straightens apostrophes and drops one trailing ")".
func TrimClosingParen(s string) string {
	return strings.TrimSuffix(StraightenApostrophes(s), ")")
}

// SqueezeParens applies TrimClosingParen, puts a space before the first "("
// and after the first ")", then collapses runs of spaces.
func SqueezeParens(s string) string {
	s = TrimClosingParen(s)
	s = strings.Replace(s, ")", ") ", 1)
	s = strings.Replace(s, "(", " (", 1)
	return squeezeSpaces(s)
}

// Correct returns a normalizer that applies SqueezeParens and then the
// correction to the first occurrence of its From text.
func Correct(c Correction) Normalizer {
	return func(s string) string {
		return strings.Replace(SqueezeParens(s), c.From, c.To, 1)
	}
}

// Ladder returns the rewrite ladder in the order it must be tried: the
// verbatim text, spaced hyphens, straight apostrophes, trimmed closing
// parenthesis, squeezed parentheses, then one rung per correction.
func Ladder(corrections []Correction) []Rung {
	ladder := []Rung{
		{Name: "verbatim", Apply: Verbatim},
		{Name: "space-hyphens", Apply: SpaceHyphens},
		{Name: "straighten-apostrophes", Apply: StraightenApostrophes},
		{Name: "trim-closing-paren", Apply: TrimClosingParen},
		{Name: "squeeze-parens", Apply: SqueezeParens},
	}
	for _, c := range corrections {
		ladder = append(ladder, Rung{Name: "correct:" + c.From, Apply: Correct(c)})
	}
	return ladder
}

// DefaultLadder is Ladder(DefaultCorrections).
func DefaultLadder() []Rung {
	return Ladder(DefaultCorrections)
}

// Variants applies every rung of the ladder to name, in order. Duplicate
// variants are kept so that each position maps to its rung.
func Variants(name string, ladder []Rung) []string {
	variants := make([]string, len(ladder))
	for i, rung := range ladder {
		variants[i] = rung.Apply(name)
	}
	return variants
}

// plainStrip deletes the characters dropped from plain names.
var plainStrip = strings.NewReplacer("-", "", ":", "", "/", "", ",", "", "'", "", "(", "", ")", "")

// Plain strips hyphens, colons, slashes, commas, apostrophes and
// parentheses, giving the key used for plain-name lookups.
func Plain(name string) string {
	return plainStrip.Replace(name)
}

func squeezeSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	previousSpace := false
	for _, r := range s {
		if r == ' ' {
			if previousSpace {
				continue
			}
			previousSpace = true
		} else {
			previousSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
