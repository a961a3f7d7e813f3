// Package slug derives the permanent URL identifiers of bills and
// organisations from their display names.
package slug

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Psopho/twfynz/pkg/normalize"
)

const (
	// DefaultMaxLength is the longest bill slug produced before a
	// collision suffix is added.
	DefaultMaxLength = 40

	// DefaultSuffixBudget is the length a truncated slug is cut back to
	// when a numeric suffix has to be re-appended.
	DefaultSuffixBudget = 35
)

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(slug string) bool

// Generator builds bill slugs within a length budget.
type Generator struct {
	// MaxLength is the longest slug produced before a collision suffix.
	MaxLength int

	// SuffixBudget is the prefix length kept when a numeric suffix such
	// as "_no_2" must be re-appended after truncation.
	SuffixBudget int
}

// NewGenerator returns a generator with the default length budget.
func NewGenerator() *Generator {
	return &Generator{MaxLength: DefaultMaxLength, SuffixBudget: DefaultSuffixBudget}
}

var (
	billPunctuation = strings.NewReplacer(",", "", ":", "", "(", "", ")", "", "/ ", " ", "/", " ", "'", "")
	ngatiPattern    = regexp.MustCompile(`\bng[^\s_]*ti\b`)
	droppedWords    = regexp.MustCompile(`\s(and|bill|miscellaneous|provisions|as a)\b`)
	spaceRun        = regexp.MustCompile(`\s+`)
	numberSuffix    = regexp.MustCompile(`(_no_\d+)(?:_|$)`)
)

// Bill returns the slug for a bill's display name. The name is folded to
// lower-case Latin, punctuation, hyphens and filler words are dropped,
// spaces become underscores, and the result is cut back to a word boundary
// within MaxLength. A "No N" number survives truncation: the prefix is cut
// to make room for it so the slug stays within MaxLength.
//
// With the default MaxLength of 40, "Privacy (Cross-Border Information)
// Amendment Bill" gives "privacy_crossborder_information"; the untruncated
// "privacy_crossborder_information_amendment" is 41 characters.
//
// When exists reports the slug taken, "_<year>" is appended; if that is
// also taken, or year is zero, "_2", "_3" and so on follow until exists
// reports the candidate free. Collision suffixes may take the slug past
// MaxLength.
func (g *Generator) Bill(displayName string, year int, exists ExistsFunc) string {
	s := strings.ToLower(normalize.Latin(displayName))
	s = billPunctuation.Replace(s)
	s = ngatiPattern.ReplaceAllString(s, "ngati")
	s = droppedWords.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "new zealand", "nz")
	s = strings.ReplaceAll(s, " - ", " ")
	s = strings.ReplaceAll(s, "-", "")
	s = spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	s = strings.ReplaceAll(s, " ", "_")

	var suffix string
	if m := numberSuffix.FindStringSubmatch(s); m != nil {
		suffix = m[1]
	}

	s = g.truncate(s)

	if suffix != "" && !strings.Contains(s, suffix) {
		s = g.appendNumber(s, suffix)
	}

	if exists != nil && exists(s) {
		s = uncollide(s, year, exists)
	}
	return s
}

// appendNumber re-appends a "_no_N" suffix lost to truncation. The prefix is
// kept to at most SuffixBudget runes, and shorter still when the suffix
// would otherwise push the slug past MaxLength.
func (g *Generator) appendNumber(s, suffix string) string {
	limit := g.SuffixBudget
	if g.MaxLength > 0 && g.MaxLength-len(suffix) < limit {
		limit = g.MaxLength - len(suffix)
	}
	if limit < 0 {
		limit = 0
	}

	runes := []rune(s)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	prefix := strings.TrimSuffix(strings.TrimRight(string(runes), "_"), "_no")
	return prefix + suffix
}

func uncollide(s string, year int, exists ExistsFunc) string {
	base := s
	if year > 0 {
		base = s + "_" + strconv.Itoa(year)
		if !exists(base) {
			return base
		}
	}
	for index := 2; ; index++ {
		candidate := base + "_" + strconv.Itoa(index)
		if !exists(candidate) {
			return candidate
		}
	}
}

// truncate cuts s to MaxLength, backing up to the previous underscore when
// the cut falls inside a word.
func (g *Generator) truncate(s string) string {
	runes := []rune(s)
	if g.MaxLength <= 0 || len(runes) <= g.MaxLength {
		return s
	}
	inWord := isWordRune(runes[g.MaxLength])
	cut := string(runes[:g.MaxLength])
	if inWord {
		if i := strings.LastIndex(cut, "_"); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, "_")
}

// Bill generates a bill slug with the default length budget.
func Bill(displayName string, year int, exists ExistsFunc) string {
	return NewGenerator().Bill(displayName, year, exists)
}

var organisationPunctuation = strings.NewReplacer(" ", "_", "'", "", `"`, "", "(", "", ")", "", ".", "", ",", "", "&", "and")

// Organisation returns the slug for an organisation name. Collisions are
// resolved by appending "_2", "_3" and so on.
func Organisation(name string, exists ExistsFunc) string {
	s := strings.ToLower(strings.TrimSpace(normalize.Latin(name)))
	s = organisationPunctuation.Replace(s)
	s = strings.TrimPrefix(s, "the_")
	s = strings.TrimSuffix(s, "_inc")
	s = strings.Replace(s, "new_zealand", "nz", 1)

	if exists == nil || !exists(s) {
		return s
	}
	for index := 2; ; index++ {
		candidate := s + "_" + strconv.Itoa(index)
		if !exists(candidate) {
			return candidate
		}
	}
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
