package bill

import (
	"regexp"
	"strings"
)

// Change is the parsed form of a bill-change annotation from the
// Parliament bill listing, such as "(Formerly Local Government Bill)" or
// "(Formerly part of Taxation Bill)".
type Change struct {
	// FormerName is set for renames.
	FormerName string

	// ParentName is set when the bill was divided from another bill.
	ParentName string
}

const (
	formerlyPrefix       = "(Formerly "
	formerlyPartOfPrefix = "(Formerly part of "
)

// ParseChange interprets a bill-change annotation. At most one of the
// returned fields is set.
func ParseChange(annotation string) Change {
	annotation = strings.TrimSpace(annotation)
	switch {
	case annotation == "":
		return Change{}
	case strings.Contains(annotation, "Formerly part of"):
		name := strings.ReplaceAll(annotation, formerlyPartOfPrefix, "")
		return Change{ParentName: strings.TrimSpace(strings.TrimSuffix(name, ")"))}
	case strings.Contains(annotation, "Formerly "):
		name := strings.ReplaceAll(annotation, formerlyPrefix, "")
		return Change{FormerName: strings.TrimSpace(strings.TrimSuffix(name, ")"))}
	}
	return Change{}
}

var maoriPattern = regexp.MustCompile(`M.*ori `)

// CommitteeNameFromReferral normalizes a "referred to" annotation into a
// committee name, folding macronised spellings of "Māori".
func CommitteeNameFromReferral(referredTo string) string {
	return maoriPattern.ReplaceAllString(strings.TrimSpace(referredTo), "Maori ")
}
