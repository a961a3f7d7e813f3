// Package organisation resolves the organisation names that appear on
// select committee submissions.
package organisation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Psopho/twfynz/pkg/bill"
	"github.com/Psopho/twfynz/pkg/slug"
)

// Organisation is a submitter to select committees.
type Organisation struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	// URL is the organisation's site host, e.g. "www.forest-bird.org.nz".
	URL string `yaml:"url,omitempty" json:"url,omitempty"`

	Slug string `yaml:"slug,omitempty" json:"slug,omitempty"`

	// AlternateNames are other names used when searching debates for mentions.
	AlternateNames []string `yaml:"alternate_names,omitempty" json:"alternate_names,omitempty"`
}

// SearchNames returns the names to search for mentions: the alternate
// names when present, otherwise the name.
func (o *Organisation) SearchNames() []string {
	if len(o.AlternateNames) == 0 {
		return []string{o.Name}
	}
	return o.AlternateNames
}

// Directory looks up stored organisations.
type Directory interface {
	OrganisationByName(name string) (*Organisation, bool)
	OrganisationSlugTaken(slug string) bool
}

var (
	documentPart  = regexp.MustCompile(`(?i)^(.+)\s(Supp\s?\d+|Appendix(\s?\d+)?|Part\s?\d+)$`)
	companySuffix = regexp.MustCompile(`(?i)^(.+)\s(Limited|Inc)$`)
	supplement    = regexp.MustCompile(`^(.+) Supp\d+$`)
	hostPattern   = regexp.MustCompile(`^((?:[-a-z0-9_]+\.)+[a-z]{2,})$`)
)

// Resolver finds organisations from submission titles.
type Resolver struct {
	Directory Directory
}

// NewResolver returns a resolver over dir.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{Directory: dir}
}

// FromName finds the organisation a submission title names. Trailing
// "Supp 2", "Appendix 1" or "Part 3" markers are ignored. When the exact
// name is unknown one alternate spelling is tried, then "The X" is tried
// as "X of New Zealand".
func (r *Resolver) FromName(text string) (*Organisation, error) {
	name := text
	if m := documentPart.FindStringSubmatch(text); m != nil {
		name = m[1]
	}

	if o, ok := r.Directory.OrganisationByName(name); ok {
		return o, nil
	}

	if alternate := alternateName(name); alternate != name {
		if o, ok := r.Directory.OrganisationByName(alternate); ok {
			return o, nil
		}
	}

	if strings.HasPrefix(name, "The ") {
		if o, ok := r.Directory.OrganisationByName(strings.TrimPrefix(name, "The ") + " of New Zealand"); ok {
			return o, nil
		}
	}

	return nil, fmt.Errorf("organisation %q: %w", text, bill.ErrNotFound)
}

func alternateName(name string) string {
	switch {
	case companySuffix.MatchString(name):
		return companySuffix.FindStringSubmatch(name)[1]
	case strings.Contains(name, "Incorporated"):
		return strings.Replace(name, "Incorporated", "Inc", 1)
	case strings.HasPrefix(name, "The "):
		return strings.TrimPrefix(name, "The ")
	case strings.Contains(name, "New Zealand"):
		return strings.Replace(name, "New Zealand", "NZ", 1)
	case strings.Contains(name, "NZ"):
		return strings.Replace(name, "NZ", "New Zealand", 1)
	default:
		return strings.TrimSpace(name) + " Limited"
	}
}

// Prepare normalizes a new organisation before it is saved: the URL loses
// its scheme and trailing slash, a "SuppN" suffix is dropped from the name,
// and a slug is assigned.
func Prepare(o *Organisation, dir Directory) error {
	o.URL = strings.TrimPrefix(strings.TrimSuffix(o.URL, "/"), "http://")
	if m := supplement.FindStringSubmatch(o.Name); m != nil {
		o.Name = m[1]
	}

	var errs bill.ValidationErrors
	if strings.TrimSpace(o.Name) == "" {
		errs = append(errs, bill.ValidationError{Field: "name", Message: "can't be blank"})
	} else if o.Slug == "" {
		o.Slug = slug.Organisation(o.Name, dir.OrganisationSlugTaken)
	}
	if o.URL != "" && !hostPattern.MatchString(o.URL) {
		errs = append(errs, bill.ValidationError{Field: "url", Message: "is invalid", Value: o.URL})
	}
	if len(errs) > 0 {
		return fmt.Errorf("validating organisation %q: %w", o.Name, errs)
	}
	return nil
}

// CacheKeys lists the cached pages that show the organisation.
func CacheKeys(o *Organisation) []string {
	return []string{
		fmt.Sprintf("organisations/%s/mentions.cache", o.Slug),
		fmt.Sprintf("organisations/%s.cache", o.Slug),
		"organisations.cache",
	}
}
