package organisation

import "strings"

// Category classifies an organisation by its site's domain.
type Category string

const (
	CategoryEducation  Category = "Education"
	CategoryCommercial Category = "Commercial"
	CategoryGovernment Category = "Government"
	CategoryOther      Category = "Other"
)

var (
	educationDomains  = []string{"ac.nz", "school.nz"}
	commercialDomains = []string{"co.nz", "com", "com.au"}

	// Some councils publish under commercial domains.
	governmentDomains = []string{"govt.nz", "www.nelsoncitycouncil.co.nz", "www.franklindistrict.co.nz"}

	otherDomains = []string{"org.nz", "net.nz", "org", "info", "asn.au", "www.ncwnz.co.nz"}
)

// Domain returns the registrable suffix of host: the last two labels under
// a two-letter country code, otherwise the top-level label.
func Domain(host string) string {
	if host == "" {
		return ""
	}
	parts := strings.Split(host, ".")
	last := parts[len(parts)-1]
	if len(last) == 2 && len(parts) > 1 {
		return parts[len(parts)-2] + "." + last
	}
	return last
}

// CategoryOf classifies a site host. The other and government lists are
// consulted first so that their host entries override a commercial domain.
func CategoryOf(host string) Category {
	domain := Domain(host)
	switch {
	case contains(otherDomains, domain) || contains(otherDomains, host):
		return CategoryOther
	case contains(governmentDomains, domain) || contains(governmentDomains, host):
		return CategoryGovernment
	case contains(educationDomains, domain):
		return CategoryEducation
	case contains(commercialDomains, domain):
		return CategoryCommercial
	default:
		return CategoryOther
	}
}

// Category classifies the organisation by its URL.
func (o *Organisation) Category() Category {
	return CategoryOf(o.URL)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
