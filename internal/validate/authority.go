package validate

import (
	"net/url"
	"strings"
)

// DefaultOfficialDomains are the suffixes of Indian government websites
var DefaultOfficialDomains = []string{"gov.in", "nic.in"}

// DomainClassifier decides whether a scheme link points at an official
// government website
type DomainClassifier struct {
	suffixes []string
}

// NewDomainClassifier creates a classifier. Extra domains are added to the
// defaults; a host matches a domain exactly or as a subdomain.
func NewDomainClassifier(extra []string) *DomainClassifier {
	suffixes := make([]string, 0, len(DefaultOfficialDomains)+len(extra))
	for _, d := range append(append([]string{}, DefaultOfficialDomains...), extra...) {
		d = strings.ToLower(strings.Trim(strings.TrimSpace(d), "."))
		if d != "" {
			suffixes = append(suffixes, d)
		}
	}
	return &DomainClassifier{suffixes: suffixes}
}

// IsOfficial reports whether rawURL is hosted on an official domain
func (c *DomainClassifier) IsOfficial(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}

	for _, d := range c.suffixes {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
