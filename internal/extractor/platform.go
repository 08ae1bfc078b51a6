package extractor

import (
	"regexp"
	"strings"

	"job-clipper-go/internal/dom"
)

// Platform describes one supported job-board site family: how to recognize
// its pages and where each field lives. Locator lists are ordered most
// specific first; the first locator whose element has non-empty text wins.
type Platform struct {
	Name string

	// DomainSuffix matches any host under the platform's domain.
	DomainSuffix string
	// MarkerSelector recognizes embedded boards served from foreign hosts.
	MarkerSelector string

	// RootDomain plus the reserved subdomains drive the company-from-URL
	// fallback: a non-reserved subdomain of RootDomain is the company slug.
	RootDomain         string
	ReservedSubdomains []string
	// SharedHosts are multi-tenant hosts where the company slug is the first
	// URL path segment instead.
	SharedHosts []string

	CompanyLocators    []string
	PositionLocators   []string
	LocationLocators   []string
	DepartmentLocators []string

	// JobIDPattern pulls a numeric job identifier out of the URL path.
	JobIDPattern *regexp.Regexp
}

// Matches reports whether the document belongs to this platform: host under
// the platform domain, or the marker attribute present anywhere in the page.
func (p *Platform) Matches(doc *dom.Document) bool {
	if strings.HasSuffix(doc.Hostname(), p.DomainSuffix) {
		return true
	}
	return p.MarkerSelector != "" && doc.Exists(p.MarkerSelector)
}

// Registry holds the registered platforms. Classification must precede
// extraction; extracting from an unclassified page is a usage error.
type Registry struct {
	platforms []*Platform
}

// NewRegistry creates a registry with every built-in platform registered.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(Greenhouse)
	return r
}

// Register adds a platform. Platforms are consulted in registration order.
func (r *Registry) Register(p *Platform) {
	r.platforms = append(r.platforms, p)
}

// Classify returns the platform a document belongs to, or false when the
// page is not part of any supported site family.
func (r *Registry) Classify(doc *dom.Document) (*Platform, bool) {
	for _, p := range r.platforms {
		if p.Matches(doc) {
			return p, true
		}
	}
	return nil, false
}
