package extractor

import "regexp"

// Greenhouse covers hosted boards (acme.greenhouse.io), the shared
// boards.greenhouse.io / job-boards.greenhouse.io hosts, and postings
// embedded on company sites that carry the data-source marker.
var Greenhouse = &Platform{
	Name: "Greenhouse",

	DomainSuffix:   "greenhouse.io",
	MarkerSelector: `[data-source="greenhouse"]`,

	RootDomain:         "greenhouse.io",
	ReservedSubdomains: []string{"boards", "job-boards", "www"},
	SharedHosts:        []string{"boards.greenhouse.io", "job-boards.greenhouse.io"},

	CompanyLocators: []string{
		".company-name",
		`[data-th="Company"]`,
		".header-company-name",
		".application-header .company-name",
	},
	PositionLocators: []string{
		".job-title",
		`[data-th="Job Title"]`,
		".application-header h1",
		".posting-headline h2",
		"h1",
	},
	LocationLocators: []string{
		`[data-th="Office"]`,
		".posting-categories .location",
		".posting-headline .location",
		".application-header .location",
		".job-location",
		// A bare ".location" is deliberately absent: it matches unrelated
		// page chrome (nav widgets, office footers) on several boards.
		`[data-mapped="location"]`,
		`[data-mapped="office"]`,
		".job__location div",
		".app-location",
	},
	DepartmentLocators: []string{
		".department",
		`[data-th="Department"]`,
		".job-department",
	},

	JobIDPattern: regexp.MustCompile(`jobs/(\d+)`),
}
