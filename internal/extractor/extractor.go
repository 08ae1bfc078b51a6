// Package extractor locates job-application fields inside ad-hoc job-board
// DOM structures using ordered fallback locators, and classifies pages
// against the supported platforms.
package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"job-clipper-go/internal/dom"
	"job-clipper-go/internal/models"
)

// ReasonMissingRequiredField marks an extraction that found no position.
const ReasonMissingRequiredField = "missing-required-field"

// ExtractionError reports why a page could not be scraped.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	locationPrefix = regexp.MustCompile(`(?i)^(Location:\s*|Office:\s*)`)
)

// Extractor scrapes a RawRecord from documents of one platform.
type Extractor struct {
	platform *Platform
	now      func() time.Time
}

// New creates an Extractor for the given platform.
func New(p *Platform) *Extractor {
	return &Extractor{platform: p, now: time.Now}
}

// Extract returns a best-effort RawRecord for the document. It fails with an
// ExtractionError when no locator yields a position; every other field is
// optional. The application date defaults to today's calendar date.
func (e *Extractor) Extract(doc *dom.Document) (models.RawRecord, error) {
	rec := models.RawRecord{
		Status:          models.StatusApplied,
		ApplicationDate: e.now(),
		URL:             doc.URL().String(),
	}

	rec.Company = normalizeSpace(firstMatch(doc, e.platform.CompanyLocators))
	rec.Position = normalizeSpace(firstMatch(doc, e.platform.PositionLocators))
	rec.Location = normalizeLocation(firstMatch(doc, e.platform.LocationLocators))

	if rec.Company == "" {
		rec.Company = e.companyFromURL(doc)
	}
	if rec.Company == "" {
		rec.Company = companyFromTitle(doc)
	}

	// Mandatory-field check runs after normalization and fallbacks.
	if rec.Position == "" {
		return models.RawRecord{}, &ExtractionError{Reason: ReasonMissingRequiredField}
	}

	rec.Metadata = e.extractMetadata(doc)
	return rec, nil
}

// firstMatch evaluates locators in declared order and returns the trimmed
// text of the first locator whose element has non-empty text. Lower-priority
// locators are never consulted once a match is found.
func firstMatch(doc *dom.Document, locators []string) string {
	for _, loc := range locators {
		if text := strings.TrimSpace(doc.QueryText(loc)); text != "" {
			return text
		}
	}
	return ""
}

// normalizeSpace collapses internal whitespace runs and trims the result.
func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}

// normalizeLocation strips a recognized leading label prefix before the
// usual whitespace normalization.
func normalizeLocation(s string) string {
	s = locationPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	return normalizeSpace(s)
}

// companyFromURL derives the company name from the page URL: a non-reserved
// subdomain of the platform's root domain, or the first path segment on a
// shared multi-tenant host.
func (e *Extractor) companyFromURL(doc *dom.Document) string {
	host := doc.Hostname()
	p := e.platform

	if strings.HasSuffix(host, "."+p.RootDomain) {
		sub, _, _ := strings.Cut(host, ".")
		if !contains(p.ReservedSubdomains, sub) {
			return beautify(sub)
		}
	}

	if contains(p.SharedHosts, host) {
		for _, seg := range strings.Split(doc.URL().Path, "/") {
			if seg != "" {
				return beautify(seg)
			}
		}
	}

	return ""
}

// companyFromTitle takes the last " - "-separated segment of the page title,
// the conventional "<position> - <company>" board title shape.
func companyFromTitle(doc *dom.Document) string {
	parts := strings.Split(doc.Title(), " - ")
	if len(parts) > 1 {
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return ""
}

// beautify turns a URL slug into a display name: dash/underscore runs become
// single spaces and each word is title-cased.
func beautify(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// extractMetadata collects secondary, best-effort fields; absence of any of
// them is never an error.
func (e *Extractor) extractMetadata(doc *dom.Document) map[string]string {
	meta := make(map[string]string)

	if m := e.platform.JobIDPattern.FindStringSubmatch(doc.URL().Path); m != nil {
		meta["jobId"] = m[1]
	}

	if dept := normalizeSpace(firstMatch(doc, e.platform.DepartmentLocators)); dept != "" {
		meta["department"] = dept
	}

	if len(meta) == 0 {
		return nil
	}
	return meta
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
