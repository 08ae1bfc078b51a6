package extractor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-clipper-go/internal/dom"
)

var testDate = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	e := New(Greenhouse)
	e.now = func() time.Time { return testDate }
	return e
}

func parsePage(t *testing.T, page, url string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(page, url)
	require.NoError(t, err)
	return doc
}

func TestExtract_HighestPriorityLocatorWins(t *testing.T) {
	// Both a high- and a low-priority position locator match; the
	// high-priority one must win regardless of the other's content.
	page := `<html><body>
		<div class="job-title">Backend   Engineer</div>
		<h1>Completely Different Title</h1>
		<div class="company-name">Acme</div>
	</body></html>`
	doc := parsePage(t, page, "https://acme.greenhouse.io/jobs/1")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", rec.Position)
}

func TestExtract_FallsThroughInPriorityOrder(t *testing.T) {
	// Only the lowest-priority locator (bare h1) matches.
	page := `<html><body>
		<div class="job-title">   </div>
		<h1>Site Reliability Engineer</h1>
	</body></html>`
	doc := parsePage(t, page, "https://acme.greenhouse.io/jobs/1")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "Site Reliability Engineer", rec.Position)
}

func TestExtract_MissingPositionFails(t *testing.T) {
	page := `<html><body><div class="company-name">Acme</div></body></html>`
	doc := parsePage(t, page, "https://acme.greenhouse.io/jobs/1")

	_, err := newTestExtractor().Extract(doc)
	require.Error(t, err)

	var exErr *ExtractionError
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, ReasonMissingRequiredField, exErr.Reason)
}

func TestExtract_Defaults(t *testing.T) {
	page := `<html><body><h1>Engineer</h1><div class="company-name">Acme</div></body></html>`
	doc := parsePage(t, page, "https://acme.greenhouse.io/postings/1")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "Applied", rec.Status)
	assert.Equal(t, testDate, rec.ApplicationDate)
	assert.Equal(t, "https://acme.greenhouse.io/postings/1", rec.URL)
	assert.Nil(t, rec.Metadata)
}

func TestNormalizeLocation_StripsLabelPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" Location:   Remote - US ", "Remote - US"},
		{"Office: Berlin", "Berlin"},
		{"location: Paris", "Paris"},
		{"Remote", "Remote"},
		{"  New   York  ", "New York"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, normalizeLocation(c.in), "input %q", c.in)
	}
}

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "Backend Engineer", normalizeSpace("  Backend \n\t Engineer "))
	assert.Equal(t, "", normalizeSpace("   "))
}

func TestExtract_LocationPrefixStripped(t *testing.T) {
	page := `<html><body>
		<h1>Engineer</h1>
		<div data-th="Office"> Location:   Remote - US </div>
	</body></html>`
	doc := parsePage(t, page, "https://acme.greenhouse.io/jobs/1")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "Remote - US", rec.Location)
}

func TestExtract_GenericLocationClassIgnored(t *testing.T) {
	// A bare .location element is page chrome, not a job field.
	page := `<html><body>
		<h1>Engineer</h1>
		<div class="location">Our offices worldwide</div>
	</body></html>`
	doc := parsePage(t, page, "https://acme.greenhouse.io/jobs/1")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "", rec.Location)
}

func TestCompanyFallback_Subdomain(t *testing.T) {
	page := `<html><body><h1>Engineer</h1></body></html>`
	doc := parsePage(t, page, "https://acme.greenhouse.io/jobs/777")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.Company)
}

func TestCompanyFallback_SharedHostPathSegment(t *testing.T) {
	page := `<html><body><h1>Engineer</h1></body></html>`
	doc := parsePage(t, page, "https://boards.greenhouse.io/acme-corp/jobs/12345")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", rec.Company)
	require.NotNil(t, rec.Metadata)
	assert.Equal(t, "12345", rec.Metadata["jobId"])
}

func TestCompanyFallback_ReservedSubdomains(t *testing.T) {
	for _, host := range []string{"job-boards.greenhouse.io", "www.greenhouse.io"} {
		page := `<html><body><h1>Engineer</h1></body></html>`
		doc := parsePage(t, page, "https://"+host+"/snake_case_co/jobs/9")

		rec, err := newTestExtractor().Extract(doc)
		require.NoError(t, err)
		if host == "www.greenhouse.io" {
			// www is reserved and not a shared host; no URL-derived name.
			assert.Equal(t, "", rec.Company, "host %s", host)
		} else {
			assert.Equal(t, "Snake Case Co", rec.Company, "host %s", host)
		}
	}
}

func TestCompanyFallback_Title(t *testing.T) {
	page := `<html><head><title>Platform Engineer - Initech</title></head>
		<body><h1>Platform Engineer</h1><div data-source="greenhouse"></div></body></html>`
	doc := parsePage(t, page, "https://careers.initech.example/openings/4")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "Initech", rec.Company)
}

func TestCompanyFallback_NoneIsNotFatal(t *testing.T) {
	page := `<html><head><title>Engineer</title></head>
		<body><h1>Engineer</h1><div data-source="greenhouse"></div></body></html>`
	doc := parsePage(t, page, "https://careers.initech.example/openings/4")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "", rec.Company)
}

func TestExtract_DirectCompanyBeatsFallback(t *testing.T) {
	page := `<html><body><h1>Engineer</h1><div class="company-name">Acme GmbH</div></body></html>`
	doc := parsePage(t, page, "https://acme.greenhouse.io/jobs/1")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", rec.Company)
}

func TestExtract_DepartmentMetadata(t *testing.T) {
	page := `<html><body>
		<h1>Engineer</h1>
		<div class="department">Infrastructure</div>
	</body></html>`
	doc := parsePage(t, page, "https://acme.greenhouse.io/careers")

	rec, err := newTestExtractor().Extract(doc)
	require.NoError(t, err)
	require.NotNil(t, rec.Metadata)
	assert.Equal(t, "Infrastructure", rec.Metadata["department"])
	_, hasJobID := rec.Metadata["jobId"]
	assert.False(t, hasJobID)
}

func TestBeautify(t *testing.T) {
	cases := map[string]string{
		"acme":           "Acme",
		"acme-corp":      "Acme Corp",
		"snake_case_co":  "Snake Case Co",
		"double--dashes": "Double Dashes",
	}
	for in, want := range cases {
		assert.Equal(t, want, beautify(in), "input %q", in)
	}
}
