package models

import "time"

// RawRecord is the extractor's best-effort output for a single job posting.
// Position is always non-empty in a successfully returned record; a missing
// position is an extraction failure, never an empty-string record.
type RawRecord struct {
	Company         string            `json:"company,omitempty"`
	Position        string            `json:"position"`
	Location        string            `json:"location,omitempty"`
	Status          string            `json:"status"`
	ApplicationDate time.Time         `json:"applicationDate"`
	URL             string            `json:"url"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// ConfirmedJob is the user-approved shape handed to persistence. Fields the
// user cleared are empty and produce no remote property.
type ConfirmedJob struct {
	Company         string            `json:"company,omitempty"`
	Position        string            `json:"position"`
	Location        string            `json:"location,omitempty"`
	Status          string            `json:"status,omitempty"`
	ApplicationDate string            `json:"applicationDate,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Status constants for tracked applications.
const (
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusOffer     = "Offer"
	StatusRejected  = "Rejected"
)

// Confirm converts a RawRecord into a ConfirmedJob without edits. The
// application date is carried forward as a calendar-date string.
func Confirm(r RawRecord) ConfirmedJob {
	job := ConfirmedJob{
		Company:  r.Company,
		Position: r.Position,
		Location: r.Location,
		Status:   r.Status,
		Metadata: r.Metadata,
	}
	if !r.ApplicationDate.IsZero() {
		job.ApplicationDate = r.ApplicationDate.Format("2006-01-02")
	}
	return job
}
