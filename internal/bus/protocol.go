package bus

import "job-clipper-go/internal/models"

// Wire shapes exchanged between contexts. Failures that belong to the
// domain (unsupported page, missing field, remote rejection) travel inside
// these payloads; the bus error path is reserved for transport problems.

// CheckJobPageResponse answers ActionCheckJobPage.
type CheckJobPageResponse struct {
	IsJobPage bool   `json:"isJobPage"`
	Platform  string `json:"platform"`
}

// ScrapeJobResponse answers ActionScrapeJob.
type ScrapeJobResponse struct {
	Success bool              `json:"success"`
	Data    *models.RawRecord `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// SaveJobRequest carries the confirmed job to the background context.
type SaveJobRequest struct {
	Job models.ConfirmedJob `json:"job"`
}

// SaveJobResponse answers ActionSaveJob.
type SaveJobResponse struct {
	OK     bool   `json:"ok"`
	PageID string `json:"pageId,omitempty"`
	Error  string `json:"error,omitempty"`
}
