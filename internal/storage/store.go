package storage

import (
	"context"

	"job-clipper-go/internal/models"
)

// Store persists one confirmed job per call and returns the remote record
// id. Implementations perform no retries; a failed save surfaces to the
// caller, who decides whether to retry at the risk of duplicate records.
type Store interface {
	SaveJob(ctx context.Context, job models.ConfirmedJob) (string, error)
}
