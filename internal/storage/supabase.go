package storage

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	supabase "github.com/nedpals/supabase-go"

	"job-clipper-go/internal/models"
)

// SupabaseStore persists confirmed applications to a Supabase table, as an
// alternative to the Notion backend.
type SupabaseStore struct {
	client *supabase.Client
	table  string
}

// applicationRow is the applications table shape.
type applicationRow struct {
	ID              int               `json:"id,omitempty"`
	Company         string            `json:"company,omitempty"`
	Position        string            `json:"position"`
	Location        string            `json:"location,omitempty"`
	Status          string            `json:"status,omitempty"`
	ApplicationDate string            `json:"application_date,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	SavedAt         time.Time         `json:"saved_at"`
}

// NewSupabaseStore creates a SupabaseStore. It reads SUPABASE_URL and
// SUPABASE_KEY from environment variables if empty values are provided.
func NewSupabaseStore(supabaseURL, supabaseKey string) (*SupabaseStore, error) {
	if supabaseURL == "" {
		supabaseURL = os.Getenv("SUPABASE_URL")
	}
	if supabaseKey == "" {
		supabaseKey = os.Getenv("SUPABASE_KEY")
	}
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("supabase URL and key must be provided via args or SUPABASE_URL / SUPABASE_KEY env vars")
	}

	client := supabase.CreateClient(supabaseURL, supabaseKey)
	return &SupabaseStore{client: client, table: "applications"}, nil
}

func (s *SupabaseStore) SaveJob(ctx context.Context, job models.ConfirmedJob) (string, error) {
	row := applicationRow{
		Company:         job.Company,
		Position:        job.Position,
		Location:        job.Location,
		Status:          job.Status,
		ApplicationDate: job.ApplicationDate,
		Metadata:        job.Metadata,
		SavedAt:         time.Now(),
	}

	var results []applicationRow
	if err := s.client.DB.From(s.table).Insert(row).Execute(&results); err != nil {
		return "", fmt.Errorf("failed to insert application: %w", err)
	}
	if len(results) == 0 {
		return "", nil
	}
	return strconv.Itoa(results[0].ID), nil
}
