package storage

import (
	"context"

	"job-clipper-go/internal/models"
	"job-clipper-go/internal/notion"
)

// NotionStore persists confirmed jobs as rows of a Notion database.
type NotionStore struct {
	client *notion.Client
}

// NewNotionStore wraps a pages-API client as a Store.
func NewNotionStore(client *notion.Client) *NotionStore {
	return &NotionStore{client: client}
}

func (s *NotionStore) SaveJob(ctx context.Context, job models.ConfirmedJob) (string, error) {
	return s.client.CreatePage(ctx, job)
}
