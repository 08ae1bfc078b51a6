package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"job-clipper-go/internal/models"
	"job-clipper-go/pkg/httpclient"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

// ErrMissingCredentials is returned before any network I/O when the settings
// store holds no usable API key or database id.
var ErrMissingCredentials = errors.New("missing notion credentials")

// Credentials authorize writes to one Notion database.
type Credentials struct {
	APIKey     string
	DatabaseID string
}

// CredentialSource yields credentials at send time. Implementations read the
// persistent settings store on every call; nothing is cached here.
type CredentialSource interface {
	NotionCredentials() (Credentials, error)
}

// RemoteError is a non-2xx response from the pages API. Body is captured
// verbatim so schema mismatches surface with the remote explanation.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("notion API error %d: %s", e.Status, e.Body)
}

// Client writes confirmed jobs to the Notion pages API. Each CreatePage call
// performs exactly one POST; retries are the caller's responsibility and can
// create duplicate pages, since no idempotency key is sent.
type Client struct {
	http    *httpclient.HttpClient
	creds   CredentialSource
	propMap PropertyMap
	baseURL string
	logger  *zap.Logger
}

// NewClient creates a pages-API client.
func NewClient(hc *httpclient.HttpClient, creds CredentialSource, propMap PropertyMap, logger *zap.Logger) *Client {
	return &Client{
		http:    hc,
		creds:   creds,
		propMap: propMap,
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// SetBaseURL points the client at a different API host.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

type createPageRequest struct {
	Parent     pageParent `json:"parent"`
	Properties Properties `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type createPageResponse struct {
	ID string `json:"id"`
}

// CreatePage persists the job as a new database row and returns the remote
// page id. Credentials are fetched from settings before the request is
// built, so a configuration problem never costs a network round trip.
func (c *Client) CreatePage(ctx context.Context, job models.ConfirmedJob) (string, error) {
	creds, err := c.creds.NotionCredentials()
	if err != nil {
		return "", err
	}

	payload := createPageRequest{
		Parent:     pageParent{DatabaseID: creds.DatabaseID},
		Properties: BuildProperties(job, c.propMap),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode page payload: %w", err)
	}

	headers := map[string]string{
		"Authorization":  "Bearer " + creds.APIKey,
		"Notion-Version": apiVersion,
		"Content-Type":   "application/json",
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/pages", headers, body)
	if err != nil {
		return "", fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("notion rejected page",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)))
		return "", &RemoteError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var page createPageResponse
	if err := json.Unmarshal(respBody, &page); err != nil {
		return "", fmt.Errorf("failed to decode page response: %w", err)
	}

	c.logger.Info("saved job to notion",
		zap.String("pageId", page.ID),
		zap.String("position", job.Position))
	return page.ID, nil
}
