// Package remote fetches captured notes from the Pebble sync API.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/starford/pebblesync/internal/apperr"
	"github.com/starford/pebblesync/internal/models"
)

const (
	fetchPath      = "/api/sync/fetch"
	apiKeyHeader   = "X-API-Key"
	defaultTimeout = 30 * time.Second
)

// Fetcher is the transport collaborator the importer depends on.
type Fetcher interface {
	// Fetch returns the batch of importable notes from the service at
	// baseURL, authenticated with apiKey. Items that are not valid notes
	// are dropped before they reach the caller.
	Fetch(ctx context.Context, baseURL, apiKey string) ([]models.RemoteNote, error)
}

// Client fetches note batches over authenticated HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with the default request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// payload is the raw response body of the fetch endpoint.
type payload struct {
	Items []models.RemoteNote `json:"items"`
}

// Fetch performs the authenticated GET and coerces the response into valid
// RemoteNote values. Failures are classified with the apperr sentinels so
// callers can produce user-facing messages: 401/403 → ErrUnauthorized,
// other non-2xx or connection errors → ErrNetwork, undecodable bodies →
// ErrMalformedResponse.
func (c *Client) Fetch(ctx context.Context, baseURL, apiKey string) ([]models.RemoteNote, error) {
	url := strings.TrimRight(baseURL, "/") + fetchPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %w: %v", apperr.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("remote: %w: status %d", apperr.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("remote: %w: status %d", apperr.ErrNetwork, resp.StatusCode)
	}

	var body payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("remote: %w: %v", apperr.ErrMalformedResponse, err)
	}

	notes := make([]models.RemoteNote, 0, len(body.Items))
	for _, item := range body.Items {
		if item.Valid() {
			notes = append(notes, item)
		}
	}
	return notes, nil
}
