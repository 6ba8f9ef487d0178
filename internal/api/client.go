// Package api is the REST client used for initial snapshots. Live
// updates arrive over the socket; this client is only consulted on
// open, manual refetch, and the list poll fallback.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"matchcenter/pkg/models"
)

// Client handles HTTP API communication
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type matchListData struct {
	Matches []models.Match `json:"matches"`
}

// FetchMatches returns all match summaries
func (c *Client) FetchMatches(ctx context.Context) ([]models.Match, error) {
	var data matchListData
	if err := c.get(ctx, "/matches", &data); err != nil {
		return nil, err
	}
	return data.Matches, nil
}

// FetchLiveMatches returns only in-play matches
func (c *Client) FetchLiveMatches(ctx context.Context) ([]models.Match, error) {
	var data matchListData
	if err := c.get(ctx, "/matches/live", &data); err != nil {
		return nil, err
	}
	return data.Matches, nil
}

// FetchMatchDetail returns the full detail snapshot for one match.
// A 404 maps to models.ErrMatchNotFound, which callers treat as
// terminal; any other failure is recoverable by an explicit refetch.
func (c *Client) FetchMatchDetail(ctx context.Context, id string) (*models.MatchDetail, error) {
	var detail models.MatchDetail
	if err := c.get(ctx, "/matches/"+id, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Health reports whether the API is reachable
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// get performs a GET request and decodes the APIResponse envelope
// into target.
func (c *Client) get(ctx context.Context, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.ErrMatchNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = envelope.Error
		}
		if msg == "" {
			msg = "request rejected"
		}
		return fmt.Errorf("API error: %s", msg)
	}
	if target != nil {
		if err := json.Unmarshal(envelope.Data, target); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
