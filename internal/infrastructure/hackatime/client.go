// Package hackatime implements the work-entry source against the
// Hackatime time tracker API.
package hackatime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hackclub/iplace/internal/api/metrics"
	"github.com/hackclub/iplace/internal/core/domain"
)

const (
	defaultBaseURL = "https://hackatime.hackclub.com"
	defaultTimeout = 15 * time.Second
	userAgent      = "iplace/1.0.0"
)

// Client fetches per-project activity summaries for an identity. It
// implements ports.WorkSource.
type Client struct {
	baseURL    string
	adminKey   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default tracker instance.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. For tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(adminKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		adminKey: adminKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type projectsResponse struct {
	Projects []project `json:"projects"`
}

type project struct {
	Name            string    `json:"name"`
	TotalSeconds    int64     `json:"total_seconds"`
	TotalHeartbeats int       `json:"total_heartbeats"`
	FirstHeartbeat  time.Time `json:"first_heartbeat"`
	LastHeartbeat   time.Time `json:"last_heartbeat"`
}

// FetchWorkEntries returns the tracker's per-project summaries for the
// given identity. Failures wrap domain.ErrUpstream so callers can map
// them to a gateway error without knowing this package.
func (c *Client) FetchWorkEntries(ctx context.Context, slackID string) ([]domain.WorkEntry, error) {
	start := time.Now()
	entries, err := c.fetch(ctx, slackID)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.WorkFetchDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return entries, err
}

func (c *Client) fetch(ctx context.Context, slackID string) ([]domain.WorkEntry, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s/projects/details", c.baseURL, url.PathEscape(slackID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tracker request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.adminKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch work entries for %s: %v", domain.ErrUpstream, slackID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: tracker returned %d for %s: %s", domain.ErrUpstream, resp.StatusCode, slackID, body)
	}

	var payload projectsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode tracker response for %s: %v", domain.ErrUpstream, slackID, err)
	}

	entries := make([]domain.WorkEntry, 0, len(payload.Projects))
	for _, p := range payload.Projects {
		entries = append(entries, domain.WorkEntry{
			Name:          p.Name,
			TotalSeconds:  p.TotalSeconds,
			Heartbeats:    p.TotalHeartbeats,
			FirstActivity: p.FirstHeartbeat,
			LastActivity:  p.LastHeartbeat,
		})
	}
	return entries, nil
}
