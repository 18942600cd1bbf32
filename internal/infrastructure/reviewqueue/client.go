// Package reviewqueue implements the review tracker port against an
// Airtable base. Sending a frame back for review means flipping its
// tracker record's Approve checkbox off, which puts it back in front of
// the human reviewers.
package reviewqueue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hackclub/iplace/internal/core/domain"
)

const (
	defaultBaseURL = "https://api.airtable.com"
	defaultTimeout = 15 * time.Second
)

// Client marks tracker records as unapproved. It implements
// ports.ReviewQueue.
type Client struct {
	baseURL    string
	apiKey     string
	baseID     string
	tableID    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default tracker endpoint. For tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

func NewClient(apiKey, baseID, tableID string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		baseID:  baseID,
		tableID: tableID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestReview clears the Approve flag on the frame's tracker record.
// The caller only transitions the frame after this succeeds; a frame must
// never sit unreviewable in the tracker while frozen here.
func (c *Client) RequestReview(ctx context.Context, trackerRecordID string) error {
	if trackerRecordID == "" {
		return fmt.Errorf("%w: frame has no tracker record", domain.ErrUpstream)
	}

	body, err := json.Marshal(map[string]any{
		"fields": map[string]any{
			"Approve": false,
		},
	})
	if err != nil {
		return fmt.Errorf("encode tracker update: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v0/%s/%s/%s", c.baseURL, c.baseID, c.tableID, url.PathEscape(trackerRecordID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build tracker request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: update tracker record %s: %v", domain.ErrUpstream, trackerRecordID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: tracker returned %d for record %s: %s", domain.ErrUpstream, resp.StatusCode, trackerRecordID, detail)
	}
	return nil
}
