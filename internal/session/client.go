package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/schema"
)

const trackEventPath = "/api/v1/analytics/track/event"

// Client dispatches events to the ingestion API. Each call makes exactly one
// attempt; retries are the caller's policy, and the runner deliberately has
// none.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an ingestion client with a bounded per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TrackEvent posts one event. A 200 or 202 response is success; any other
// outcome (including transport errors) is returned as an error carrying the
// response text.
func (c *Client) TrackEvent(ctx context.Context, event *schema.TrackEventRequest) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+trackEventPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		return nil
	}

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("ingestion rejected event: status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
}
