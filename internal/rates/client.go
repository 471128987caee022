package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fxping/ratehub/internal/domain"
)

// Client fetches rate snapshots over HTTP. With maxRetries > 0 it backs off on 429.
type Client struct {
	url        string
	endpoint   string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	now        func() time.Time
}

// redactURL reduces raw to scheme and host. Upstream URLs carry the API key in their path.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "rates endpoint"
	}
	return u.Scheme + "://" + u.Host
}

// NewClient creates a rates client for a single endpoint URL.
func NewClient(rawURL string, timeout time.Duration, maxRetries int, baseDelay time.Duration) *Client {
	return &Client{
		url:        rawURL,
		endpoint:   redactURL(rawURL),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		now:        time.Now,
	}
}

// FetchSnapshot downloads and validates one snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*domain.RateSnapshot, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := ParsePayload(body, c.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", c.endpoint, err)
	}
	return snap, nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries + 1 {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			var urlErr *url.Error
			if errors.As(err, &urlErr) {
				urlErr.URL = c.endpoint
			}
			return nil, fmt.Errorf("executing request: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("HTTP 429 from %s (attempt %d/%d)", c.endpoint, attempt+1, c.maxRetries+1)
			if attempt < c.maxRetries {
				delay := c.baseDelay * time.Duration(1<<uint(attempt))
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(delay):
				}
				continue
			}
			return nil, lastErr
		}

		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, c.endpoint, string(body))
	}

	return nil, lastErr
}
