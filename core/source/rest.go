package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Client is the shared rate-limited HTTP core used by all endpoint adapters.
// It is immutable after construction.
type Client struct {
	baseURL       string
	token         string
	http          *http.Client
	fallbackDelay time.Duration
	pageSize      int
	logger        *zap.Logger
}

// New creates a new source API client based on the configuration.
func New(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	fallback := cfg.RetryAfterFallbackSeconds
	if fallback <= 0 {
		fallback = 30
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		token:         cfg.Token,
		http:          &http.Client{Timeout: time.Duration(timeout) * time.Second},
		fallbackDelay: time.Duration(fallback) * time.Second,
		pageSize:      pageSize,
		logger:        logger,
	}
}

// getJSON performs a GET request and decodes the JSON envelope.
// A 429 answer is retried exactly once after the server-provided reset time
// (or the configured fallback). Network errors and 5xx answers share that
// single retry; other statuses fail immediately.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) (map[string]any, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	operation := func() (map[string]any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			// Transient network failure, eligible for the single retry.
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			// "No data" is a valid answer, not a transport error. Callers
			// see a nil body.
			return nil, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			delay := c.resetDelay(resp)
			c.logger.Warn("Source API rate limited, backing off",
				zap.String("path", path),
				zap.Duration("retry_in", delay),
			)
			return nil, backoff.RetryAfter(int(delay / time.Second))
		case resp.StatusCode >= http.StatusInternalServerError:
			return nil, fmt.Errorf("source API server error: %s", resp.Status)
		case resp.StatusCode != http.StatusOK:
			return nil, backoff.Permanent(fmt.Errorf("source API returned %s for %s", resp.Status, path))
		}

		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode source API response: %w", err))
		}
		return body, nil
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(time.Second)),
		backoff.WithMaxTries(2),
	)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return body, nil
}

// resetDelay extracts the rate-limit reset delay from the response headers.
// Retry-After (delta seconds) wins, then X-RateLimit-Reset (unix epoch),
// then the configured fallback.
func (c *Client) resetDelay(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			if delta := time.Until(time.Unix(epoch, 0)); delta > 0 {
				return delta
			}
		}
	}
	return c.fallbackDelay
}

// listQuery builds the common query values for list requests.
func (c *Client) listQuery(q SearchQuery) url.Values {
	values := url.Values{}
	if q.Query != "" {
		values.Set("q", q.Query)
	}
	if q.UpdatedSince != nil {
		values.Set("updated_since", q.UpdatedSince.UTC().Format(time.RFC3339))
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = c.pageSize
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(perPage))
	return values
}

// PageSize returns the configured default page size.
func (c *Client) PageSize() int {
	return c.pageSize
}
