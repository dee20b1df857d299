package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Response carries the bytes of a fetched document plus the metadata the
// health monitor wants.
type Response struct {
	Body       []byte
	StatusCode int
	Elapsed    time.Duration
}

// Client is an HTTP fetcher with a fixed pre-request delay, a request
// timeout, and linear-backoff retries. Retries cover timeouts, network
// errors and non-2xx responses alike.
type Client struct {
	http         *http.Client
	userAgent    string
	requestDelay time.Duration
	retryDelay   time.Duration
}

// Options configures a Client. Zero values fall back to sane defaults.
type Options struct {
	Timeout      time.Duration
	RequestDelay time.Duration
	RetryDelay   time.Duration
	UserAgent    string
}

// NewClient builds a fetch client.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 2 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "gmscraper/1.0"
	}
	return &Client{
		http:         &http.Client{Timeout: opts.Timeout},
		userAgent:    opts.UserAgent,
		requestDelay: opts.RequestDelay,
		retryDelay:   opts.RetryDelay,
	}
}

// RetryDelay exposes the base backoff so callers retrying whole-source work
// can pace themselves the same way.
func (c *Client) RetryDelay() time.Duration {
	return c.retryDelay
}

// Get fetches one document. The configured inter-request delay is applied
// before the request goes out.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if c.requestDelay > 0 {
		if err := sleep(ctx, c.requestDelay); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return &Response{StatusCode: resp.StatusCode, Elapsed: elapsed},
			fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{Body: body, StatusCode: resp.StatusCode, Elapsed: elapsed}, nil
}

// GetWithRetry fetches a document with up to maxAttempts tries, waiting
// attempt * retryDelay between failures. The last error is returned once
// the budget is exhausted.
func (c *Client) GetWithRetry(ctx context.Context, url string, maxAttempts int) (*Response, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.Get(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		log.Printf("Warning: attempt %d/%d failed for %s: %v", attempt, maxAttempts, url, err)

		if attempt < maxAttempts {
			if serr := sleep(ctx, time.Duration(attempt)*c.retryDelay); serr != nil {
				return nil, serr
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
