// Package genapi is a thin client for a text-to-pixel-art image endpoint.
//
// The generator exposes images at GET {base}/prompt/{escaped prompt} with
// size, model, and seed query parameters. The client's only jobs are URL
// building and a bounded retry around transient failures; image decoding and
// texture upload stay at the caller.
package genapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultWidth      = 64
	DefaultHeight     = 64
	DefaultModel      = "flux"
	DefaultRetries    = 3
	DefaultRetryDelay = 500 * time.Millisecond
	defaultTimeout    = 30 * time.Second
)

// Config controls URL building and retry behavior.
type Config struct {
	// BaseURL is the generator endpoint root, without a trailing slash.
	BaseURL string
	// Width and Height are the requested image size in pixels.
	Width, Height int
	// Model selects the generation model.
	Model string
	// Seed, when non-zero, pins generation for reproducible sprites.
	Seed int
	// Retries is how many times a transient failure is retried after the
	// first attempt.
	Retries int
	// RetryDelay is the initial backoff; it doubles per retry.
	RetryDelay time.Duration
	// HTTPClient overrides the default client (used by tests).
	HTTPClient *http.Client
}

// Client generates sprite images from text prompts.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client, filling zero Config fields with defaults.
func New(cfg Config) *Client {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	} else if cfg.Retries == 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// ImageURL returns the generation URL for prompt.
func (c *Client) ImageURL(prompt string) string {
	q := url.Values{}
	q.Set("width", strconv.Itoa(c.cfg.Width))
	q.Set("height", strconv.Itoa(c.cfg.Height))
	q.Set("model", c.cfg.Model)
	q.Set("nologo", "true")
	if c.cfg.Seed != 0 {
		q.Set("seed", strconv.Itoa(c.cfg.Seed))
	}
	return c.cfg.BaseURL + "/prompt/" + url.PathEscape(prompt) + "?" + q.Encode()
}

// Generate fetches a generated image for prompt and returns the raw encoded
// bytes. Transient failures (5xx responses, network errors) are retried with
// doubling backoff up to the configured retry count; client errors (4xx) are
// returned immediately. The context cancels both requests and backoff waits.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	imageURL := c.ImageURL(prompt)
	delay := c.cfg.RetryDelay

	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("genapi: generate %q: %w", prompt, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		data, retryable, err := c.fetch(ctx, imageURL)
		if err == nil {
			return data, nil
		}
		if !retryable {
			return nil, fmt.Errorf("genapi: generate %q: %w", prompt, err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("genapi: generate %q: retries exhausted: %w", prompt, lastErr)
}

// fetch performs one request. retryable reports whether the failure is worth
// another attempt.
func (c *Client) fetch(ctx context.Context, imageURL string) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		// Network failures are transient unless the context is done.
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, err
		}
		return data, false, nil
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: %s", resp.Status)
	default:
		return nil, false, fmt.Errorf("request rejected: %s", resp.Status)
	}
}
