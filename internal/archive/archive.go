// Package archive submits URLs to the Internet Archive Save Page Now API
// and polls job status until an archive URL is available.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/askmetwice/amt/internal/logger"
)

const defaultBaseURL = "https://web.archive.org"

// ErrArchivePending is returned when the job did not reach success within
// the polling budget. The page may still archive later; the status URL is
// logged for manual follow-up.
var ErrArchivePending = errors.New("archive job still pending after max tries")

// Client talks to the Save Page Now API.
type Client struct {
	http        *resty.Client
	tryInterval time.Duration
	maxTries    int
	log         *logger.Logger
}

// Option adjusts client behavior.
type Option func(*Client)

// WithPolling overrides the status poll interval and try budget. The SPN
// backend can take up to three minutes, so interval*tries should cover that.
func WithPolling(interval time.Duration, maxTries int) Option {
	return func(c *Client) {
		c.tryInterval = interval
		c.maxTries = maxTries
	}
}

// WithBaseURL points the client at a different endpoint. Tests only.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(url)
	}
}

// NewClient builds a Save Page Now client using the S3-like API keys from
// https://archive.org/account/s3.php.
func NewClient(accessKey, secretKey string, opts ...Option) *Client {
	http := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", fmt.Sprintf("LOW %s:%s", accessKey, secretKey)).
		SetTimeout(30 * time.Second)

	c := &Client{
		http:        http,
		tryInterval: 5 * time.Second,
		maxTries:    40,
		log:         logger.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type saveResponse struct {
	JobID string `json:"job_id"`
}

type statusResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	OriginalURL string `json:"original_url"`
}

// SavePage archives a URL and returns its permanent archive.org URL. It
// submits the save request, then polls job status at the configured
// interval until success or the try budget runs out.
func (c *Client) SavePage(ctx context.Context, url string) (string, error) {
	c.log.Info("archiving URL: %s", url)

	jobID, err := c.submit(ctx, url)
	if err != nil {
		return "", err
	}
	return c.pollStatus(ctx, jobID)
}

func (c *Client) submit(ctx context.Context, url string) (string, error) {
	var save saveResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"url": url}).
		SetResult(&save).
		Post("/save")
	if err != nil {
		return "", fmt.Errorf("spn save request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("spn save request: status %d: %s", resp.StatusCode(), resp.String())
	}
	if save.JobID == "" {
		return "", fmt.Errorf("spn save request: response has no job_id")
	}
	return save.JobID, nil
}

func (c *Client) pollStatus(ctx context.Context, jobID string) (string, error) {
	statusPath := fmt.Sprintf("/save/status/%s", jobID)

	for attempt := 0; attempt < c.maxTries; attempt++ {
		var status statusResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&status).
			Get(statusPath)
		if err != nil {
			return "", fmt.Errorf("spn status check: %w", err)
		}
		if resp.IsError() {
			return "", fmt.Errorf("spn status check: status %d: %s", resp.StatusCode(), resp.String())
		}

		if status.Status == "success" {
			archiveURL := fmt.Sprintf("%s/web/%s/%s", defaultBaseURL, status.Timestamp, status.OriginalURL)
			c.log.Info("successful archive at %s", archiveURL)
			return archiveURL, nil
		}

		select {
		case <-time.After(c.tryInterval):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	c.log.Warning("spn exceeded maximum tries, see status at %s%s", c.http.BaseURL, statusPath)
	return "", ErrArchivePending
}
