// Package feed retrieves the remote mod catalogue, normalizes its records into
// domain entities, and falls back to the last stored snapshot when the network
// is down.
package feed

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/gamemods/modhub/internal/domain"
)

// rawMod mirrors the feed's wire shape before normalization.
type rawMod struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Game        string          `json:"game"`
	NameMod     string          `json:"nameMod"`
	Description string          `json:"description"`
	Author      string          `json:"author"`
	LastUpdated string          `json:"lastUpdated"`
	Rating      *float64        `json:"rating"`
	FileSize    string          `json:"fileSize"`
	Versions    domain.Variants `json:"versions"`
	ModImage1   string          `json:"modImage1"`
	ModImage2   string          `json:"modImage2"`
}

// ClientOptions tune the HTTP behavior of the feed client.
type ClientOptions struct {
	Timeout    time.Duration
	RetryCount int
}

// Client fetches the raw mod list over HTTP.
type Client struct {
	url  string
	http *resty.Client
}

// NewClient builds a feed client for the given URL.
func NewClient(url string, opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "modhub/1.0")

	return &Client{url: url, http: httpClient}
}

// URL returns the configured feed endpoint.
func (c *Client) URL() string { return c.url }

// fetch retrieves and decodes the feed. Cancellation surfaces as the context's
// error so callers can tell a superseded request from a real failure.
func (c *Client) fetch(ctx context.Context) ([]rawMod, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.FetchError{URL: c.url, Err: err}
	}

	if resp.IsError() {
		return nil, &domain.FetchError{URL: c.url, Status: resp.StatusCode()}
	}

	body := resp.String()
	if !strings.HasPrefix(strings.TrimSpace(body), "[") {
		return nil, &domain.FormatError{Reason: "payload is not a JSON array"}
	}

	var raw []rawMod
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, &domain.FormatError{Reason: "decoding mod list", Err: err}
	}
	return raw, nil
}
