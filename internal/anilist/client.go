package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hisame/anireleases/internal/media"
)

const (
	// DefaultEndpoint is the public AniList GraphQL endpoint.
	DefaultEndpoint = "https://graphql.anilist.co"

	defaultTimeout   = 25 * time.Second
	defaultPerPage   = 40
	defaultUserAgent = "anireleases/1.0"

	// maxErrorBody caps how much of an upstream error body ends up in the
	// error message shown to the user.
	maxErrorBody = 2000
)

// releaseQuery asks for one page of media whose start date falls inside a
// fuzzy-date window, newest first.
const releaseQuery = `
query ($type: MediaType, $startGreater: FuzzyDateInt, $startLesser: FuzzyDateInt, $perPage: Int) {
  Page(page: 1, perPage: $perPage) {
    media(type: $type, startDate_greater: $startGreater, startDate_lesser: $startLesser, sort: START_DATE_DESC) {
      id
      type
      format
      status
      title { romaji english native }
      startDate { year month day }
      countryOfOrigin
      description(asHtml: false)
      siteUrl
      coverImage { large medium color }
    }
  }
}`

// Client is an AniList GraphQL API client.
type Client struct {
	endpoint   string
	userAgent  string
	perPage    int
	httpClient *http.Client
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Endpoint  string
	Timeout   time.Duration
	PerPage   int
	UserAgent string
}

// NewClient creates a new AniList client.
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Client{
		endpoint:  opts.Endpoint,
		userAgent: opts.UserAgent,
		perPage:   opts.PerPage,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// FuzzyDateInt encodes a date as the YYYYMMDD integer AniList expects.
func FuzzyDateInt(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// FetchNew returns media of the given type whose start date falls between
// from and to (inclusive bounds, fuzzy-date encoded). One page only.
func (c *Client) FetchNew(ctx context.Context, mediaType media.Type, from, to time.Time) ([]media.Item, error) {
	payload := gqlRequest{
		Query: releaseQuery,
		Variables: map[string]any{
			"type":         string(mediaType),
			"startGreater": FuzzyDateInt(from),
			"startLesser":  FuzzyDateInt(to),
			"perPage":      c.perPage,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("anilist: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Errors) > 0 {
		msgs := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("anilist: GraphQL error: %s", strings.Join(msgs, "; "))
	}

	items := make([]media.Item, 0, len(result.Data.Page.Media))
	for _, m := range result.Data.Page.Media {
		items = append(items, m.toItem(mediaType))
	}
	return items, nil
}
