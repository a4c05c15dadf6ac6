package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tomvoss/kickpool/internal/domain/model"
	"github.com/tomvoss/kickpool/pkg/metrics"
)

// Default client configuration constants.
const (
	DefaultBaseURL = "https://api.football-data.org/v4"

	defaultTimeout      = 15 * time.Second
	defaultMaxIdleConns = 10
	defaultIdleTimeout  = 30 * time.Second
	defaultTLSTimeout   = 10 * time.Second
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the upstream base URL, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// Client fetches match records from the football-data.org v4 API.
type Client struct {
	baseURL     string
	competition string
	token       string
	http        *http.Client
}

// NewClient creates a feed client for one competition. The token is sent as
// the X-Auth-Token header on every request.
func NewClient(competition, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		competition: competition,
		token:       token,
		http: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				IdleConnTimeout:     defaultIdleTimeout,
				TLSHandshakeTimeout: defaultTLSTimeout,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Wire types mirror the feed's JSON shape for one round of matches.
type matchesResponse struct {
	Matches []wireMatch `json:"matches"`
}

type wireMatch struct {
	ID       int64      `json:"id"`
	UTCDate  time.Time  `json:"utcDate"`
	Status   string     `json:"status"`
	Matchday int        `json:"matchday"`
	HomeTeam wireTeam   `json:"homeTeam"`
	AwayTeam wireTeam   `json:"awayTeam"`
	Score    *wireScore `json:"score"`
}

type wireTeam struct {
	Name string `json:"name"`
}

type wireScore struct {
	FullTime *wireFullTime `json:"fullTime"`
}

type wireFullTime struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Matches fetches all matches of the given round. Any transport failure or
// non-2xx response surfaces as ErrUnavailable; the round's state is left
// untouched in that case.
func (c *Client) Matches(ctx context.Context, round int) ([]Record, error) {
	const op = "feed.matches"

	url := fmt.Sprintf("%s/competitions/%s/matches?matchday=%d", c.baseURL, c.competition, round)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, WrapKind(op, ErrUnavailable, err)
	}
	req.Header.Set("X-Auth-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFeedRequest("error")
		return nil, WrapKind(op, ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	metrics.RecordFeedRequest(resp.Status)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s: %w: upstream returned %s", op, ErrUnavailable, resp.Status)
	}

	var body matchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, WrapKind(op, ErrUnavailable, err)
	}

	records := make([]Record, 0, len(body.Matches))
	for _, m := range body.Matches {
		rec := Record{
			ExternalID: m.ID,
			KickoffAt:  m.UTCDate.UTC(),
			Status:     m.Status,
			HomeTeam:   m.HomeTeam.Name,
			AwayTeam:   m.AwayTeam.Name,
		}
		if rec.Status == "" {
			rec.Status = model.StatusScheduled
		}
		// A full-time block with both goals set is the only score source;
		// anything less stays unknown.
		if m.Score != nil && m.Score.FullTime != nil {
			rec.HomeScore = m.Score.FullTime.Home
			rec.AwayScore = m.Score.FullTime.Away
		}
		records = append(records, rec)
	}
	return records, nil
}
