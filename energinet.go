// Package energinet is a client for the public Energinet dataset API at
// https://api.energidataservice.dk, the Danish TSO's energy-data service.
package energinet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public dataset endpoint. No authentication needed.
const DefaultBaseURL = "https://api.energidataservice.dk/dataset"

// ResponseCache stores raw response bodies keyed by request URL. A stale
// or missing entry is reported as a miss.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, body []byte) error
}

// Client fetches datasets from the Energinet API. It keeps no state
// between calls beyond the optional response cache.
type Client struct {
	baseURL string
	http    *http.Client
	cache   ResponseCache
	logger  *slog.Logger
}

func New() *Client {
	return NewWithBaseURL(DefaultBaseURL)
}

func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default().With(slog.String("module", "energinet")),
	}
}

// SetCache enables response caching, nil disables it.
func (c *Client) SetCache(cache ResponseCache) {
	c.cache = cache
}

func (c *Client) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

func (c *Client) SetTimeout(d time.Duration) {
	c.http.Timeout = d
}

// Fetch runs a dataset query and returns the matching records as a table.
// UTC time columns are parsed, their local-time twins and the filtered
// columns are dropped, and rows are sorted and truncated to [start, end].
func (c *Client) Fetch(ctx context.Context, q Query) (*Table, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	url := c.baseURL + "/" + q.Dataset + "?" + q.params().Encode()

	body, cached := c.cachedBody(ctx, url)
	if !cached {
		var err error
		body, err = c.get(ctx, url)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			if err := c.cache.Put(ctx, url, body); err != nil {
				c.logger.Warn("failed to cache response", slog.Any("error", err))
			}
		}
	}

	table, err := parseTable(body)
	if err != nil {
		return nil, err
	}

	table.dropLocalTimeColumns()
	table.dropColumns(q.filterKeys())
	table.sortByTime()
	table.truncate(q.Start, q.End)

	if len(q.Columns) > 0 {
		return table.Select(q.Columns...)
	}

	return table, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("fetching dataset", slog.String("url", url))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    apiMessage(body),
		}
	}

	return body, nil
}

func (c *Client) cachedBody(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok := c.cache.Get(ctx, key)
	if ok {
		c.logger.Debug("using cached response", slog.String("url", key))
	}
	return body, ok
}

// apiMessage pulls the error description out of a failure body, if any.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
