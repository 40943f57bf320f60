// internal/search/client.go
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultEndpoint is the site-restricted Google Custom Search endpoint.
// doc: https://developers.google.com/custom-search/v1/using_rest
const DefaultEndpoint = "https://www.googleapis.com/customsearch/v1/siterestrict"

// ErrNoResults is returned when the search API responds with no items.
var ErrNoResults = errors.New("no search results found")

// Client handles communication with the Google Custom Search API
type Client struct {
	Endpoint   string
	APIKey     string
	EngineID   string
	MaxResults int
	HTTPClient *http.Client
}

// NewClient creates a new search client
func NewClient(endpoint, apiKey, engineID string, maxResults int, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		EngineID:   engineID,
		MaxResults: maxResults,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Result represents a single search result item
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Response represents the parsed search response, in provider order
type Response struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// Links returns the result URLs in provider relevance order
func (r *Response) Links() []string {
	links := make([]string, 0, len(r.Results))
	for _, result := range r.Results {
		links = append(links, result.Link)
	}
	return links
}

// Search performs a page-1 query against the search API
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid search endpoint: %w", err)
	}

	// page 1 is fixed: start = (page-1)*10 + 1
	page := 1
	start := (page-1)*10 + 1

	q := u.Query()
	q.Set("key", c.APIKey)
	q.Set("cx", c.EngineID)
	q.Set("q", query)
	q.Set("start", strconv.Itoa(start))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var searchData struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}

	if err := json.Unmarshal(body, &searchData); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(searchData.Items) == 0 {
		return nil, ErrNoResults
	}

	// Convert to our format and limit results, preserving provider order
	limit := c.MaxResults
	if limit <= 0 || limit > len(searchData.Items) {
		limit = len(searchData.Items)
	}

	results := make([]Result, 0, limit)
	for i := 0; i < limit; i++ {
		item := searchData.Items[i]
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}

	return &Response{
		Query:   query,
		Results: results,
	}, nil
}
