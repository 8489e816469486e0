// Package censusapi implements the HTTP transport to the Census Bureau data API.
package censusapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// ErrMissingAPIKey is returned when no Census API key is configured.
var ErrMissingAPIKey = errors.New("census API key is not configured (set CENSUS_API_KEY)")

// Client fetches ACS data over HTTP. It performs no retries: per-year failures
// are the aggregation layer's concern.
type Client struct {
	baseURL string
	dataset string
	apiKey  string
	httpc   *http.Client
}

var _ contract.Transport = &Client{} // Compile-time check

// NewClient builds a transport from the validated config.
func NewClient(cfg *contract.Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = contract.DefaultHTTPTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		dataset: cfg.Dataset,
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP builds a transport with a caller-supplied HTTP client.
// Used by tests to point at an httptest server.
func NewClientWithHTTP(baseURL, dataset, apiKey string, httpc *http.Client) *Client {
	return &Client{baseURL: baseURL, dataset: dataset, apiKey: apiKey, httpc: httpc}
}

// Fetch implements contract.Transport. It requests one year of data for the
// given variable codes and geography clauses, and converts the positional
// response (header row + value rows) into flat row maps.
func (c *Client) Fetch(ctx context.Context, year int, codes []string, forClause string, inClauses map[string]string) ([]schema.Row, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(codes) == 0 {
		return nil, errors.New("no variable codes specified")
	}

	reqURL, err := c.buildURL(year, codes, forClause, inClauses)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("census API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading census API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("census API returned HTTP %d: %s", resp.StatusCode, truncateBody(body))
	}

	return parseRows(body)
}

// buildURL assembles the get/for/in/key query. Parent constraints are emitted
// parent-to-child (state before county) as repeated in= parameters.
func (c *Client) buildURL(year int, codes []string, forClause string, inClauses map[string]string) (string, error) {
	base, err := url.Parse(fmt.Sprintf("%s/%d/%s", c.baseURL, year, c.dataset))
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("get", joinCodes(codes))
	q.Set("for", forClause)
	for _, name := range orderedParents(inClauses) {
		q.Add("in", name+":"+inClauses[name])
	}
	q.Set("key", c.apiKey)
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// parseRows converts the Census list-of-lists payload into row maps using the
// header row as keys. Fewer than two rows means no data.
func parseRows(body []byte) ([]schema.Row, error) {
	var table [][]string
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("unexpected census API response format: %w", err)
	}
	if len(table) < 2 {
		return nil, nil
	}

	header := table[0]
	rows := make([]schema.Row, 0, len(table)-1)
	for _, values := range table[1:] {
		row := make(schema.Row, len(header))
		for i, key := range header {
			if i < len(values) {
				row[key] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// orderedParents returns parent clause names with state first, then the rest
// alphabetically. The Census API expects ancestors before descendants.
func orderedParents(inClauses map[string]string) []string {
	names := make([]string, 0, len(inClauses))
	for name := range inClauses {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == "state" {
			return true
		}
		if names[j] == "state" {
			return false
		}
		return names[i] < names[j]
	})
	return names
}

func joinCodes(codes []string) string {
	out := ""
	for i, code := range codes {
		if i > 0 {
			out += ","
		}
		out += code
	}
	return out
}

// truncateBody keeps error messages readable for large error pages.
func truncateBody(body []byte) string {
	const maxLen = 200
	s := string(body)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

// Ping verifies the API is reachable with the configured key by requesting a
// single national record for the most recent default year.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := c.Fetch(ctx, contract.DefaultYear, []string{"B01003_001E", schema.NameField}, "us:1", nil)
	return err
}
