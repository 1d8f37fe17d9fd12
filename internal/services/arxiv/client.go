package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "http://export.arxiv.org/api/query"
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxResults  = 5
	userAgent          = "papercast/0.1"
)

// Paper is one candidate from the query feed.
type Paper struct {
	ArxivID   string
	Title     string
	Summary   string
	Authors   []string
	Category  string
	AbsURL    string
	PDFURL    string
	Published time.Time
	Updated   time.Time
}

// Config captures the runtime settings for the query API.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Client fetches and decodes Atom feeds from the arXiv query endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a query client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Search runs the query and returns up to maxResults candidates sorted by
// last update, newest first. Entries without a usable identifier are
// dropped rather than failing the whole feed.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("arxiv search: query required")
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("arxiv search: parse base url: %w", err)
	}
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "lastUpdatedDate")
	params.Set("sortOrder", "descending")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("arxiv search: new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv search: http error after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("arxiv search: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed feed
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("arxiv search: decode feed: %w", err)
	}

	papers := make([]Paper, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		if paper, ok := entryToPaper(e); ok {
			papers = append(papers, paper)
		}
	}
	return papers, nil
}

// HealthCheck runs a one-result query to verify the endpoint is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, defaultHTTPTimeout)
	defer cancel()
	_, err := c.Search(checkCtx, "all:electron", 1)
	return err
}
