// Package search fetches candidate links from a third-party search API and
// caps them to a bounded set of distinct sites worth enriching.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/thinksmartgroup/Search-AI/internal/normalize"
)

const (
	resultsPerPage = 10
	maxPage        = 10 // never scrape past page 10 of results
	defaultTimeout = 15 * time.Second

	// DefaultMaxCandidates caps distinct sites per query before enrichment
	// is attempted, bounding downstream cost.
	DefaultMaxCandidates = 3
)

// Link is one search result candidate.
type Link struct {
	URL        string `json:"url"`
	SourcePage int    `json:"sourcePage"`
}

// Config holds the configuration for creating a Client.
type Config struct {
	// BaseURL is the search API endpoint (SerpAPI-shaped).
	BaseURL string

	// APIKey is passed as the api_key query parameter.
	APIKey string

	// TimeoutSeconds bounds each page fetch. Default 15.
	TimeoutSeconds int
}

// Client queries the search API. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	cfg        Config
}

// searchResponse is the subset of the API response the engine reads.
type searchResponse struct {
	OrganicResults []struct {
		Link string `json:"link"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// NewClient creates a Client.
func NewClient(logger *zap.Logger, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("search base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid search base URL: %w", err)
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("search"),
		cfg:        cfg,
	}, nil
}

// FetchLinks collects organic result links for query, scraping pages
// [fromPage, fromPage+pages), zero-based, capped at page 10. A transport
// failure on one page is logged and the remaining pages are still tried; an
// API-level error in a response body stops the run to avoid wasting quota.
func (c *Client) FetchLinks(ctx context.Context, query string, fromPage, pages int) ([]Link, error) {
	if fromPage < 0 {
		fromPage = 0
	}
	endPage := fromPage + pages
	if endPage > maxPage {
		endPage = maxPage
	}

	var links []Link
	for page := fromPage; page < endPage; page++ {
		resp, err := c.fetchPage(ctx, query, page)
		if err != nil {
			if ctx.Err() != nil {
				return links, ctx.Err()
			}
			c.logger.Warn("Search page fetch failed",
				zap.Int("page", page+1),
				zap.Error(err))
			continue
		}
		if resp.Error != "" {
			c.logger.Warn("Search API reported an error, stopping run",
				zap.Int("page", page+1),
				zap.String("error", resp.Error))
			break
		}
		for _, result := range resp.OrganicResults {
			if result.Link == "" {
				continue
			}
			links = append(links, Link{URL: result.Link, SourcePage: page + 1})
		}
		c.logger.Debug("Scraped search page",
			zap.Int("page", page+1),
			zap.Int("results", len(resp.OrganicResults)))
	}
	return links, nil
}

func (c *Client) fetchPage(ctx context.Context, query string, page int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("start", strconv.Itoa(page*resultsPerPage))
	params.Set("num", strconv.Itoa(resultsPerPage))
	params.Set("engine", "google")
	params.Set("hl", "en")
	params.Set("gl", "us")
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &parsed, nil
}

// CapLinks dedupes links by normalized URL and truncates to at most limit
// distinct candidates, preserving result order. A non-positive limit applies
// DefaultMaxCandidates.
func CapLinks(links []Link, limit int) []Link {
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	return normalize.CapResults(links, func(l Link) string {
		return normalize.URL(l.URL)
	}, limit)
}
