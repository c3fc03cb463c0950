package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSearchClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(zap.NewNop(), Config{BaseURL: baseURL, APIKey: "search-key"})
	require.NoError(t, err)
	return c
}

func TestFetchLinksPagination(t *testing.T) {
	var starts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		starts = append(starts, q.Get("start"))
		assert.Equal(t, "vendors for chiropractors", q.Get("q"))
		assert.Equal(t, "search-key", q.Get("api_key"))
		assert.Equal(t, "google", q.Get("engine"))
		fmt.Fprintf(w, `{"organic_results":[{"link":"http://site-%s.com"},{"link":""}]}`, q.Get("start"))
	}))
	defer srv.Close()

	c := newTestSearchClient(t, srv.URL)
	links, err := c.FetchLinks(context.Background(), "vendors for chiropractors", 0, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "10", "20"}, starts)
	require.Len(t, links, 3, "empty links are skipped")
	assert.Equal(t, "http://site-0.com", links[0].URL)
	assert.Equal(t, 1, links[0].SourcePage)
	assert.Equal(t, 3, links[2].SourcePage)
}

func TestFetchLinksStopsOnAPIError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			fmt.Fprint(w, `{"error":"quota exhausted"}`)
			return
		}
		fmt.Fprint(w, `{"organic_results":[{"link":"http://site.com"}]}`)
	}))
	defer srv.Close()

	c := newTestSearchClient(t, srv.URL)
	links, err := c.FetchLinks(context.Background(), "q", 0, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "run stops at the API error to avoid wasting quota")
	assert.Len(t, links, 1)
}

func TestFetchLinksSkipsFailedPages(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"organic_results":[{"link":"http://site.com"}]}`)
	}))
	defer srv.Close()

	c := newTestSearchClient(t, srv.URL)
	links, err := c.FetchLinks(context.Background(), "q", 0, 2)
	require.NoError(t, err)
	assert.Len(t, links, 1, "a failed page does not abort the remaining pages")
}

func TestFetchLinksCapsAtPageTen(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"organic_results":[]}`)
	}))
	defer srv.Close()

	c := newTestSearchClient(t, srv.URL)
	_, err := c.FetchLinks(context.Background(), "q", 8, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "pages 9 and 10 only")
}

func TestCapLinks(t *testing.T) {
	links := []Link{
		{URL: "https://www.acme.com/", SourcePage: 1},
		{URL: "acme.com", SourcePage: 1},
		{URL: "bolt.dev", SourcePage: 1},
		{URL: "cogs.io", SourcePage: 2},
		{URL: "dyno.co", SourcePage: 2},
	}

	capped := CapLinks(links, 3)
	require.Len(t, capped, 3)
	assert.Equal(t, "https://www.acme.com/", capped[0].URL, "first occurrence of a duplicate site wins")
	assert.Equal(t, "bolt.dev", capped[1].URL)
	assert.Equal(t, "cogs.io", capped[2].URL)

	assert.Len(t, CapLinks(links, 0), 3, "default cap applies")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(zap.NewNop(), Config{})
	assert.Error(t, err)
}
