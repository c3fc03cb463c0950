package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinksmartgroup/Search-AI/internal/search"
)

// SearchResult is the result of a search command.
type SearchResult struct {
	Query string        `json:"query"`
	Links []search.Link `json:"links"`
	Total int           `json:"total"`
}

type searchFlags struct {
	BaseURL  string
	APIKey   string
	FromPage int
	Pages    int
	Limit    int
}

func searchCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find candidate websites worth enriching",
		Long: `Query the search API directly and print the capped candidate links.

Unlike the other subcommands this talks to the search API itself, not to
a running enrichd instance. The API key defaults to the SEARCH_API_KEY
environment variable.

Examples:
  # Find enrichment candidates for a company
  enrichctl search "Acme Inc dental software"

  # Scrape deeper and keep more candidates
  enrichctl search --pages 3 --limit 10 "Acme Inc" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "https://serpapi.com/search", "Search API endpoint")
	cmd.Flags().StringVar(&flags.APIKey, "api-key", "", "Search API key (defaults to SEARCH_API_KEY)")
	cmd.Flags().IntVar(&flags.FromPage, "from-page", 0, "Zero-based result page to start from")
	cmd.Flags().IntVar(&flags.Pages, "pages", 1, "Number of result pages to scrape")
	cmd.Flags().IntVar(&flags.Limit, "limit", search.DefaultMaxCandidates, "Maximum distinct candidate sites to keep")

	return cmd
}

func runSearch(flags searchFlags, query string) error {
	apiKey := flags.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("SEARCH_API_KEY")
	}

	client, err := search.NewClient(zap.NewNop(), search.Config{
		BaseURL: flags.BaseURL,
		APIKey:  apiKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	links, err := client.FetchLinks(context.Background(), query, flags.FromPage, flags.Pages)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	links = search.CapLinks(links, flags.Limit)

	return outputResult(SearchResult{Query: query, Links: links, Total: len(links)}, outputFmt)
}

func outputSearchTable(w *tabwriter.Writer, r SearchResult) error {
	fmt.Fprintf(w, "QUERY\t%s\n", r.Query)
	fmt.Fprintf(w, "TOTAL\t%d\n\n", r.Total)

	fmt.Fprintln(w, "URL\tPAGE")
	for _, link := range r.Links {
		fmt.Fprintf(w, "%s\t%d\n", link.URL, link.SourcePage)
	}

	return nil
}
