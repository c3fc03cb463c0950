package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// resolveRequest mirrors the engine's POST /resolve body.
type resolveRequest struct {
	Name       string `json:"name,omitempty"`
	Website    string `json:"website,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

func resolveCmd() *cobra.Command {
	var req resolveRequest

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Dispatch an enrichment request and wait for its result",
		Long: `Run a full dispatch-and-wait resolve against the engine.

The command blocks until the engine resolves the request or its wait
budget runs out; a timeout answers the not-found sentinel, not an error.

Examples:
  # Resolve by company name and website
  enrichctl resolve --name "Acme" --website acme.com

  # Resolve a specific profile identifier
  enrichctl resolve --identifier linkedin.com/company/acme -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Company name for heuristic matching")
	cmd.Flags().StringVar(&req.Website, "website", "", "Company website for heuristic matching")
	cmd.Flags().StringVar(&req.Identifier, "identifier", "", "Identifier to dispatch (defaults to --website)")

	return cmd
}

func runResolve(req resolveRequest) error {
	if req.Identifier == "" && req.Website == "" {
		return fmt.Errorf("either --identifier or --website is required")
	}

	data, err := doRequest(http.MethodPost, "/resolve", req)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	var result ResolveResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}

	return outputResult(result, outputFmt)
}
