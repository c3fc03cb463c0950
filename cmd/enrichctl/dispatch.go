package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func dispatchCmd() *cobra.Command {
	var req resolveRequest

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Fire an enrichment request without waiting for its callback",
		Long: `Dispatch an enrichment request and print the correlation token.

The callback lands in the engine's sink whenever the service delivers
it; use "enrichctl records" to inspect it later.

Examples:
  # Dispatch and print the token
  enrichctl dispatch --identifier acme.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(req)
		},
	}

	cmd.Flags().StringVar(&req.Website, "website", "", "Company website (used as identifier when --identifier is empty)")
	cmd.Flags().StringVar(&req.Identifier, "identifier", "", "Identifier to dispatch")

	return cmd
}

func runDispatch(req resolveRequest) error {
	if req.Identifier == "" && req.Website == "" {
		return fmt.Errorf("either --identifier or --website is required")
	}

	data, err := doRequest(http.MethodPost, "/dispatch", req)
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	var result DispatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}

	return outputResult(result, outputFmt)
}
