package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/thinksmartgroup/Search-AI/internal/types"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List the callback records the engine has ingested",
		Long: `List every callback record in the engine's sink, in arrival order.

Examples:
  # Show records
  enrichctl records

  # Output as JSON
  enrichctl records -o json`,
		RunE: runRecords,
	}

	return cmd
}

func runRecords(cmd *cobra.Command, args []string) error {
	data, err := doRequest(http.MethodGet, "/callbacks", nil)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	var records []types.CallbackRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to decode records: %w", err)
	}

	return outputResult(RecordsResult{Records: records, Total: len(records)}, outputFmt)
}
