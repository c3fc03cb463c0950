// enrichctl is a CLI tool for driving a running enrichment correlation
// engine.
//
// Installation:
//
//	go build -o enrichctl ./cmd/enrichctl
//	mv enrichctl /usr/local/bin/
//
// Usage:
//
//	enrichctl records
//	enrichctl resolve --name "Acme" --website acme.com
//	enrichctl dispatch --identifier acme.com
//	enrichctl search "Acme Inc"
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	serverURL string
	outputFmt string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "enrichctl",
		Short: "Inspect and drive the enrichment correlation engine",
		Long: `enrichctl talks to a running enrichd instance over HTTP.

It can list the callback records the engine has ingested, run a full
dispatch-and-wait resolve, or fire a dispatch without waiting.`,
		Version: version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the enrichd server")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")

	// Add subcommands
	rootCmd.AddCommand(recordsCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(dispatchCmd())
	rootCmd.AddCommand(searchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
