package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nfe-emitter",
	Short: "Generate NF-e 3.10 documents from commercial operations",
	Long: `nfe-emitter turns a completed commercial operation (sale, returned
sale or stock transfer) into an NF-e 3.10 document pair: canonical XML
plus the pipe-delimited text rendering the government reference emitter
imports.

Configuration comes from the environment (optionally via .env):
  NFE_SERIAL_NUMBER      invoice series
  NFE_DANFE_ORIENTATION  1 portrait, 2 landscape
  NFE_FISCO_INFORMATION  suffix for the infAdFisco text
  NFE_ENVIRONMENT        1 production, 2 homologation

Examples:
  # Emit the document pair for an operation
  nfe-emitter emit operation.json --output-dir ./out

  # Start the HTTP API
  nfe-emitter serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
