package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/nfe-emitter/internal/config"
	"github.com/rezonia/nfe-emitter/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server wrapping the document generator.

The API provides endpoints for:
  - POST /api/v1/emit       - Assemble a document from a JSON operation
  - POST /api/v1/key/check  - Verify a 44-digit access key
  - GET  /health            - Health check

Examples:
  # Start server on default port
  nfe-emitter serve

  # Start on custom port in debug mode
  nfe-emitter serve --address :8080 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	srv := server.NewServer(&server.Config{
		Address:      serverAddr,
		Emitter:      cfg,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	})

	printVerbose("Listening on %s\n", serverAddr)
	return srv.Run()
}
