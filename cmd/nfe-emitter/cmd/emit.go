package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/nfe-emitter/internal/config"
	"github.com/rezonia/nfe-emitter/internal/generator"
	"github.com/rezonia/nfe-emitter/internal/model"
)

var outputDir string

var emitCmd = &cobra.Command{
	Use:   "emit <operation.json>",
	Short: "Emit the XML/TXT document pair for an operation",
	Long: `Emit reads a JSON-encoded operation, assembles the NF-e document and
writes <key>-nfe.xml and <key>-nfe.txt into the output directory.

Examples:
  nfe-emitter emit operation.json
  nfe-emitter emit operation.json --output-dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)

	emitCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory the document pair is written into")
}

func runEmit(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read operation: %w", err)
	}

	var op model.Operation
	if err := json.Unmarshal(data, &op); err != nil {
		return fmt.Errorf("failed to decode operation: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	printVerbose("Emitting with series %03d into %s\n", cfg.SerialNumber, outputDir)

	result, err := generator.New(cfg).Emit(&op, outputDir)
	if err != nil {
		return err
	}

	printVerbose("Wrote %s and %s\n", result.XMLPath, result.TextPath)
	fmt.Println(result.Key)
	return nil
}
