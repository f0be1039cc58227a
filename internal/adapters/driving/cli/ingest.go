package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/upload"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

var (
	ingestServer string
	ingestJSON   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf]",
	Short: "Index a PDF",
	Long: `Load a PDF, split it into overlapping chunks, embed them and upsert
them into the vector store.

Runs in-process by default. Use --server to upload to a running
'research-assistant serve' instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestServer, "server", "", "server URL, e.g. http://localhost:3000")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	file, err := upload.FromPath(args[0])
	if err != nil {
		return err
	}
	// Rejected before any AI client is created.
	if err := file.Validate(); err != nil {
		return err
	}

	workflows, err := workflowsFor(cmd.Context(), ingestServer)
	if err != nil {
		return err
	}
	defer workflows.Close()

	result, err := workflows.Ingestion.IngestPDF(cmd.Context(), file)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if ingestJSON {
		return outputJSON(cmd, result)
	}
	outputIngestResult(cmd, result)
	return nil
}

func outputIngestResult(cmd *cobra.Command, result *domain.IngestResult) {
	cmd.Printf("Indexed %s\n", result.Filename)
	cmd.Printf("  Pages:  %d\n", result.Pages)
	cmd.Printf("  Chunks: %d\n", result.Chunks)
	if len(result.SampleResult) > 0 {
		cmd.Printf("  Sample: %s\n", formatSource(domain.SourceOf(result.SampleResult[0])))
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
