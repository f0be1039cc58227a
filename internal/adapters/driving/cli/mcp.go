package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/mcp"
	"github.com/custodia-labs/research-assistant/internal/core/services"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools:
  ask          answer a question from the indexed papers
  ingest_pdf   index a local PDF by path

Resources:
  research-assistant://status    initialisation state
  research-assistant://history   recent local chat history

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve the streamable HTTP transport instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  research-assistant mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  research-assistant mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	history, closeHistory := optionalHistory()
	defer closeHistory()

	readiness := services.NewReadiness()
	workflows := startWorkflows(cmd.Context(), settings, readiness)
	defer func() {
		if w := <-workflows; w != nil {
			w.Close()
		}
	}()

	server, err := mcp.NewServer(&mcp.Ports{
		Chat:      readiness,
		Ingestion: readiness,
		Readiness: readiness,
		History:   history,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
