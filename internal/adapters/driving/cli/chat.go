package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/tui"
)

var (
	chatServer string
	chatLimit  int
)

// chatCmd launches the interactive chat client.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat",
	Long: `Launch the interactive terminal chat for research-assistant.

Questions are answered in-process, or by a running server with --server.
The conversation is saved locally and restored on the next start.

Controls:
  Enter          - Ask
  /upload <file> - Index a local PDF
  ↑/↓, PgUp/PgDn - Scroll the conversation
  Ctrl+L         - Clear history
  F1             - Toggle help
  Ctrl+C         - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatServer, "server", "", "server URL, e.g. http://localhost:3000")
	chatCmd.Flags().IntVarP(&chatLimit, "limit", "n", 0, "passages to retrieve per question (default 1)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	workflows, err := workflowsFor(cmd.Context(), chatServer)
	if err != nil {
		return err
	}
	defer workflows.Close()

	history, closeHistory := optionalHistory()
	defer closeHistory()

	app, err := tui.NewApp(tui.NewPorts(workflows.Chat, workflows.Ingestion, history))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	target := "local"
	if chatServer != "" {
		target = chatServer
	}
	app.WithContext(cmd.Context()).WithLimit(chatLimit).WithTarget(target)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
