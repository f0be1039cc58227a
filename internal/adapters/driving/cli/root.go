// Package cli provides the cobra command tree for research-assistant.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/research-assistant/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "research-assistant",
	Short: "Chat with your research papers",
	Long: `research-assistant indexes PDF papers into a vector store and answers
questions about them with a chat model, citing the pages it used.

Start the HTTP API with 'research-assistant serve', or work locally with
'ingest', 'ask' and 'chat'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initSettings()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default ~/.research-assistant)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}
